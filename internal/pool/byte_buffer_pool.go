// Package pool provides allocation-reducing buffer pools shared by the
// writer and compact packages. Mechanically unchanged from a generic
// growable-byte-buffer pool; only the size tiers are specific to Weft.
package pool

import (
	"io"
	"sync"
)

// Default and max-retained sizes for the two buffer tiers this module
// needs: a single serialized WeftFile (tens of KB to a few MB for a
// multi-decade file with dense 48h coverage), and a combine buffer sized
// for concatenating several such files.
const (
	FileBufferDefaultSize    = 1024 * 64        // 64KiB
	FileBufferMaxThreshold   = 1024 * 1024 * 4  // 4MiB
	CombineBufferDefaultSize = 1024 * 1024      // 1MiB
	CombineBufferMaxThresh   = 1024 * 1024 * 32 // 32MiB
)

// ByteBuffer is a growable byte slice wrapper designed for pooling.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an optional maximum
// retained-capacity threshold, so an unusually large file doesn't pin a
// large buffer in the pool indefinitely.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	fileDefaultPool    = NewByteBufferPool(FileBufferDefaultSize, FileBufferMaxThreshold)
	combineDefaultPool = NewByteBufferPool(CombineBufferDefaultSize, CombineBufferMaxThresh)
)

// GetFileBuffer retrieves a ByteBuffer from the default single-file pool.
func GetFileBuffer() *ByteBuffer {
	return fileDefaultPool.Get()
}

// PutFileBuffer returns a ByteBuffer to the default single-file pool.
func PutFileBuffer(bb *ByteBuffer) {
	fileDefaultPool.Put(bb)
}

// GetCombineBuffer retrieves a ByteBuffer from the default combine pool.
func GetCombineBuffer() *ByteBuffer {
	return combineDefaultPool.Get()
}

// PutCombineBuffer returns a ByteBuffer to the default combine pool.
func PutCombineBuffer(bb *ByteBuffer) {
	combineDefaultPool.Put(bb)
}
