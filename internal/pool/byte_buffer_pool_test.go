package pool

import (
	"bytes"
	"testing"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	if _, err := bb.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if bb.Len() != 5 {
		t.Fatalf("expected length 5, got %d", bb.Len())
	}

	bb.Reset()
	if bb.Len() != 0 {
		t.Fatalf("expected length 0 after Reset, got %d", bb.Len())
	}
	if bb.Cap() < 16 {
		t.Fatalf("Reset should retain capacity, got %d", bb.Cap())
	}
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("weft"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	if out.String() != "weft" {
		t.Fatalf("expected %q, got %q", "weft", out.String())
	}
}

func TestByteBufferPool_GetPutRoundTrip(t *testing.T) {
	p := NewByteBufferPool(8, 1024)

	bb := p.Get()
	bb.B = append(bb.B, []byte("data")...)
	p.Put(bb)

	bb2 := p.Get()
	if bb2.Len() != 0 {
		t.Fatalf("expected pooled buffer reset to length 0, got %d", bb2.Len())
	}
}

func TestByteBufferPool_DropsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(8, 32)

	bb := NewByteBuffer(8)
	bb.B = make([]byte, 0, 64) // exceeds maxThreshold
	p.Put(bb)                  // should be silently dropped, not pooled

	// No observable effect beyond not panicking; Get() still works.
	got := p.Get()
	if got == nil {
		t.Fatal("expected a buffer from Get after dropping an oversized Put")
	}
}

func TestByteBufferPool_PutNilIsNoop(t *testing.T) {
	p := NewByteBufferPool(8, 32)
	p.Put(nil) // must not panic
}

func TestGetFileBuffer_PutFileBuffer_RoundTrip(t *testing.T) {
	bb := GetFileBuffer()
	bb.B = append(bb.B, []byte("file")...)
	PutFileBuffer(bb)

	bb2 := GetFileBuffer()
	defer PutFileBuffer(bb2)
	if bb2.Len() != 0 {
		t.Fatalf("expected reset buffer, got length %d", bb2.Len())
	}
}

func TestGetCombineBuffer_PutCombineBuffer_RoundTrip(t *testing.T) {
	bb := GetCombineBuffer()
	bb.B = append(bb.B, []byte("combine")...)
	PutCombineBuffer(bb)

	bb2 := GetCombineBuffer()
	defer PutCombineBuffer(bb2)
	if bb2.Len() != 0 {
		t.Fatalf("expected reset buffer, got length %d", bb2.Len())
	}
}
