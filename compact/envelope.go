package compact

import (
	"bytes"
	"fmt"
	"io"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/internal/pool"
	"github.com/weftlib/weft/weft"
)

// envelopeMagic identifies a compressed archive produced by WriteFile, so
// ReadFile can reject a bare (uncompressed) Weft stream handed to it by
// mistake with a clear error instead of a confusing decompression failure.
var envelopeMagic = [4]byte{'W', 'F', 'T', 'C'}

const envelopeVersion = 1

// envelopeHeaderSize is magic(4) + version(1) + algorithm(1) + uncompressed
// length(4) + compressed length(4).
const envelopeHeaderSize = 4 + 1 + 1 + 4 + 4

// WriteFile serializes f, compresses the result with algo, and writes the
// compressed envelope to w. The envelope records the algorithm and both
// the compressed and uncompressed lengths so ReadFile can pick the right
// codec and preallocate its decompression buffer without guessing.
func WriteFile(w io.Writer, f *weft.WeftFile, algo Algorithm) (int64, error) {
	codec, err := NewCodec(algo)
	if err != nil {
		return 0, err
	}

	raw := pool.GetFileBuffer()
	defer pool.PutFileBuffer(raw)

	var body bytes.Buffer
	if _, err := f.Serialize(&body); err != nil {
		return 0, fmt.Errorf("compact: serializing weft file: %w", err)
	}
	raw.B = append(raw.B, body.Bytes()...)

	compressed, err := codec.Compress(raw.B)
	if err != nil {
		return 0, fmt.Errorf("compact: compressing with %s: %w", algo, err)
	}

	out := pool.GetCombineBuffer()
	defer pool.PutCombineBuffer(out)

	out.B = append(out.B, envelopeMagic[:]...)
	out.B = append(out.B, envelopeVersion, byte(algo))
	engine := endian.GetBigEndianEngine()
	out.B = engine.AppendUint32(out.B, uint32(len(raw.B)))
	out.B = engine.AppendUint32(out.B, uint32(len(compressed)))
	out.B = append(out.B, compressed...)

	n, err := out.WriteTo(w)
	return n, err
}

// ReadFile reads a compressed envelope previously produced by WriteFile,
// decompresses it, and parses the result as a Weft container.
func ReadFile(r io.Reader) (*weft.WeftFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compact: reading envelope: %w", err)
	}
	if len(data) < envelopeHeaderSize {
		return nil, fmt.Errorf("compact: envelope too short (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:4], envelopeMagic[:]) {
		return nil, fmt.Errorf("compact: bad envelope magic %q, not a compressed weft archive", data[:4])
	}
	version := data[4]
	if version != envelopeVersion {
		return nil, fmt.Errorf("compact: unsupported envelope version %d", version)
	}
	algo := Algorithm(data[5])

	engine := endian.GetBigEndianEngine()
	uncompressedLen := engine.Uint32(data[6:10])
	compressedLen := engine.Uint32(data[10:14])

	payload := data[envelopeHeaderSize:]
	if uint32(len(payload)) != compressedLen {
		return nil, fmt.Errorf("compact: envelope declares %d compressed bytes, got %d", compressedLen, len(payload))
	}

	codec, err := NewCodec(algo)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("compact: decompressing with %s: %w", algo, err)
	}
	if uint32(len(raw)) != uncompressedLen {
		return nil, fmt.Errorf("compact: envelope declares %d uncompressed bytes, got %d", uncompressedLen, len(raw))
	}

	return weft.Parse(raw)
}
