package compact

import "fmt"

// Algorithm identifies the envelope's compression scheme, stored as a
// single byte in the envelope header.
type Algorithm uint8

const (
	None Algorithm = iota
	S2
	LZ4
	Zstd
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses whole-file envelope payloads.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// NewCodec returns the built-in Codec for algo.
func NewCodec(algo Algorithm) (Codec, error) {
	switch algo {
	case None:
		return NoopCodec{}, nil
	case S2:
		return S2Codec{}, nil
	case LZ4:
		return LZ4Codec{}, nil
	case Zstd:
		return ZstdCodec{}, nil
	default:
		return nil, fmt.Errorf("compact: unsupported algorithm %s", algo)
	}
}

// NoopCodec passes data through unchanged, for archives where the
// contained Weft files are already dense (e.g. mostly 48h coefficient
// payloads) or compression is undesirable for CPU reasons.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
func (NoopCodec) Algorithm() Algorithm                   { return None }
