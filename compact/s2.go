package compact

import "github.com/klauspost/compress/s2"

// S2Codec offers a fast, moderate-ratio codec for hot-path archive
// writes where latency matters more than size (ties to the teacher's
// compress.S2Compressor).
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}

func (S2Codec) Algorithm() Algorithm { return S2 }
