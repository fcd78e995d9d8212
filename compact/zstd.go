package compact

// ZstdCodec offers the best compression ratio of the built-in codecs,
// at the cost of slower compression, for cold-storage archives of
// combined Weft files (ties to the teacher's compress.ZstdCompressor).
// Its Compress/Decompress methods live in zstd_cgo.go or zstd_pure.go,
// selected by build tag.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Algorithm() Algorithm { return Zstd }
