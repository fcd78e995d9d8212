// Package weft provides a compact binary format for storing astronomical
// ephemerides (or any other slowly-varying scalar time series) as
// piecewise Chebyshev polynomial fits, queried by timestamp instead of
// index.
//
// A Weft file layers three precisions over the same quantity: coarse
// multi-year blocks for long-range queries, monthly blocks for medium
// range, and dense 48h blocks for high-precision recent data. A Reader
// picks the highest-precision block that covers a given instant; a
// Writer decides which precisions are worth generating from a data
// source's actual density and coverage.
//
// # Basic usage
//
// Writing a file from a data source:
//
//	import "github.com/weftlib/weft"
//
//	f, err := weft.Write(src, out, writer.WithIdentity("mars", "jpl:horizons", "longitude"))
//
// Reading a value back:
//
//	f, err := weft.Parse(data)
//	r := weft.NewReader(f)
//	v, err := r.ValueAt(t)
//
// # Package structure
//
// This file provides convenience wrappers around the writer, reader,
// weft, and compact packages for the most common use cases. For
// fine-grained control over block-generation policy, tracing, or
// archival compression, use those packages directly.
package weft

import (
	"io"
	"time"

	"github.com/weftlib/weft/compact"
	"github.com/weftlib/weft/reader"
	"github.com/weftlib/weft/source"
	"github.com/weftlib/weft/weft"
	"github.com/weftlib/weft/writer"
)

// Parse decodes a complete Weft binary stream into a WeftFile.
func Parse(data []byte) (*weft.WeftFile, error) {
	return weft.Parse(data)
}

// Write generates a WeftFile from src according to opts, serializes it
// to output, and returns the generated file. When opts enable no block
// kind (including when there are no options), the writer auto-selects
// block precisions via writer.Recommend.
func Write(src source.DataSource, output io.Writer, opts ...writer.Option) (*weft.WeftFile, error) {
	wtr, err := writer.New(opts...)
	if err != nil {
		return nil, err
	}
	if !wtr.MultiYear.Enabled && !wtr.Monthly.Enabled && !wtr.FortyEightHour.Enabled {
		rec := writer.Recommend(src)
		wtr.MultiYear, wtr.Monthly, wtr.FortyEightHour = rec.MultiYear, rec.Monthly, rec.FortyEightHour
	}
	f, err := wtr.Generate(src)
	if err != nil {
		return nil, err
	}
	if _, err := f.Serialize(output); err != nil {
		return nil, err
	}
	return f, nil
}

// Combine merges several compatible WeftFiles into one, deduplicating
// identical blocks and recomputing section boundaries and timespan.
func Combine(files []*weft.WeftFile, customTimespan string, now time.Time) (*weft.WeftFile, error) {
	return weft.Combine(files, customTimespan, now)
}

// NewReader wraps f for point and range queries.
func NewReader(f *weft.WeftFile) *reader.Reader {
	return reader.New(f)
}

// WriteCompressed serializes f and writes it to w as a compressed
// archive, for cold storage or network transfer.
func WriteCompressed(w io.Writer, f *weft.WeftFile, algo compact.Algorithm) (int64, error) {
	return compact.WriteFile(w, f, algo)
}

// ReadCompressed reads and decompresses an archive previously written
// by WriteCompressed, returning the parsed WeftFile.
func ReadCompressed(r io.Reader) (*weft.WeftFile, error) {
	return compact.ReadFile(r)
}
