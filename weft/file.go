package weft

import (
	"bytes"
	"fmt"
	"io"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/internal/pool"
	"github.com/weftlib/weft/section"
)

// WeftFile is a fully parsed Weft container: the preamble plus every
// block it carries. Sections are lazily materialized (see
// SectionIndex); MultiYear and Monthly blocks are cheap and few enough
// to decode eagerly.
type WeftFile struct {
	Preamble  section.Preamble
	MultiYear []section.MultiYearBlock
	Monthly   []section.MonthlyBlock
	Sections  []*SectionIndex
}

// Parse decodes a complete Weft binary stream. The block-ordering
// invariant of §3.2 is enforced: multi-year blocks, then monthly
// blocks, then section headers each immediately followed by exactly
// BlockCount 48h blocks, with no precision ever decreasing across the
// stream.
func Parse(data []byte) (*WeftFile, error) {
	nl := bytes.IndexByte(data, '\n')
	var line []byte
	var body []byte
	if nl < 0 {
		line, body = data, nil
	} else {
		line, body = data[:nl+1], data[nl+1:]
	}

	preamble, err := section.ParsePreamble(string(line))
	if err != nil {
		return nil, err
	}

	f := &WeftFile{Preamble: preamble}
	engine := endian.GetBigEndianEngine()

	pos := 0
	lastRank := 0
	for pos < len(body) {
		if pos+section.MarkerSize > len(body) {
			return nil, fmt.Errorf("%w: truncated marker at offset %d", errs.ErrTruncatedBlock, pos)
		}
		marker := engine.Uint16(body[pos : pos+section.MarkerSize])
		rank := section.PrecisionRank(marker)
		if rank < 0 {
			return nil, fmt.Errorf("%w: 0x%04x at offset %d", errs.ErrBadMarker, marker, pos)
		}
		if rank < lastRank {
			return nil, fmt.Errorf("%w: marker 0x%04x at offset %d follows higher-precision data", errs.ErrOutOfOrderBlock, marker, pos)
		}
		lastRank = rank

		switch marker {
		case section.MarkerMultiYear:
			blk, n, err := section.ParseMultiYearBlock(body[pos+section.MarkerSize:])
			if err != nil {
				return nil, err
			}
			f.MultiYear = append(f.MultiYear, blk)
			pos += section.MarkerSize + n

		case section.MarkerMonthly:
			blk, n, err := section.ParseMonthlyBlock(body[pos+section.MarkerSize:])
			if err != nil {
				return nil, err
			}
			f.Monthly = append(f.Monthly, blk)
			pos += section.MarkerSize + n

		case section.MarkerSectionHeader:
			hdr, n, err := section.ParseSectionHeader(body[pos+section.MarkerSize:])
			if err != nil {
				return nil, err
			}
			pos += section.MarkerSize + n

			idx, err := newSectionIndex(hdr, body, pos)
			if err != nil {
				return nil, err
			}
			f.Sections = append(f.Sections, idx)
			pos += int(hdr.BlockSize) * int(hdr.BlockCount)

		case section.MarkerFortyEightHour:
			return nil, fmt.Errorf("%w: 48h block at offset %d not preceded by a section header", errs.ErrBadMarker, pos)

		default:
			return nil, fmt.Errorf("%w: unhandled marker 0x%04x", errs.ErrBadMarker, marker)
		}
	}

	return f, nil
}

// Serialize writes the container's full binary representation to w:
// the preamble line, then multi-year blocks, then monthly blocks, then
// each section's header and 48h blocks, in that order.
func (f *WeftFile) Serialize(w io.Writer) (int64, error) {
	bb := pool.GetFileBuffer()
	defer pool.PutFileBuffer(bb)

	bb.B = append(bb.B, []byte(f.Preamble.String())...)
	bb.B = append(bb.B, '\n')

	for _, b := range f.MultiYear {
		bb.B = b.Serialize(bb.B)
	}
	for _, b := range f.Monthly {
		bb.B = b.Serialize(bb.B)
	}
	for _, s := range f.Sections {
		bb.B = s.Header.Serialize(bb.B)
		blocks, err := s.AllBlocks()
		if err != nil {
			return 0, err
		}
		for _, b := range blocks {
			var blkErr error
			bb.B, blkErr = b.Serialize(bb.B, s.Header.BlockSize)
			if blkErr != nil {
				return 0, blkErr
			}
		}
	}

	n, err := bb.WriteTo(w)
	return n, err
}

// Bytes serializes the container into an owned byte slice, a
// convenience wrapper around Serialize for callers that don't have an
// io.Writer handy (tests, in-memory round-tripping).
func (f *WeftFile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Summary returns a short human-readable description of the
// container's contents: identity, timespan, and block counts per kind.
// It is a diagnostic aid, not part of the wire format.
func (f *WeftFile) Summary() string {
	total48h := 0
	for _, s := range f.Sections {
		total48h += s.Len()
	}

	return fmt.Sprintf("%s %s %s: %d multi-year, %d monthly, %d section(s) (%d 48h blocks)",
		f.Preamble.ID, f.Preamble.Quantity, f.Preamble.Timespan,
		len(f.MultiYear), len(f.Monthly), len(f.Sections), total48h)
}
