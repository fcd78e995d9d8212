package weft

import (
	"fmt"
	"sync"
	"time"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/section"
)

// SectionIndex is one section header plus its run of 48h blocks,
// materialized lazily: at parse time only each block's center date is
// decoded (a cheap 4-byte peek per block), so a Reader.value_at call
// against a huge file touches only the one block it needs (§5).
type SectionIndex struct {
	Header section.SectionHeader

	data    []byte // the full file buffer; offsets below index into it
	offset  int    // absolute offset of the first 48h block's marker
	centers []time.Time

	mu    sync.Mutex
	cache []*section.FortyEightHourBlock
}

// newSectionIndex builds an index over the blockCount 48h blocks that
// immediately follow offset in data, each blockSize bytes long,
// decoding only their center dates.
func newSectionIndex(header section.SectionHeader, data []byte, offset int) (*SectionIndex, error) {
	engine := endian.GetBigEndianEngine()
	count := int(header.BlockCount)
	centers := make([]time.Time, count)

	pos := offset
	for i := 0; i < count; i++ {
		// Running out of data, or landing on some other recognized
		// block/header marker, before BlockCount blocks have been
		// seen means the header over-declared its count (§8 scenario
		// 6) rather than that the stream is corrupt.
		if pos >= len(data) {
			return nil, &errs.BlockCountMismatchError{Expected: count, Got: i}
		}
		if pos+int(header.BlockSize) > len(data) {
			return nil, fmt.Errorf("%w: section block %d", errs.ErrTruncatedBlock, i)
		}
		marker := engine.Uint16(data[pos : pos+2])
		if marker != section.MarkerFortyEightHour {
			if section.PrecisionRank(marker) >= 0 {
				return nil, &errs.BlockCountMismatchError{Expected: count, Got: i}
			}
			return nil, fmt.Errorf("%w: expected 48h marker at block %d, got 0x%04x", errs.ErrBadMarker, i, marker)
		}
		year := int16(engine.Uint16(data[pos+2 : pos+4]))
		month := data[pos+4]
		day := data[pos+5]
		centers[i] = time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
		pos += int(header.BlockSize)
	}

	return &SectionIndex{
		Header:  header,
		data:    data,
		offset:  offset,
		centers: centers,
		cache:   make([]*section.FortyEightHourBlock, count),
	}, nil
}

// NewSectionIndexFromBlocks builds a SectionIndex directly from already
// decoded blocks (as produced by Combine's re-grouping or by Writer's
// generation pass), bypassing the raw-buffer decode path entirely:
// every cache slot is pre-filled, so Block() never touches si.data.
func NewSectionIndexFromBlocks(header section.SectionHeader, blocks []section.FortyEightHourBlock) *SectionIndex {
	centers := make([]time.Time, len(blocks))
	cache := make([]*section.FortyEightHourBlock, len(blocks))
	for i := range blocks {
		b := blocks[i]
		centers[i] = b.Center()
		cache[i] = &b
	}

	return &SectionIndex{
		Header:  header,
		centers: centers,
		cache:   cache,
	}
}

// Len returns the number of 48h blocks in this section.
func (si *SectionIndex) Len() int { return len(si.centers) }

// Center returns the i-th block's center date without materializing it.
func (si *SectionIndex) Center(i int) time.Time { return si.centers[i] }

// Coverage returns the section header's nominal date range.
func (si *SectionIndex) Coverage() (start, end time.Time) { return si.Header.Coverage() }

// Block materializes (and caches) the i-th 48h block. Concurrent calls
// are serialized by a mutex; the first caller to observe a nil cache
// slot decodes the block, every later caller for the same index gets
// the cached pointer (§5's idempotent-fill requirement).
func (si *SectionIndex) Block(i int) (*section.FortyEightHourBlock, error) {
	if i < 0 || i >= len(si.centers) {
		return nil, fmt.Errorf("%w: section block index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(si.centers))
	}

	si.mu.Lock()
	defer si.mu.Unlock()

	if si.cache[i] != nil {
		return si.cache[i], nil
	}

	off := si.offset + i*int(si.Header.BlockSize)
	blk, _, err := section.ParseFortyEightHourBlock(si.data[off+section.MarkerSize:off+int(si.Header.BlockSize)], si.Header.BlockSize)
	if err != nil {
		return nil, err
	}
	si.cache[i] = &blk

	return si.cache[i], nil
}

// AllBlocks materializes every block in the section, used by Combine
// which needs the full content to re-group across input files.
func (si *SectionIndex) AllBlocks() ([]section.FortyEightHourBlock, error) {
	out := make([]section.FortyEightHourBlock, len(si.centers))
	for i := range si.centers {
		b, err := si.Block(i)
		if err != nil {
			return nil, err
		}
		out[i] = *b
	}

	return out, nil
}
