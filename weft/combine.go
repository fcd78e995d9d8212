package weft

import (
	"fmt"
	"sort"
	"time"

	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/internal/hash"
	"github.com/weftlib/weft/section"
)

// Combine merges several compatible WeftFiles into one (§4). Inputs
// must agree on every combine-required preamble field (§3.1); the
// result's timespan is recomputed from the merged coverage unless
// customTimespan is non-empty, and generated_at is stamped with now.
//
// Blocks that are byte-identical (same kind, same coverage, same
// coefficients) across inputs are deduplicated by content hash rather
// than kept as redundant copies; 48h blocks are then re-grouped into
// maximal contiguous-day runs per §4.5 step 4, so section boundaries
// are recomputed rather than inherited from any one input.
func Combine(files []*WeftFile, customTimespan string, now time.Time) (*WeftFile, error) {
	if len(files) == 0 {
		return nil, errs.ErrNothingToCombine
	}

	base := files[0].Preamble
	for _, f := range files[1:] {
		if err := section.CheckCombineCompatible(base, f.Preamble); err != nil {
			return nil, err
		}
	}

	merged := &WeftFile{Preamble: base}

	seenMultiYear := make(map[uint64]bool)
	for _, f := range files {
		for _, b := range f.MultiYear {
			h := hash.Bytes(b.Serialize(nil))
			if seenMultiYear[h] {
				continue
			}
			seenMultiYear[h] = true
			merged.MultiYear = append(merged.MultiYear, b)
		}
	}

	seenMonthly := make(map[uint64]bool)
	for _, f := range files {
		for _, b := range f.Monthly {
			h := hash.Bytes(b.Serialize(nil))
			if seenMonthly[h] {
				continue
			}
			seenMonthly[h] = true
			merged.Monthly = append(merged.Monthly, b)
		}
	}

	// Sort both by coverage start so Combine is commutative in its
	// inputs: the 48h path already gets this for free from
	// GroupContiguous, but multi-year/monthly blocks carry over in
	// whatever order the input files happened to list them in.
	sort.Slice(merged.MultiYear, func(i, j int) bool {
		si, _ := merged.MultiYear[i].Coverage()
		sj, _ := merged.MultiYear[j].Coverage()
		return si.Before(sj)
	})
	sort.Slice(merged.Monthly, func(i, j int) bool {
		si, _ := merged.Monthly[i].Coverage()
		sj, _ := merged.Monthly[j].Coverage()
		return si.Before(sj)
	})

	var all48h []section.FortyEightHourBlock
	seen48h := make(map[uint64]bool)
	for _, f := range files {
		for _, s := range f.Sections {
			blocks, err := s.AllBlocks()
			if err != nil {
				return nil, err
			}
			for _, b := range blocks {
				canon, err := b.Serialize(nil, canonicalBlockSize(b))
				if err != nil {
					return nil, fmt.Errorf("combine: canonicalizing 48h block: %w", err)
				}
				h := hash.Bytes(canon)
				if seen48h[h] {
					continue
				}
				seen48h[h] = true
				all48h = append(all48h, b)
			}
		}
	}

	for _, g := range section.GroupContiguous(all48h) {
		merged.Sections = append(merged.Sections, NewSectionIndexFromBlocks(g.Header(), g.Blocks))
	}

	if customTimespan != "" {
		merged.Preamble.Timespan = customTimespan
	} else {
		start, end, ok := overallCoverage(merged)
		if ok {
			merged.Preamble.Timespan = section.InferTimespan(start, end)
		}
	}
	merged.Preamble.GeneratedAt = section.FormatGeneratedAt(now)

	return merged, nil
}

// canonicalBlockSize is the smallest even-aligned block_size b would
// need, used to hash its content independent of whatever padding its
// source file happened to apply.
func canonicalBlockSize(b section.FortyEightHourBlock) uint16 {
	n := b.MinLen()
	if n%2 != 0 {
		n++
	}
	return uint16(n)
}

// overallCoverage returns the earliest start and latest end across
// every block the merged file carries.
func overallCoverage(f *WeftFile) (start, end time.Time, ok bool) {
	consider := func(s, e time.Time) {
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}

	for _, b := range f.MultiYear {
		consider(b.Coverage())
	}
	for _, b := range f.Monthly {
		consider(b.Coverage())
	}
	for _, s := range f.Sections {
		consider(s.Coverage())
	}

	return start, end, ok
}
