package reader

import (
	"fmt"
	"sort"
	"time"

	"github.com/weftlib/weft/cheb"
	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/section"
	"github.com/weftlib/weft/trace"
	"github.com/weftlib/weft/weft"
)

// Reader answers point and range queries against a parsed WeftFile.
// It holds no mutable state beyond the trace sink, so a single Reader
// can safely serve one query at a time per goroutine; concurrent
// Readers over the same WeftFile share its lazily materialized
// sections (guarded in weft.SectionIndex).
type Reader struct {
	file *weft.WeftFile
	sink trace.Sink
}

// New wraps f for reading. The default trace sink discards all events.
func New(f *weft.WeftFile) *Reader {
	return &Reader{file: f, sink: trace.NopSink{}}
}

// Trace installs sink to receive block-selection and blend events for
// every subsequent call. Passing nil restores the no-op sink.
func (r *Reader) Trace(sink trace.Sink) {
	if sink == nil {
		sink = trace.NopSink{}
	}
	r.sink = sink
}

// ValueAt evaluates the file's quantity at t, selecting the
// highest-precision block that covers it (§4.4): a 48h block pair when
// t falls in a section's coverage, a monthly block, then a multi-year
// block, in that order. The result has the preamble's value-behavior
// post-processing applied (wrap or clamp).
func (r *Reader) ValueAt(t time.Time) (float64, error) {
	if raw, ok, err := r.evalFortyEightHour(t); err != nil {
		return 0, err
	} else if ok {
		return r.file.Preamble.ValueBehavior.PostProcess(raw), nil
	}

	if b, ok := coveringBlock(toBlocks(r.file.Monthly), t); ok {
		v := cheb.Eval(b.(section.MonthlyBlock).Coefficients, section.NormalizeX(b, t))
		r.sink.Selected(map[string]any{"kind": "monthly", "instant": t})
		return r.file.Preamble.ValueBehavior.PostProcess(v), nil
	}

	if b, ok := coveringBlock(toBlocksMultiYear(r.file.MultiYear), t); ok {
		v := cheb.Eval(b.(section.MultiYearBlock).Coefficients, section.NormalizeX(b, t))
		r.sink.Selected(map[string]any{"kind": "multi_year", "instant": t})
		return r.file.Preamble.ValueBehavior.PostProcess(v), nil
	}

	r.sink.Skipped("out_of_range", map[string]any{"instant": t})
	return 0, fmt.Errorf("%w: %s", errs.ErrOutOfRange, t.Format(time.RFC3339))
}

// RateAt returns the quantity's instantaneous rate of change at t, in
// units per second, via the Chebyshev series' analytic derivative
// (§9 supplemental primitive). In a blended overlap region between two
// adjacent 48h blocks, the result is the same weighted blend of each
// block's derivative used for the value itself; this ignores the
// (typically negligible) contribution of the blend weight's own
// derivative.
func (r *Reader) RateAt(t time.Time) (float64, error) {
	for _, s := range r.file.Sections {
		if !s.Header.ContainsDate(t) {
			continue
		}
		left, right, w, ok, err := r.locateFortyEightHour(s, t)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if right == nil {
			return scaledDerivative(*left, t), nil
		}
		lr := scaledDerivative(*left, t)
		rr := scaledDerivative(*right, t)
		return lr*(1-w) + rr*w, nil
	}

	if b, ok := coveringBlock(toBlocks(r.file.Monthly), t); ok {
		mb := b.(section.MonthlyBlock)
		return scaledDerivativeGeneric(mb, mb.Coefficients, t), nil
	}
	if b, ok := coveringBlock(toBlocksMultiYear(r.file.MultiYear), t); ok {
		yb := b.(section.MultiYearBlock)
		return scaledDerivativeGeneric(yb, yb.Coefficients, t), nil
	}

	return 0, fmt.Errorf("%w: %s", errs.ErrOutOfRange, t.Format(time.RFC3339))
}

func scaledDerivative(b section.FortyEightHourBlock, t time.Time) float64 {
	return scaledDerivativeGeneric(b, b.Coefficients, t)
}

// scaledDerivativeGeneric applies the chain rule for the affine
// x = -1 + 2·(t-start)/span map: dValue/dt = dValue/dx · dx/dt, where
// dx/dt = 2/span.
func scaledDerivativeGeneric(b section.Block, coeffs []float32, t time.Time) float64 {
	start, end := b.Coverage()
	span := end.Sub(start).Seconds()
	if span <= 0 {
		return 0
	}
	x := section.NormalizeX(b, t)
	return cheb.EvalDerivative(coeffs, x) * 2 / span
}

// evalFortyEightHour attempts the 48h/section lookup; ok is false if t
// falls in a section's date range but neither the day's own block nor
// its neighbor actually cover the instant (a gap), signalling the
// caller to fall back to monthly/multi-year.
func (r *Reader) evalFortyEightHour(t time.Time) (value float64, ok bool, err error) {
	for _, s := range r.file.Sections {
		if !s.Header.ContainsDate(t) {
			continue
		}
		left, right, w, found, err := r.locateFortyEightHour(s, t)
		if err != nil {
			return 0, false, err
		}
		if !found {
			return 0, false, nil
		}
		if right == nil {
			v := cheb.Eval(left.Coefficients, section.NormalizeX(*left, t))
			r.sink.Selected(map[string]any{"kind": "forty_eight_hour", "center": left.Center()})
			return v, true, nil
		}

		lv := cheb.Eval(left.Coefficients, section.NormalizeX(*left, t))
		rv := cheb.Eval(right.Coefficients, section.NormalizeX(*right, t))
		rv = closestRepresentative(r.file.Preamble.ValueBehavior, lv, rv)
		r.sink.Blended(map[string]any{"left": left.Center(), "right": right.Center(), "weight": w})
		return lv*(1-w) + rv*w, true, nil
	}

	return 0, false, nil
}

// locateFortyEightHour binary-searches s's center dates for the block
// (or blended pair of blocks) covering t. A block centered on day D
// covers calendar days {D-1, D}, so any instant on day D can be
// covered by both the block centered on D and the one centered on
// D+1; only indices adjacent to the binary-search position can ever
// satisfy Covers, so checking that neighborhood is sufficient. right
// is nil when only one block covers t; found is false when t falls in
// the section's date range but no block's window actually reaches it
// (a gap in an otherwise sparse section).
func (r *Reader) locateFortyEightHour(s *weft.SectionIndex, t time.Time) (left, right *section.FortyEightHourBlock, weight float64, found bool, err error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	i := sort.Search(s.Len(), func(k int) bool { return !s.Center(k).Before(day) })

	var covering []*section.FortyEightHourBlock
	for _, idx := range [...]int{i - 1, i, i + 1} {
		if idx < 0 || idx >= s.Len() {
			continue
		}
		b, berr := s.Block(idx)
		if berr != nil {
			return nil, nil, 0, false, berr
		}
		if section.Covers(*b, t) {
			covering = append(covering, b)
		}
	}

	switch len(covering) {
	case 0:
		return nil, nil, 0, false, nil
	case 1:
		return covering[0], nil, 0, true, nil
	default:
		// covering is built from ascending indices, so [0] is the
		// earlier center and [1] the later one, 24h apart.
		l, rgt := covering[0], covering[1]
		w := t.Sub(l.Center()).Hours() / 24.0
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		return l, rgt, w, true, nil
	}
}

// closestRepresentative shifts rv by whole multiples of the wrapping
// span so it sits on the same "unwrapped" branch as lv before they are
// blended (§4.4 step 3): minimizing |rv'-lv| avoids a spurious jump
// when the two raw evaluations straddle the wrap boundary (e.g.
// lv=359, rv=1). Non-wrapping behaviors pass rv through unchanged; the
// caller applies PostProcess to the blended result afterward.
func closestRepresentative(vb section.ValueBehavior, lv, rv float64) float64 {
	if vb.Kind != section.Wrapping {
		return rv
	}
	span := vb.Max - vb.Min
	if span <= 0 {
		return rv
	}
	for rv-lv > span/2 {
		rv -= span
	}
	for lv-rv > span/2 {
		rv += span
	}
	return rv
}

func toBlocks(blocks []section.MonthlyBlock) []section.Block {
	out := make([]section.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}

func toBlocksMultiYear(blocks []section.MultiYearBlock) []section.Block {
	out := make([]section.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}

func coveringBlock(blocks []section.Block, t time.Time) (section.Block, bool) {
	for _, b := range blocks {
		if section.Covers(b, t) {
			return b, true
		}
	}
	return nil, false
}
