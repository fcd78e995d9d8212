package reader

import (
	"iter"
	"time"
)

// Sample pairs an instant with the result of evaluating it: Err is
// non-nil (and Value zero) when the instant fell outside all block
// coverage.
type Sample struct {
	Instant time.Time
	Value   float64
	Err     error
}

// ValueInRange yields one Sample per step from start (inclusive) to
// end (exclusive), in ascending order. Stopping iteration early (a
// break in the range-over-func loop) simply drops the iterator; no
// cleanup is required (§5).
func (r *Reader) ValueInRange(start, end time.Time, step time.Duration) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		if step <= 0 {
			return
		}
		for t := start; t.Before(end); t = t.Add(step) {
			v, err := r.ValueAt(t)
			if !yield(Sample{Instant: t, Value: v, Err: err}) {
				return
			}
		}
	}
}
