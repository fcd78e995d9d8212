// Package source defines the DataSource contract Writer consumes to
// generate a Weft file (§4.6), plus a small in-memory reference
// implementation used by tests and examples. It is not a production
// data source: real callers back DataSource with an ephemeris library,
// a database query, or a network fetch.
package source

import (
	"fmt"
	"sort"
	"time"
)

// DataSource supplies the scalar samples Writer fits into Chebyshev
// blocks. Start and End bound the half-open interval [Start, End) the
// source can answer ValueAt for; Timestamps yields the sample instants
// Writer should fit against for a given coverage window, in ascending
// order.
type DataSource interface {
	Start() time.Time
	End() time.Time
	Timestamps(start, end time.Time) []time.Time
	ValueAt(t time.Time) (float64, error)
}

// Memory is an in-memory DataSource backed by a sorted sample table.
// It is reference/test scaffolding, not a production source.
type Memory struct {
	times  []time.Time
	values []float64
}

// NewMemory builds a Memory source from parallel times/values slices.
// times may be in any order: NewMemory sorts a copy by time. Duplicate
// instants are not removed.
func NewMemory(times []time.Time, values []float64) (*Memory, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("source: times and values length mismatch: %d != %d", len(times), len(values))
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("source: at least one sample required")
	}

	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return times[idx[i]].Before(times[idx[j]]) })

	m := &Memory{
		times:  make([]time.Time, len(times)),
		values: make([]float64, len(values)),
	}
	for i, j := range idx {
		m.times[i] = times[j]
		m.values[i] = values[j]
	}

	return m, nil
}

func (m *Memory) Start() time.Time { return m.times[0] }
func (m *Memory) End() time.Time   { return m.times[len(m.times)-1] }

// Timestamps returns every sample instant in [start, end).
func (m *Memory) Timestamps(start, end time.Time) []time.Time {
	lo := sort.Search(len(m.times), func(i int) bool { return !m.times[i].Before(start) })
	hi := sort.Search(len(m.times), func(i int) bool { return !m.times[i].Before(end) })
	if lo >= hi {
		return nil
	}

	out := make([]time.Time, hi-lo)
	copy(out, m.times[lo:hi])

	return out
}

// ValueAt returns the sample at exactly t. Memory does not interpolate
// between samples; callers must query at one of the instants
// Timestamps returned.
func (m *Memory) ValueAt(t time.Time) (float64, error) {
	i := sort.Search(len(m.times), func(i int) bool { return !m.times[i].Before(t) })
	if i < len(m.times) && m.times[i].Equal(t) {
		return m.values[i], nil
	}

	return 0, fmt.Errorf("source: no sample at %s", t.Format(time.RFC3339))
}
