package source_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft/source"
)

func sampleTimes(n int) []time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestMemory_SortsAndAnswersRange(t *testing.T) {
	times := sampleTimes(5)
	values := []float64{0, 1, 2, 3, 4}

	// shuffle input order; NewMemory must sort it.
	shuffled := []time.Time{times[3], times[0], times[4], times[1], times[2]}
	shuffledValues := []float64{3, 0, 4, 1, 2}

	m, err := source.NewMemory(shuffled, shuffledValues)
	require.NoError(t, err)

	assert.Equal(t, times[0], m.Start())
	assert.Equal(t, times[4], m.End())

	got := m.Timestamps(times[1], times[4])
	assert.Equal(t, []time.Time{times[1], times[2], times[3]}, got)

	v, err := m.ValueAt(times[2])
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = m.ValueAt(times[0].Add(30 * time.Minute))
	require.Error(t, err)
}

func TestNewMemory_RejectsMismatchedLengths(t *testing.T) {
	_, err := source.NewMemory(sampleTimes(3), []float64{1, 2})
	require.Error(t, err)
}

func TestNewMemory_RejectsEmpty(t *testing.T) {
	_, err := source.NewMemory(nil, nil)
	require.Error(t, err)
}
