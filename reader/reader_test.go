package reader_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft/reader"
	"github.com/weftlib/weft/section"
	"github.com/weftlib/weft/trace"
	"github.com/weftlib/weft/weft"
)

func constBlock(year int, month, day int, v float32) section.FortyEightHourBlock {
	return section.FortyEightHourBlock{
		Year: int16(year), Month: uint8(month), Day: uint8(day),
		Coefficients: []float32{v},
	}
}

func fileWithSection(blocks []section.FortyEightHourBlock) *weft.WeftFile {
	f := &weft.WeftFile{
		Preamble: section.Preamble{
			ID: "test", DataSource: "memory", Timespan: "2024",
			Precision: section.Precision32, Quantity: "value",
			ValueBehavior: section.NewUnbounded(),
			Method:        section.Method,
			GeneratedAt:   section.FormatGeneratedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
	for _, g := range section.GroupContiguous(blocks) {
		f.Sections = append(f.Sections, weft.NewSectionIndexFromBlocks(g.Header(), g.Blocks))
	}
	return f
}

func TestReader_ValueAt_SingleFortyEightHourBlock(t *testing.T) {
	f := fileWithSection([]section.FortyEightHourBlock{constBlock(2024, 1, 15, 42)})
	r := reader.New(f)

	v, err := r.ValueAt(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 42, v, 1e-6)
}

func TestReader_ValueAt_BlendsAcrossMidnight(t *testing.T) {
	// day1 (Jan 1) has constant value 0, day2 (Jan 2) has constant value
	// 10. Block(Jan1) covers calendar days {Dec31,Jan1}; block(Jan2)
	// covers {Jan1,Jan2}; their overlap is all of day Jan1, across
	// which the two constant series blend linearly from 0 (at Jan1
	// 00:00, favoring the left/Jan1 block) to 10 (approaching Jan2
	// 00:00, favoring the right/Jan2 block).
	f := fileWithSection([]section.FortyEightHourBlock{
		constBlock(2024, 1, 1, 0),
		constBlock(2024, 1, 2, 10),
	})
	r := reader.New(f)

	atStart, err := r.ValueAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 0, atStart, 1e-6)

	atMid, err := r.ValueAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 5, atMid, 1e-6)

	// Just shy of Jan2 00:00 (the exclusive end of the overlap), the
	// blend weight approaches 1 but the value is still a blend.
	atNearEnd, err := r.ValueAt(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	wantWeight := 23.0 / 24.0
	assert.InDelta(t, 0*(1-wantWeight)+10*wantWeight, atNearEnd, 1e-9)

	// At Jan2 00:00 itself, block(Jan1)'s window has ended (half-open),
	// so only block(Jan2) covers: the continuous limit of the blend.
	atBoundary, err := r.ValueAt(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 10, atBoundary, 1e-6)
}

func TestReader_ValueAt_FallsBackToMonthly(t *testing.T) {
	f := fileWithSection(nil)
	f.Monthly = []section.MonthlyBlock{
		{Year: 2024, Month: 6, DayCount: 30, Coefficients: []float32{7}},
	}

	r := reader.New(f)
	v, err := r.ValueAt(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 7, v, 1e-6)
}

func TestReader_ValueAt_OutOfRange(t *testing.T) {
	f := fileWithSection([]section.FortyEightHourBlock{constBlock(2024, 1, 15, 42)})
	r := reader.New(f)

	_, err := r.ValueAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestReader_Trace_RecordsBlend(t *testing.T) {
	f := fileWithSection([]section.FortyEightHourBlock{
		constBlock(2024, 1, 1, 0),
		constBlock(2024, 1, 2, 10),
	})
	r := reader.New(f)
	sink := trace.NewSliceSink()
	r.Trace(sink)

	_, err := r.ValueAt(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	ev, ok := sink.Last("blended")
	require.True(t, ok)
	assert.Equal(t, 0.25, ev.Detail["weight"])
}

func TestReader_ValueAt_BlendsAcrossWrapBoundary(t *testing.T) {
	// left block sits just below the wrap point (359), right block just
	// above it (1 == 361 unwrapped); a naive blend would average toward
	// 180, but the closest-representative rule must pick 361 for the
	// right side so the blend stays near the 359/361 boundary.
	f := fileWithSection([]section.FortyEightHourBlock{
		constBlock(2024, 1, 1, 359),
		constBlock(2024, 1, 2, 1),
	})
	f.Preamble.ValueBehavior = section.NewWrapping(0, 360)
	r := reader.New(f)

	v, err := r.ValueAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-6) // (359+361)/2 = 360 -> wraps to 0
}

func TestReader_ValueInRange_YieldsAscendingSamples(t *testing.T) {
	f := fileWithSection([]section.FortyEightHourBlock{constBlock(2024, 1, 15, 42)})
	r := reader.New(f)

	var got []reader.Sample
	for s := range r.ValueInRange(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC),
		time.Hour,
	) {
		got = append(got, s)
	}

	require.Len(t, got, 3)
	for _, s := range got {
		require.NoError(t, s.Err)
		assert.InDelta(t, 42, s.Value, 1e-6)
	}
}

func TestReader_RateAt_ConstantSeriesHasZeroRate(t *testing.T) {
	f := fileWithSection([]section.FortyEightHourBlock{constBlock(2024, 1, 15, 42)})
	r := reader.New(f)

	rate, err := r.RateAt(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 0, rate, 1e-6)
}
