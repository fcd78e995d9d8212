package weft_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/section"
	"github.com/weftlib/weft/weft"
)

func buildSample(t *testing.T) *weft.WeftFile {
	t.Helper()

	f := &weft.WeftFile{
		Preamble: section.Preamble{
			ID: "mars", DataSource: "jpl:horizons", Timespan: "2024",
			Precision: section.Precision32, Quantity: "longitude",
			ValueBehavior: section.NewWrapping(0, 360),
			Method:        section.Method,
			GeneratedAt:   section.FormatGeneratedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		MultiYear: []section.MultiYearBlock{
			{StartYear: 2000, DurationYears: 20, Coefficients: []float32{1, 2, 3}},
		},
		Monthly: []section.MonthlyBlock{
			{Year: 2024, Month: 1, DayCount: 31, Coefficients: []float32{10, 20}},
		},
	}

	blocks := []section.FortyEightHourBlock{
		{Year: 2024, Month: 1, Day: 1, Coefficients: []float32{1, 2}},
		{Year: 2024, Month: 1, Day: 2, Coefficients: []float32{3, 4}},
	}
	for _, g := range section.GroupContiguous(blocks) {
		f.Sections = append(f.Sections, weft.NewSectionIndexFromBlocks(g.Header(), g.Blocks))
	}

	return f
}

func TestWeftFile_RoundTrip(t *testing.T) {
	f := buildSample(t)

	data, err := f.Bytes()
	require.NoError(t, err)

	got, err := weft.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, f.Preamble, got.Preamble)
	assert.Equal(t, f.MultiYear, got.MultiYear)
	assert.Equal(t, f.Monthly, got.Monthly)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, f.Sections[0].Header, got.Sections[0].Header)

	blocks, err := got.Sections[0].AllBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, []float32{1, 2}, blocks[0].Coefficients)
	assert.Equal(t, []float32{3, 4}, blocks[1].Coefficients)
}

func TestWeftFile_Summary(t *testing.T) {
	f := buildSample(t)
	s := f.Summary()
	assert.Contains(t, s, "mars")
	assert.Contains(t, s, "1 multi-year")
	assert.Contains(t, s, "1 monthly")
	assert.Contains(t, s, "1 section")
}

func TestParse_RejectsTruncatedStream(t *testing.T) {
	f := buildSample(t)
	data, err := f.Bytes()
	require.NoError(t, err)

	// Dropping the last 3 bytes leaves the final 48h block shorter than
	// its section header's block_size, which Parse must reject.
	truncated := data[:len(data)-3]
	_, err = weft.Parse(truncated)
	require.Error(t, err)
}

// TestParse_RejectsOverdeclaredBlockCount covers §8 scenario 6: a
// section header claims more 48h blocks than actually follow it.
func TestParse_RejectsOverdeclaredBlockCount(t *testing.T) {
	preamble := section.Preamble{
		ID: "mars", DataSource: "jpl:horizons", Timespan: "2024",
		Precision: section.Precision32, Quantity: "longitude",
		ValueBehavior: section.NewUnbounded(),
		Method:        section.Method,
		GeneratedAt:   section.FormatGeneratedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	header := section.SectionHeader{
		StartYear: 2024, StartMonth: 1, StartDay: 1,
		EndYear: 2024, EndMonth: 1, EndDay: 2,
		BlockSize:  16,
		BlockCount: 3, // only 2 blocks are actually written below
	}

	var data []byte
	data = append(data, []byte(preamble.String())...)
	data = append(data, '\n')
	data = header.Serialize(data)

	blocks := []section.FortyEightHourBlock{
		{Year: 2024, Month: 1, Day: 1},
		{Year: 2024, Month: 1, Day: 2},
	}
	for _, b := range blocks {
		var err error
		data, err = b.Serialize(data, header.BlockSize)
		require.NoError(t, err)
	}

	_, err := weft.Parse(data)
	require.Error(t, err)

	var mismatch *errs.BlockCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Got)
}
