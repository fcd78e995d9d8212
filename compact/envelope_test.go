package compact_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft/compact"
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

func TestWriteFile_ReadFile_RoundTrip(t *testing.T) {
	for _, algo := range []compact.Algorithm{compact.None, compact.S2, compact.LZ4, compact.Zstd} {
		t.Run(algo.String(), func(t *testing.T) {
			f := buildSample(t)

			var buf bytes.Buffer
			n, err := compact.WriteFile(&buf, f, algo)
			require.NoError(t, err)
			require.Equal(t, int64(buf.Len()), n)

			got, err := compact.ReadFile(&buf)
			require.NoError(t, err)

			assert.Equal(t, f.Preamble, got.Preamble)
			assert.Equal(t, f.MultiYear, got.MultiYear)
			assert.Equal(t, f.Monthly, got.Monthly)
			require.Len(t, got.Sections, 1)
			assert.Equal(t, f.Sections[0].Header, got.Sections[0].Header)
		})
	}
}

func TestReadFile_RejectsBadMagic(t *testing.T) {
	_, err := compact.ReadFile(bytes.NewReader([]byte("#weft! v0.02\nnot an envelope")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestReadFile_RejectsTruncatedEnvelope(t *testing.T) {
	_, err := compact.ReadFile(bytes.NewReader([]byte("WFT")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestReadFile_RejectsUnsupportedVersion(t *testing.T) {
	f := buildSample(t)

	var buf bytes.Buffer
	_, err := compact.WriteFile(&buf, f, compact.None)
	require.NoError(t, err)

	raw := buf.Bytes()
	raw[4] = 99 // corrupt version byte

	_, err = compact.ReadFile(bytes.NewReader(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}
