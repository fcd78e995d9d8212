package writer

import (
	"sort"
	"time"

	"github.com/weftlib/weft/source"
)

// CoverageThreshold is the default minimum fraction of a candidate
// block's nominal span that must be spanned by actual data-source
// timestamps for the block to be included (§4.7).
const CoverageThreshold = 0.666

// MinSamplesPerDay is the default minimum sample density a 48h block's
// window must exhibit, independent of CoverageThreshold (§4.7).
const MinSamplesPerDay = 8

// coverageRatio computes (t_max-t_min)/nominalSpan over the
// data-source timestamps falling within [start, end) (§4.7). The
// definition is deliberately not gap-sensitive.
func coverageRatio(src source.DataSource, start, end time.Time, nominalSpan time.Duration) (ratio float64, samples []time.Time) {
	ts := src.Timestamps(start, end)
	if len(ts) == 0 || nominalSpan <= 0 {
		return 0, ts
	}
	span := ts[len(ts)-1].Sub(ts[0])
	return span.Seconds() / nominalSpan.Seconds(), ts
}

// medianInterSampleGap returns the median duration between consecutive
// entries of samples, which must already be in chronological order (as
// source.DataSource.Timestamps guarantees). It reports zero for fewer
// than two samples, since no gap is observable.
func medianInterSampleGap(samples []time.Time) time.Duration {
	if len(samples) < 2 {
		return 0
	}

	gaps := make([]time.Duration, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		gaps[i-1] = samples[i].Sub(samples[i-1])
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })

	mid := len(gaps) / 2
	if len(gaps)%2 == 0 {
		return (gaps[mid-1] + gaps[mid]) / 2
	}
	return gaps[mid]
}

// densityPerDay converts a median inter-sample gap into an implied
// samples-per-day rate. Using the median rather than a plain count over
// the window keeps a handful of samples clustered at one end from
// masking a thin, effectively unusable cadence over the rest of it
// (§4.7's "observed density" is about how the sampling actually
// behaves, not how many timestamps happen to fall in range).
func densityPerDay(samples []time.Time) float64 {
	gap := medianInterSampleGap(samples)
	if gap <= 0 {
		return 0
	}
	return (24 * time.Hour).Seconds() / gap.Seconds()
}

// Recommend inspects src's span and sample density and returns a
// Config enabling whichever block kinds clear the §4.7 thresholds,
// with the format's default sample counts and polynomial degrees
// (§4.5 step 1, "auto" policy).
func Recommend(src source.DataSource) *Config {
	cfg := DefaultConfig()
	start, end := src.Start(), src.End()
	totalSpan := end.Sub(start)
	if totalSpan <= 0 {
		return cfg
	}

	if ratio, _ := coverageRatio(src, start, end, totalSpan); ratio >= CoverageThreshold {
		cfg.MultiYear.Enabled = true
	}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	if ratio, _ := coverageRatio(src, monthStart, monthEnd, monthEnd.Sub(monthStart)); ratio >= CoverageThreshold {
		cfg.Monthly.Enabled = true
	}

	// Pick a day interior to the source's span when possible (start's
	// own day would make the left half of its 48h window structurally
	// uncovered, since no sample ever precedes Start()).
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if day.After(end) {
		day = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	windowStart, windowEnd := day.Add(-24*time.Hour), day.Add(24*time.Hour)
	ratio, samples := coverageRatio(src, windowStart, windowEnd, 48*time.Hour)
	density := densityPerDay(samples)
	if ratio >= CoverageThreshold && density >= MinSamplesPerDay {
		cfg.FortyEightHour.Enabled = true
	}

	return cfg
}
