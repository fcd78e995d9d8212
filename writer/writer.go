package writer

import (
	"fmt"
	"io"
	"time"

	"github.com/weftlib/weft/cheb"
	"github.com/weftlib/weft/errs"
	"github.com/weftlib/weft/internal/pool"
	"github.com/weftlib/weft/section"
	"github.com/weftlib/weft/source"
	"github.com/weftlib/weft/trace"
	"github.com/weftlib/weft/weft"
)

// Write is a one-shot convenience wrapper: build a Writer from opts,
// generate a WeftFile from src, and serialize it to output (§4.5's
// public "write(data_source, output, config)" operation).
func Write(src source.DataSource, output io.Writer, opts ...Option) (*weft.WeftFile, error) {
	wtr, err := New(opts...)
	if err != nil {
		return nil, err
	}
	f, err := wtr.Generate(src)
	if err != nil {
		return nil, err
	}
	if _, err := f.Serialize(output); err != nil {
		return nil, err
	}
	return f, nil
}

// Writer generates a WeftFile from a source.DataSource according to
// its Config (§4.5). The zero value is not usable; construct one with
// New.
type Writer struct {
	*Config
}

// New builds a Writer from DefaultConfig with opts applied.
func New(opts ...Option) (*Writer, error) {
	cfg := DefaultConfig()
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	return &Writer{Config: cfg}, nil
}

// Generate runs the §4.5 generation algorithm against src and returns
// the assembled (not yet serialized) WeftFile.
func (wtr *Writer) Generate(src source.DataSource) (*weft.WeftFile, error) {
	if src.Start().After(src.End()) || src.Start().Equal(src.End()) {
		return nil, errs.ErrEmptyDataSource
	}
	if len(src.Timestamps(src.Start(), src.End())) == 0 {
		return nil, errs.ErrEmptyDataSource
	}

	sink := wtr.Sink
	if sink == nil {
		sink = trace.NopSink{}
	}

	f := &weft.WeftFile{
		Preamble: section.Preamble{
			ID:            wtr.ID,
			DataSource:    wtr.DataSource,
			Precision:     section.Precision32,
			Quantity:      wtr.Quantity,
			ValueBehavior: wtr.ValueBehavior,
			Method:        section.Method,
		},
	}

	if wtr.MultiYear.Enabled {
		blocks, err := wtr.generateMultiYear(src, sink)
		if err != nil {
			return nil, err
		}
		f.MultiYear = blocks
	}

	if wtr.Monthly.Enabled {
		blocks, err := wtr.generateMonthly(src, sink)
		if err != nil {
			return nil, err
		}
		f.Monthly = blocks
	}

	if wtr.FortyEightHour.Enabled {
		blocks, err := wtr.generateFortyEightHour(src, sink)
		if err != nil {
			return nil, err
		}
		for _, g := range section.GroupContiguous(blocks) {
			f.Sections = append(f.Sections, weft.NewSectionIndexFromBlocks(g.Header(), g.Blocks))
		}
	}

	if wtr.CustomTimespan != "" {
		f.Preamble.Timespan = wtr.CustomTimespan
	} else if start, end, ok := coverage(f); ok {
		f.Preamble.Timespan = section.InferTimespan(start, end)
	} else {
		f.Preamble.Timespan = section.InferTimespan(src.Start(), src.End())
	}

	now := wtr.Now
	if now == nil {
		now = time.Now
	}
	f.Preamble.GeneratedAt = section.FormatGeneratedAt(now())

	return f, nil
}

// decadeStart returns the first year of the decade containing year,
// e.g. 2024 -> 2020.
func decadeStart(year int) int { return (year / 10) * 10 }

// generateMultiYear fits one 10-year block per decade overlapping
// src's range (§4.5 step 2). Each block is clipped to src's range and
// skipped if the clipped coverage ratio falls under CoverageThreshold.
func (wtr *Writer) generateMultiYear(src source.DataSource, sink trace.Sink) ([]section.MultiYearBlock, error) {
	var out []section.MultiYearBlock

	first := decadeStart(src.Start().Year())
	last := decadeStart(src.End().Year())
	for y := first; y <= last; y += 10 {
		block := section.MultiYearBlock{StartYear: int16(y), DurationYears: 10}
		start, end := block.Coverage()
		nominal := end.Sub(start)

		clipStart, clipEnd := clip(start, end, src.Start(), src.End())
		if !clipStart.Before(clipEnd) {
			continue
		}

		ratio, _ := coverageRatio(src, clipStart, clipEnd, nominal)
		if ratio < CoverageThreshold {
			sink.Skipped("coverage_below_threshold", map[string]any{"kind": "multi_year", "start_year": y, "ratio": ratio})
			continue
		}

		coeffs, err := wtr.fit(src, block, clipStart, clipEnd, int(wtr.MultiYear.SampleCount), int(wtr.MultiYear.PolynomialDegree))
		if err != nil {
			return nil, fmt.Errorf("multi-year block %d: %w", y, err)
		}
		block.Coefficients = coeffs
		out = append(out, block)
		sink.Selected(map[string]any{"kind": "multi_year", "start_year": y})
	}

	return out, nil
}

// generateMonthly fits one block per calendar month overlapping src's
// range (§4.5 step 3). A month under threshold is still emitted when it
// is the sole surviving block at a range boundary (a partial month with
// no neighbor to absorb its data).
func (wtr *Writer) generateMonthly(src source.DataSource, sink trace.Sink) ([]section.MonthlyBlock, error) {
	var out []section.MonthlyBlock

	month := time.Date(src.Start().Year(), src.Start().Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := time.Date(src.End().Year(), src.End().Month(), 1, 0, 0, 0, 0, time.UTC)

	for !month.After(endMonth) {
		next := month.AddDate(0, 1, 0)
		nominal := next.Sub(month)

		clipStart, clipEnd := clip(month, next, src.Start(), src.End())
		if !clipStart.Before(clipEnd) {
			month = next
			continue
		}

		ratio, _ := coverageRatio(src, clipStart, clipEnd, nominal)
		isBoundary := month.Equal(boundaryMonth(src.Start())) || month.Equal(boundaryMonth(src.End()))
		if ratio < CoverageThreshold && !isBoundary {
			sink.Skipped("coverage_below_threshold", map[string]any{"kind": "monthly", "month": month, "ratio": ratio})
			month = next
			continue
		}

		dayCount := uint8(clipEnd.Sub(month).Hours() / 24)
		if dayCount == 0 {
			dayCount = uint8(next.Sub(month).Hours() / 24)
		}
		block := section.MonthlyBlock{Year: int16(month.Year()), Month: uint8(month.Month()), DayCount: dayCount}

		coeffs, err := wtr.fit(src, block, clipStart, clipEnd, int(wtr.Monthly.SampleCount), int(wtr.Monthly.PolynomialDegree))
		if err != nil {
			return nil, fmt.Errorf("monthly block %s: %w", month.Format("2006-01"), err)
		}
		block.Coefficients = coeffs
		out = append(out, block)
		sink.Selected(map[string]any{"kind": "monthly", "month": month})

		month = next
	}

	return out, nil
}

func boundaryMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// generateFortyEightHour fits one block per calendar day whose 48h
// window overlaps src's range (§4.5 step 4). Inclusion bypasses the
// coverage and density checks when ForceFortyEightHourBlocks is set.
func (wtr *Writer) generateFortyEightHour(src source.DataSource, sink trace.Sink) ([]section.FortyEightHourBlock, error) {
	var out []section.FortyEightHourBlock

	day := time.Date(src.Start().Year(), src.Start().Month(), src.Start().Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(src.End().Year(), src.End().Month(), src.End().Day(), 0, 0, 0, 0, time.UTC)

	for !day.After(last) {
		block := section.FortyEightHourBlock{Year: int16(day.Year()), Month: uint8(day.Month()), Day: uint8(day.Day())}
		start, end := block.Coverage()

		clipStart, clipEnd := clip(start, end, src.Start(), src.End())
		if !clipStart.Before(clipEnd) {
			day = day.AddDate(0, 0, 1)
			continue
		}

		ratio, samples := coverageRatio(src, clipStart, clipEnd, 48*time.Hour)
		density := densityPerDay(samples)

		if !wtr.ForceFortyEightHourBlocks {
			if ratio < CoverageThreshold || density < MinSamplesPerDay {
				sink.Skipped("coverage_or_density_below_threshold", map[string]any{
					"kind": "forty_eight_hour", "day": day, "ratio": ratio, "density": density,
				})
				day = day.AddDate(0, 0, 1)
				continue
			}
		}

		coeffs, err := wtr.fit(src, block, clipStart, clipEnd, int(wtr.FortyEightHour.SampleCount), int(wtr.FortyEightHour.PolynomialDegree))
		if err != nil {
			return nil, fmt.Errorf("48h block %s: %w", day.Format("2006-01-02"), err)
		}
		block.Coefficients = coeffs
		out = append(out, block)
		sink.Selected(map[string]any{"kind": "forty_eight_hour", "day": day})

		day = day.AddDate(0, 0, 1)
	}

	return out, nil
}

// fit samples sampleCount evenly spaced instants across [clipStart,
// clipEnd], evaluates src at each, applies the quantity's fit-time
// pre-processing (angle unwrapping for wrapping behaviors), and fits a
// Chebyshev series of the given degree (§4.5 step 5). Each sample is
// normalized against block's full nominal coverage, not the clipped
// sub-interval, so a partially covered block still fits onto the
// domain a Reader will later normalize against.
func (wtr *Writer) fit(src source.DataSource, block section.Block, clipStart, clipEnd time.Time, sampleCount, degree int) ([]float32, error) {
	instants := evenlySpaced(clipStart, clipEnd, sampleCount)

	xs, putXs := pool.GetFloat64Slice(len(instants))
	defer putXs()
	ys, putYs := pool.GetFloat64Slice(len(instants))
	defer putYs()

	for i, t := range instants {
		v, err := src.ValueAt(t)
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", t.Format(time.RFC3339), err)
		}
		xs[i] = section.NormalizeX(block, t)
		ys[i] = v
	}
	ys = wtr.ValueBehavior.PreProcess(ys)

	return cheb.Fit(xs, ys, degree)
}

// evenlySpaced returns n instants spread linearly across [start, end]
// inclusive of both endpoints (n == 1 yields just start).
func evenlySpaced(start, end time.Time, n int) []time.Time {
	if n <= 1 {
		return []time.Time{start}
	}
	span := end.Sub(start)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		out[i] = start.Add(time.Duration(float64(span) * frac))
	}
	return out
}

// clip intersects [aStart, aEnd) with [bStart, bEnd).
func clip(aStart, aEnd, bStart, bEnd time.Time) (start, end time.Time) {
	start = aStart
	if bStart.After(start) {
		start = bStart
	}
	end = aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return start, end
}

// coverage returns the earliest block start and latest block end
// across everything Generate has produced so far.
func coverage(f *weft.WeftFile) (start, end time.Time, ok bool) {
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
