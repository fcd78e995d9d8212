package section

import (
	"strconv"
	"time"
)

// InferTimespan renders preamble field 3 from a file's actual coverage
// interval [start, end), choosing the most specific of the three forms
// §3.1 allows: decade ("2000s"), single year ("2024"), or range
// ("1900-2100"). start and end are nominally UTC midnights on a Jan 1
// boundary, but a ±1 day buffer is tolerated on both ends (§4.5 step 6)
// so an inclusive section-header end date (last covered day, not the
// exclusive next Jan 1) or a boundary-partial-month still infers the
// compact decade/year form instead of falling through to the range form.
func InferTimespan(start, end time.Time) string {
	startYear, startOK := snapToYearBoundary(start)
	endYear, endOK := snapToYearBoundary(end)

	if startOK && endOK {
		if endYear-startYear == 1 {
			return strconv.Itoa(startYear)
		}
		if endYear-startYear == 10 && startYear%10 == 0 {
			return strconv.Itoa(startYear) + "s"
		}
	}

	return strconv.Itoa(start.Year()) + "-" + strconv.Itoa(end.Year())
}

// snapToYearBoundary reports the year whose Jan 1 UTC midnight falls
// within one day of t, if any. Only t's own year and the following
// year need checking since a one-day tolerance can never reach a
// second year boundary away.
func snapToYearBoundary(t time.Time) (year int, ok bool) {
	const tolerance = 24 * time.Hour
	for _, y := range [2]int{t.Year(), t.Year() + 1} {
		jan1 := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		diff := t.Sub(jan1)
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			return y, true
		}
	}

	return 0, false
}
