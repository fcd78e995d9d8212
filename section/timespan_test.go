package section_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/weftlib/weft/section"
)

func TestInferTimespan_ExactBoundaries(t *testing.T) {
	assert.Equal(t, "2024",
		section.InferTimespan(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		))

	assert.Equal(t, "2020s",
		section.InferTimespan(
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		))

	assert.Equal(t, "1900-2100",
		section.InferTimespan(
			time.Date(1900, 3, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC),
		))
}

// TestInferTimespan_TolerantOfOneDayBoundarySlack covers §4.5 step 6's
// ±1 day buffer: an inclusive section-header end date (Dec 31, not the
// exclusive following Jan 1) or a boundary-partial-month's Jan 2 start
// must still infer the compact form.
func TestInferTimespan_TolerantOfOneDayBoundarySlack(t *testing.T) {
	// End one day short of the exclusive next-Jan-1 boundary.
	assert.Equal(t, "2024",
		section.InferTimespan(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		))

	// Start one day after the nominal Jan-1 boundary.
	assert.Equal(t, "2024",
		section.InferTimespan(
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		))

	// Decade form with both ends off by a day.
	assert.Equal(t, "2020s",
		section.InferTimespan(
			time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC),
		))
}

func TestInferTimespan_RejectsSlackBeyondOneDay(t *testing.T) {
	assert.Equal(t, "2024-2025",
		section.InferTimespan(
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		))
}
