package section

import (
	"fmt"
	"strings"
	"time"

	"github.com/weftlib/weft/errs"
)

// MagicVersion is the required literal at the start of every preamble.
const MagicVersion = "#weft! v0.02"

// Method is the fixed literal for field 7.
const Method = "chebychevs"

// Precision32 is the only precision literal this implementation writes;
// readers accept any token in that field position since it is purely
// informational (the actual coefficient width is always f32 per §3.2).
const Precision32 = "32bit"

// Preamble is the single UTF-8 header line beginning "#weft!" (§3.1).
// combineFieldIndices lists the indices that must match byte-for-byte across
// combine inputs: 1 (id), 2 (data source), 4 (precision), 5 (quantity),
// 6 (value behavior), 7 (method). Fields 3 (timespan) and 8
// (generated-at) are recomputed by combine.
type Preamble struct {
	ID            string
	DataSource    string
	Timespan      string
	Precision     string
	Quantity      string
	ValueBehavior ValueBehavior
	Method        string
	GeneratedAt   string
}

// fieldNames names indices 1..8 for error messages.
var fieldNames = []string{
	1: "id",
	2: "data_source",
	3: "timespan",
	4: "precision",
	5: "quantity",
	6: "value_behavior",
	7: "method",
	8: "generated_at",
}

// combineFieldIndices are the preamble fields required to match
// byte-for-byte across combine inputs (§3.1).
var combineFieldIndices = []int{1, 2, 4, 5, 6, 7}

// String renders the preamble line, without the trailing newline.
func (p Preamble) String() string {
	vb := p.ValueBehavior.String()
	return strings.Join([]string{
		MagicVersion,
		p.ID,
		p.DataSource,
		p.Timespan,
		p.Precision,
		p.Quantity,
		vb,
		p.Method,
		p.GeneratedAt,
	}, " ")
}

// field returns the preamble value at the given §3.1 field index (0-8).
func (p Preamble) field(idx int) string {
	switch idx {
	case 0:
		return MagicVersion
	case 1:
		return p.ID
	case 2:
		return p.DataSource
	case 3:
		return p.Timespan
	case 4:
		return p.Precision
	case 5:
		return p.Quantity
	case 6:
		return p.ValueBehavior.String()
	case 7:
		return p.Method
	case 8:
		return p.GeneratedAt
	default:
		return ""
	}
}

// ParsePreamble parses a single newline-terminated preamble line.
func ParsePreamble(line string) (Preamble, error) {
	line = strings.TrimSuffix(line, "\n")
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return Preamble{}, fmt.Errorf("%w: expected at least 8 fields, got %d", errs.ErrPreambleInvalid, len(fields))
	}

	if fields[0]+" "+fields[1] != MagicVersion {
		return Preamble{}, fmt.Errorf("%w: bad magic/version %q", errs.ErrPreambleInvalid, fields[0]+" "+fields[1])
	}

	// fields[0:2] is "#weft!" "v0.02"; the remaining tokens start at
	// the original field index 1.
	rest := fields[2:]
	get := func(i int) string {
		if i < len(rest) {
			return rest[i]
		}
		return ""
	}

	vb, err := ParseValueBehavior(get(5))
	if err != nil {
		return Preamble{}, fmt.Errorf("%w: %v", errs.ErrPreambleInvalid, err)
	}

	return Preamble{
		ID:            get(0),
		DataSource:    get(1),
		Timespan:      get(2),
		Precision:     get(3),
		Quantity:      get(4),
		ValueBehavior: vb,
		Method:        get(6),
		GeneratedAt:   get(7),
	}, nil
}

// FormatGeneratedAt renders preamble field 8 from t, e.g.
// "generated@24-01-01T00:00:00" for 2024-01-01 00:00:00 UTC.
func FormatGeneratedAt(t time.Time) string {
	return "generated@" + t.UTC().Format("06-01-02T15:04:05")
}

// CheckCombineCompatible verifies that the combine-required fields match
// byte-for-byte between two preambles (§3.1). It returns the first
// mismatch found as a structured *errs.IncompatiblePreamblesError.
func CheckCombineCompatible(a, b Preamble) error {
	for _, idx := range combineFieldIndices {
		av, bv := a.field(idx), b.field(idx)
		if av != bv {
			return &errs.IncompatiblePreamblesError{
				Field: fieldNames[idx],
				Want:  av,
				Got:   bv,
			}
		}
	}

	return nil
}
