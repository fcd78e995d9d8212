package section

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weftlib/weft/cheb"
)

// ValueBehaviorKind is a tagged variant discriminator for ValueBehavior,
// per §9's redesign note ("encode ValueBehavior as a tagged variant and
// keep pre-/post-processing in one place").
type ValueBehaviorKind uint8

const (
	Unbounded ValueBehaviorKind = iota
	Wrapping
	Bounded
)

// ValueBehavior controls both read post-processing and fit
// pre-processing for a Weft file's scalar quantity (§3.3).
type ValueBehavior struct {
	Kind ValueBehaviorKind
	Min  float64
	Max  float64
}

// NewUnbounded returns the absent/unbounded behavior.
func NewUnbounded() ValueBehavior { return ValueBehavior{Kind: Unbounded} }

// NewWrapping returns a wrapping[min,max) behavior.
func NewWrapping(min, max float64) ValueBehavior {
	return ValueBehavior{Kind: Wrapping, Min: min, Max: max}
}

// NewBounded returns a bounded[min,max] behavior.
func NewBounded(min, max float64) ValueBehavior {
	return ValueBehavior{Kind: Bounded, Min: min, Max: max}
}

// PostProcess applies the read-time post-processing rule for this
// behavior: reduce modulo for wrapping, clamp for bounded, pass through
// for unbounded.
func (v ValueBehavior) PostProcess(x float64) float64 {
	switch v.Kind {
	case Wrapping:
		return cheb.WrapValue(x, v.Min, v.Max)
	case Bounded:
		return cheb.ClampValue(x, v.Min, v.Max)
	default:
		return x
	}
}

// PreProcess applies the fit-time pre-processing rule: unwrap for
// wrapping quantities, identity otherwise.
func (v ValueBehavior) PreProcess(ys []float64) []float64 {
	if v.Kind == Wrapping {
		return cheb.UnwrapAngles(ys, v.Min, v.Max)
	}
	out := make([]float64, len(ys))
	copy(out, ys)

	return out
}

// String renders the preamble field 6 representation:
// "wrapping[a,b]", "bounded[a,b]", or "-" for unbounded. The "-"
// placeholder (rather than an empty token) keeps the field present so
// strings.Fields doesn't shift every later field left when splitting
// the preamble line back apart.
func (v ValueBehavior) String() string {
	switch v.Kind {
	case Wrapping:
		return fmt.Sprintf("wrapping[%s,%s]", formatNum(v.Min), formatNum(v.Max))
	case Bounded:
		return fmt.Sprintf("bounded[%s,%s]", formatNum(v.Min), formatNum(v.Max))
	default:
		return "-"
	}
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseValueBehavior parses the preamble's value-behavior field (§3.1
// row 6). An empty string is the unbounded/absent behavior.
func ParseValueBehavior(field string) (ValueBehavior, error) {
	field = strings.TrimSpace(field)
	if field == "" || field == "-" {
		return NewUnbounded(), nil
	}

	kind := Unbounded
	var body string
	switch {
	case strings.HasPrefix(field, "wrapping[") && strings.HasSuffix(field, "]"):
		kind = Wrapping
		body = strings.TrimSuffix(strings.TrimPrefix(field, "wrapping["), "]")
	case strings.HasPrefix(field, "bounded[") && strings.HasSuffix(field, "]"):
		kind = Bounded
		body = strings.TrimSuffix(strings.TrimPrefix(field, "bounded["), "]")
	default:
		return ValueBehavior{}, fmt.Errorf("value behavior: unrecognized field %q", field)
	}

	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return ValueBehavior{}, fmt.Errorf("value behavior: expected 2 bounds in %q, got %d", field, len(parts))
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return ValueBehavior{}, fmt.Errorf("value behavior: invalid min in %q: %w", field, err)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return ValueBehavior{}, fmt.Errorf("value behavior: invalid max in %q: %w", field, err)
	}

	switch kind {
	case Wrapping:
		return NewWrapping(min, max), nil
	case Bounded:
		return NewBounded(min, max), nil
	default:
		return NewUnbounded(), nil
	}
}

// Equal reports whether two ValueBehavior values are identical, used by
// combine's preamble-compatibility check (§3.1).
func (v ValueBehavior) Equal(other ValueBehavior) bool {
	return v.Kind == other.Kind && v.Min == other.Min && v.Max == other.Max
}
