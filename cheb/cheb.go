// Package cheb implements the polynomial kernel of the Weft binary
// ephemeris format: Chebyshev-T series evaluation via the Clenshaw
// recurrence, a least-squares coefficient fit to irregularly spaced
// samples, and the angle-unwrapping helper used to pre-process wrapping
// quantities before fitting.
package cheb

import (
	"fmt"
	"math"

	"github.com/weftlib/weft/errs"
)

// Eval computes Σ c_n·T_n(x) for x in [-1, +1] using the Clenshaw
// recurrence. Callers are responsible for clamping x into range; Eval
// does not fail and does not itself clamp (per the kernel's contract,
// clamping is the caller's job).
func Eval(coeffs []float32, x float64) float64 {
	n := len(coeffs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return float64(coeffs[0])
	}

	x2 := 2.0 * x
	w0 := float64(coeffs[n-1])
	w1 := 0.0
	for i := n - 2; i >= 1; i-- {
		w0, w1 = float64(coeffs[i])+x2*w0-w1, w0
	}

	return float64(coeffs[0]) + x*w0 - w1
}

// EvalDerivative computes d/dx of the Chebyshev series at x in [-1, +1].
// It converts the coefficient series to the derivative's own Chebyshev
// coefficients via the standard recurrence, then evaluates those with
// Eval. Used by the supplemental Reader.RateAt primitive.
func EvalDerivative(coeffs []float32, x float64) float64 {
	n := len(coeffs)
	if n < 2 {
		return 0
	}

	c := make([]float64, n)
	for i, v := range coeffs {
		c[i] = float64(v)
	}

	m := n - 1
	dc := make([]float64, m)
	for j := m - 1; j >= 1; j-- {
		var djp2 float64
		if j+2 < m {
			djp2 = dc[j+2]
		}
		dc[j] = djp2 + 2.0*float64(j+1)*c[j+1]
	}
	var d2 float64
	if m > 2 {
		d2 = dc[2]
	}
	dc[0] = (d2 + 2.0*c[1]) / 2.0

	f32dc := make([]float32, len(dc))
	for i, v := range dc {
		f32dc[i] = float32(v)
	}

	return Eval(f32dc, x)
}

// Fit computes a least-squares truncated Chebyshev series of the given
// degree for the samples (xs[i], ys[i]), xs[i] ∈ [-1, +1]. It returns
// exactly degree+1 coefficients. Requires at least degree+1 samples.
func Fit(xs, ys []float64, degree int) ([]float32, error) {
	n := len(xs)
	k := degree + 1
	if n < k {
		return nil, fmt.Errorf("%w: need at least %d samples for degree %d, got %d", errs.ErrInsufficientSamples, k, degree, n)
	}

	// Build the design matrix T[i][j] = T_j(xs[i]) via the standard
	// three-term recurrence T_0=1, T_1=x, T_j=2x T_{j-1} - T_{j-2}.
	basis := make([][]float64, n)
	for i, x := range xs {
		row := make([]float64, k)
		row[0] = 1
		if k > 1 {
			row[1] = x
		}
		for j := 2; j < k; j++ {
			row[j] = 2*x*row[j-1] - row[j-2]
		}
		basis[i] = row
	}

	// Normal equations: (TᵀT) c = Tᵀy, solved by Gaussian elimination
	// with partial pivoting. k is small (typically ≤ 15), so this is
	// fast and numerically adequate for the coefficient counts this
	// format uses.
	ata := make([][]float64, k)
	atb := make([]float64, k)
	for r := 0; r < k; r++ {
		ata[r] = make([]float64, k)
		for c := 0; c < k; c++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += basis[i][r] * basis[i][c]
			}
			ata[r][c] = sum
		}
		var sumY float64
		for i := 0; i < n; i++ {
			sumY += basis[i][r] * ys[i]
		}
		atb[r] = sumY
	}

	coeffs, err := solveLinearSystem(ata, atb)
	if err != nil {
		return nil, err
	}

	out := make([]float32, k)
	for i, v := range coeffs {
		out[i] = float32(v)
	}

	return out, nil
}

// solveLinearSystem solves A x = b for a small, square A via Gaussian
// elimination with partial pivoting.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	// Work on copies so the caller's matrices are untouched.
	m := make([][]float64, n)
	for i := range a {
		m[i] = append([]float64(nil), a[i]...)
	}
	rhs := append([]float64(nil), b...)

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(m[r][col]); v > best {
				pivot, best = r, v
			}
		}
		if best == 0 {
			return nil, fmt.Errorf("%w: singular normal-equation matrix", errs.ErrInsufficientSamples)
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		}

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}

	return x, nil
}

// UnwrapAngles adds ±(max-min) at discontinuities so that a sequence
// of values drawn from a wrapping domain [min, max) becomes continuous
// and fittable. The inverse (re-wrapping) happens implicitly at read
// time via modulo reduction, not here.
func UnwrapAngles(ys []float64, min, max float64) []float64 {
	span := max - min
	if span <= 0 || len(ys) == 0 {
		out := make([]float64, len(ys))
		copy(out, ys)
		return out
	}

	out := make([]float64, len(ys))
	out[0] = ys[0]
	offset := 0.0
	for i := 1; i < len(ys); i++ {
		delta := ys[i] - ys[i-1]
		if delta > span/2 {
			offset -= span
		} else if delta < -span/2 {
			offset += span
		}
		out[i] = ys[i] + offset
	}

	return out
}

// WrapValue reduces v modulo span into [min, max).
func WrapValue(v, min, max float64) float64 {
	span := max - min
	if span <= 0 {
		return v
	}
	r := math.Mod(v-min, span)
	if r < 0 {
		r += span
	}

	return r + min
}

// ClampValue clamps v into [min, max].
func ClampValue(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}

	return v
}
