package cheb_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft/cheb"
)

func TestEval_ConstantSeries(t *testing.T) {
	coeffs := []float32{120.5}
	for _, x := range []float64{-1, 0, 0.5, 1} {
		assert.InDelta(t, 120.5, cheb.Eval(coeffs, x), 1e-6)
	}
}

func TestEval_KnownPolynomial(t *testing.T) {
	// T0=1, T1=x, T2=2x^2-1 -> c0 + c1*x + c2*(2x^2-1)
	coeffs := []float32{1, 2, 3}
	x := 0.5
	want := 1 + 2*x + 3*(2*x*x-1)
	assert.InDelta(t, want, cheb.Eval(coeffs, x), 1e-5)
}

func TestFit_RoundTripsConstant(t *testing.T) {
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = -1 + 2*float64(i)/19
		ys[i] = 42.0
	}
	coeffs, err := cheb.Fit(xs, ys, 5)
	require.NoError(t, err)
	require.Len(t, coeffs, 6)
	for _, x := range xs {
		assert.InDelta(t, 42.0, cheb.Eval(coeffs, x), 1e-3)
	}
}

func TestFit_RoundTripsSine(t *testing.T) {
	xs := make([]float64, 50)
	ys := make([]float64, 50)
	for i := range xs {
		xs[i] = -1 + 2*float64(i)/49
		ys[i] = math.Sin(3 * xs[i])
	}
	coeffs, err := cheb.Fit(xs, ys, 10)
	require.NoError(t, err)
	for i, x := range xs {
		assert.InDelta(t, ys[i], cheb.Eval(coeffs, x), 1e-2)
	}
}

func TestFit_InsufficientSamples(t *testing.T) {
	_, err := cheb.Fit([]float64{0, 1}, []float64{0, 1}, 5)
	require.Error(t, err)
}

func TestUnwrapAngles_RemovesDiscontinuity(t *testing.T) {
	// 15 deg/hour rotation wrapped into [0,360): 48 hours cross the wrap
	// point (345 -> 0) once.
	ys := make([]float64, 48)
	for i := range ys {
		ys[i] = math.Mod(float64(i)*15, 360)
	}
	unwrapped := cheb.UnwrapAngles(ys, 0, 360)
	for i := 1; i < len(unwrapped); i++ {
		assert.InDelta(t, 15.0, unwrapped[i]-unwrapped[i-1], 1e-9)
	}
}

func TestWrapValue(t *testing.T) {
	assert.InDelta(t, 0.0, cheb.WrapValue(360, 0, 360), 1e-9)
	assert.InDelta(t, 180.0, cheb.WrapValue(180, 0, 360), 1e-9)
	assert.InDelta(t, 10.0, cheb.WrapValue(-350, 0, 360), 1e-9)
}

func TestClampValue(t *testing.T) {
	assert.Equal(t, -90.0, cheb.ClampValue(-200, -90, 90))
	assert.Equal(t, 90.0, cheb.ClampValue(200, -90, 90))
	assert.Equal(t, 0.0, cheb.ClampValue(0, -90, 90))
}
