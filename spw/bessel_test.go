package spw_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerwray/smuthi-1/spw"
)

// TestSphericalBessel_ClosedForms checks j_0..j_2 against their elementary
// closed forms at a real argument.
func TestSphericalBessel_ClosedForms(t *testing.T) {
	x := 2.3
	j, err := spw.SphericalBessel(2, complex(x, 0))
	require.NoError(t, err)

	j0 := math.Sin(x) / x
	j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
	j2 := (3/(x*x*x)-1/x)*math.Sin(x) - 3*math.Cos(x)/(x*x)

	assert.InDelta(t, j0, real(j[0]), 1e-12)
	assert.InDelta(t, j1, real(j[1]), 1e-12)
	assert.InDelta(t, j2, real(j[2]), 1e-12)
	assert.InDelta(t, 0, imag(j[1]), 1e-15, "real argument keeps j real")
}

// TestSphericalBessel_AtOrigin verifies the exact j_n(0) = δ_n0 limit.
func TestSphericalBessel_AtOrigin(t *testing.T) {
	j, err := spw.SphericalBessel(4, 0)
	require.NoError(t, err)
	assert.Equal(t, complex128(1), j[0])
	for n := 1; n <= 4; n++ {
		assert.Equal(t, complex128(0), j[n], "j_%d(0) must vanish", n)
	}
}

// TestSphericalBessel_WronskianWithNeumann exercises the cross identity
// j_n(x)·y_{n-1}(x) − j_{n-1}(x)·y_n(x) = 1/x², which couples every
// consecutive pair of the two recurrences.
func TestSphericalBessel_WronskianWithNeumann(t *testing.T) {
	x := complex(5.7, 0)
	j, err := spw.SphericalBessel(10, x)
	require.NoError(t, err)
	h, err := spw.SphericalHankel(10, x)
	require.NoError(t, err)

	for n := 1; n <= 10; n++ {
		// y_n = Im h_n at real argument.
		yn := complex(imag(h[n]), 0)
		ynm1 := complex(imag(h[n-1]), 0)
		w := j[n]*ynm1 - j[n-1]*yn
		assert.InDelta(t, real(1/(x*x)), real(w), 1e-10, "Wronskian at n=%d", n)
	}
}

// TestSphericalHankel_SingularAtOrigin confirms the argument guard.
func TestSphericalHankel_SingularAtOrigin(t *testing.T) {
	_, err := spw.SphericalHankel(3, 0)
	assert.ErrorIs(t, err, spw.ErrUnstableEvaluation)
}

// TestSphericalBessel_ComplexArgument checks evaluation at a complex
// argument (absorbing interior medium) against j_0 = sin(x)/x.
func TestSphericalBessel_ComplexArgument(t *testing.T) {
	x := complex(1.9, 0.35)
	j, err := spw.SphericalBessel(6, x)
	require.NoError(t, err)

	want := cmplx.Sin(x) / x
	assert.InDelta(t, real(want), real(j[0]), 1e-12)
	assert.InDelta(t, imag(want), imag(j[0]), 1e-12)
}

// TestRiccatiDerivative_MatchesFiniteDifference validates the analytic
// d/dx[x j_n] against a central difference.
func TestRiccatiDerivative_MatchesFiniteDifference(t *testing.T) {
	x := 3.1
	const h = 1e-6
	j, err := spw.SphericalBessel(5, complex(x, 0))
	require.NoError(t, err)
	d := spw.RiccatiDerivative(j, complex(x, 0))

	jp, err := spw.SphericalBessel(5, complex(x+h, 0))
	require.NoError(t, err)
	jm, err := spw.SphericalBessel(5, complex(x-h, 0))
	require.NoError(t, err)

	for n := 0; n <= 5; n++ {
		fd := ((x+h)*real(jp[n]) - (x-h)*real(jm[n])) / (2 * h)
		assert.InDelta(t, fd, real(d[n]), 1e-6, "n=%d", n)
	}
}

// TestSphericalBessel_NegativeDegreeRejected guards the input contract.
func TestSphericalBessel_NegativeDegreeRejected(t *testing.T) {
	_, err := spw.SphericalBessel(-1, 1)
	assert.ErrorIs(t, err, spw.ErrInvalidDegree)
}
