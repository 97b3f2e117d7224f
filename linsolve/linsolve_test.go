package linsolve

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_KnownComplexSystem(t *testing.T) {
	// A = [[1+i, 2], [0, 3-i]], X = [[1, -i], [2i, 1]], B = A·X.
	a := []complex128{1 + 1i, 2, 0, 3 - 1i}
	x := []complex128{1, -1i, 2i, 1}
	b := make([]complex128, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				b[i*2+j] += a[i*2+k] * x[k*2+j]
			}
		}
	}

	s, err := New(a, 2)
	require.NoError(t, err)
	got, err := s.SolveMatrix(b)
	require.NoError(t, err)

	for i := range x {
		assert.InDelta(t, 0, cmplx.Abs(got[i]-x[i]), 1e-13, "entry %d", i)
	}
}

func TestSolve_SingleRHS(t *testing.T) {
	a := []complex128{2, 1i, -1i, 2}
	s, err := New(a, 2)
	require.NoError(t, err)

	b := []complex128{1, 1i}
	x, err := s.Solve(b, 1)
	require.NoError(t, err)

	// Residual A·x - b.
	for i := 0; i < 2; i++ {
		var r complex128
		for k := 0; k < 2; k++ {
			r += a[i*2+k] * x[k]
		}
		assert.InDelta(t, 0, cmplx.Abs(r-b[i]), 1e-14)
	}
}

func TestNew_DimensionMismatch(t *testing.T) {
	_, err := New([]complex128{1, 2, 3}, 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = New(nil, 0)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSolve_RHSDimensionMismatch(t *testing.T) {
	s, err := New([]complex128{1, 0, 0, 1}, 2)
	require.NoError(t, err)
	_, err = s.Solve([]complex128{1}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = s.Solve([]complex128{1, 2}, 0)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNew_IllConditionedRejected(t *testing.T) {
	// Nearly dependent rows push the condition estimate far beyond any
	// reasonable ceiling.
	eps := 1e-15
	a := []complex128{1, 1, 1, complex(1+eps, 0)}

	_, err := New(a, 2, WithConditionCeiling(1e8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllConditioned) || errors.Is(err, ErrSingular),
		"got %v", err)

	// Disabling the ceiling lets the factorization through when it is not
	// exactly singular.
	s, err := New(a, 2, WithConditionCeiling(0))
	if err == nil {
		assert.Greater(t, s.Cond(), 1e8)
	}
}

func TestCond_WellConditioned(t *testing.T) {
	s, err := New([]complex128{1, 0, 0, 1}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s.Cond(), 1e-10)
}
