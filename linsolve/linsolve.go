// Package linsolve: dense complex solver over a real LU embedding.

package linsolve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingular indicates an exactly (or numerically) singular system.
	ErrSingular = errors.New("linsolve: singular system")

	// ErrIllConditioned indicates a condition number estimate above the
	// configured ceiling. Results are withheld; the caller should retry
	// with different discretization parameters.
	ErrIllConditioned = errors.New("linsolve: condition number above ceiling")

	// ErrDimensionMismatch indicates operands whose shapes do not conform.
	ErrDimensionMismatch = errors.New("linsolve: dimension mismatch")
)

// DefaultConditionCeiling bounds the acceptable condition number estimate
// of the embedded real system. Factorizations beyond it are rejected with
// ErrIllConditioned.
const DefaultConditionCeiling = 1e12

// Option adjusts solver behavior.
type Option func(*Solver)

// WithConditionCeiling overrides DefaultConditionCeiling. A nonpositive
// value disables the check.
func WithConditionCeiling(c float64) Option {
	return func(s *Solver) { s.ceiling = c }
}

// Solver holds the LU factorization of one complex matrix A, reusable
// across right-hand sides. Construct with New; the zero value is not usable.
type Solver struct {
	n       int
	lu      mat.LU
	ceiling float64
	cond    float64
}

// New factorizes the n×n complex matrix a, given row-major with
// contiguous rows of length n.
//
// Errors: ErrDimensionMismatch, ErrSingular, ErrIllConditioned.
func New(a []complex128, n int, opts ...Option) (*Solver, error) {
	if n < 1 || len(a) != n*n {
		return nil, fmt.Errorf("%w: have %d entries, want %d", ErrDimensionMismatch, len(a), n*n)
	}

	s := &Solver{n: n, ceiling: DefaultConditionCeiling}
	for _, opt := range opts {
		opt(s)
	}

	// Real 2n×2n embedding [Re -Im; Im Re].
	re := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a[i*n+j]
			re.Set(i, j, real(v))
			re.Set(i, j+n, -imag(v))
			re.Set(i+n, j, imag(v))
			re.Set(i+n, j+n, real(v))
		}
	}

	s.lu.Factorize(re)
	s.cond = s.lu.Cond()
	switch {
	case math.IsInf(s.cond, 1) || math.IsNaN(s.cond):
		return nil, ErrSingular
	case s.ceiling > 0 && s.cond > s.ceiling:
		return nil, fmt.Errorf("%w: cond=%.3e ceiling=%.3e", ErrIllConditioned, s.cond, s.ceiling)
	}

	return s, nil
}

// Cond reports the condition number estimate of the factorized system.
func (s *Solver) Cond() float64 { return s.cond }

// Solve computes X in A·X = B for a row-major B with nrhs columns,
// returning X row-major with the same shape.
//
// Errors: ErrDimensionMismatch, ErrSingular.
func (s *Solver) Solve(b []complex128, nrhs int) ([]complex128, error) {
	if nrhs < 1 || len(b) != s.n*nrhs {
		return nil, fmt.Errorf("%w: have %d entries, want %d", ErrDimensionMismatch, len(b), s.n*nrhs)
	}

	rhs := mat.NewDense(2*s.n, nrhs, nil)
	for i := 0; i < s.n; i++ {
		for j := 0; j < nrhs; j++ {
			v := b[i*nrhs+j]
			rhs.Set(i, j, real(v))
			rhs.Set(i+s.n, j, imag(v))
		}
	}

	var sol mat.Dense
	if err := s.lu.SolveTo(&sol, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	x := make([]complex128, s.n*nrhs)
	for i := 0; i < s.n; i++ {
		for j := 0; j < nrhs; j++ {
			x[i*nrhs+j] = complex(sol.At(i, j), sol.At(i+s.n, j))
		}
	}
	return x, nil
}

// SolveMatrix solves A·X = B for square row-major B of the factorized
// order, a convenience for operator products of the form A⁻¹·B.
func (s *Solver) SolveMatrix(b []complex128) ([]complex128, error) {
	return s.Solve(b, s.n)
}
