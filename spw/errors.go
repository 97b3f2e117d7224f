// Package spw: sentinel error set.
// All routines return these sentinels (optionally wrapped with context via
// fmt.Errorf("...: %w", ErrX)); tests and callers match with errors.Is.

package spw

import "errors"

var (
	// ErrInvalidTruncation indicates a nonpositive Nrank/Mrank or Mrank > Nrank.
	ErrInvalidTruncation = errors.New("spw: invalid truncation (need 1 <= Mrank <= Nrank)")

	// ErrInvalidDegree indicates a degree/order pair outside the valid range
	// (n < 1, |m| > n, or a negative recurrence depth).
	ErrInvalidDegree = errors.New("spw: invalid degree/order")

	// ErrUnstableEvaluation indicates that a recurrence under- or overflowed
	// and the requested evaluation is not representable in float64. The
	// caller must treat the result as absent, never as zero.
	ErrUnstableEvaluation = errors.New("spw: recurrence under/overflow")
)
