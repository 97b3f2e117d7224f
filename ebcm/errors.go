// Package ebcm: sentinel error set.

package ebcm

import "errors"

var (
	// ErrInvalidParams indicates a nonphysical optical or truncation input
	// (nonpositive wavelength, zero refractive index, bad Nrank/Mrank).
	ErrInvalidParams = errors.New("ebcm: invalid parameters")

	// ErrNumericalInstability indicates a near-singular boundary matrix or
	// an unstable special-function evaluation. Retryable: a different
	// (Nint, Nrank, Mrank) triple usually resolves it.
	ErrNumericalInstability = errors.New("ebcm: numerical instability")
)
