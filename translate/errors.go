// Package translate: sentinel error set.

package translate

import "errors"

var (
	// ErrNilMatrix indicates a nil operand.
	ErrNilMatrix = errors.New("translate: nil matrix")

	// ErrInvalidWavenumber indicates a zero or non-finite wavenumber.
	ErrInvalidWavenumber = errors.New("translate: invalid wavenumber")
)
