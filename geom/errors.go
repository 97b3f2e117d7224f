// Package geom: sentinel error set.

package geom

import "errors"

var (
	// ErrInvalidGeometry indicates an inconsistent shape description:
	// unknown kind, wrong parameter count, nonpositive parameters, or a
	// circumscribing radius smaller than the surface it must enclose.
	ErrInvalidGeometry = errors.New("geom: invalid geometry")

	// ErrAngleOutOfRange indicates a polar angle outside [0, π].
	ErrAngleOutOfRange = errors.New("geom: polar angle outside [0, pi]")
)
