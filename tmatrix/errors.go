// Package tmatrix: sentinel error set.

package tmatrix

import "errors"

var (
	// ErrNilMatrix indicates a nil *TMatrix receiver or argument.
	ErrNilMatrix = errors.New("tmatrix: nil matrix")

	// ErrOutOfRange indicates a row/column outside the matrix.
	ErrOutOfRange = errors.New("tmatrix: index out of range")

	// ErrBasisMismatch indicates an algebra operation over operands with
	// different truncations.
	ErrBasisMismatch = errors.New("tmatrix: operand bases differ")

	// ErrResourceUnavailable indicates the T-matrix resource file cannot be
	// opened or created.
	ErrResourceUnavailable = errors.New("tmatrix: resource unavailable")

	// ErrBadResource indicates a malformed T-matrix resource stream (wrong
	// magic, unsupported version, inconsistent header, truncated payload).
	ErrBadResource = errors.New("tmatrix: malformed resource")
)
