// Package tmatrix defines the transition-matrix container shared by the
// assembler, the translation operator and the combiner, together with its
// on-disk resource codec.
//
// A TMatrix is a dense complex square matrix over the canonical partial-wave
// enumeration of its spw.Basis, tagged with symmetry metadata (mirror,
// axisymmetric, chiral). Under mirror symmetry entries forbidden by the
// equatorial selection rule (same polarization with n + n' odd, crossed
// polarization with n + n' even) are structurally zero; CrossParityMax
// measures any numerical leakage into them.
//
// # Resource format
//
// The codec writes a fixed little-endian layout: magic "TMAT", a uint16
// version, a symmetry flag byte, uint32 Nrank and Mrank, then the row-major
// complex128 payload as float64 (real, imag) pairs. Round-trips are
// bit-exact; a truncated or mistagged stream is rejected with
// ErrBadResource, never silently zero-filled.
package tmatrix
