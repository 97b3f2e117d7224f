// Package ebcm computes the T-matrix of a homogeneous axisymmetric particle
// by the null-field (extended boundary condition) method.
//
// For each azimuthal order m the boundary integrals reduce to a single
// quadrature over the generatrix. Two matrices are assembled per order:
// Q31, pairing radiating exterior waves with regular interior waves, and
// Q11, pairing regular exterior waves with the same interior set. The
// azimuthal T-matrix block is then
//
//	T_m = -Q11 · (Q31)⁻¹
//
// obtained through a transpose solve so one factorization serves the whole
// block. Orders run in parallel on a bounded worker pool; each order writes
// a disjoint region of the result.
//
// When the generatrix is mirror-symmetric about the equatorial plane the
// even and odd parity subspaces decouple exactly. The assembler then solves
// the two sub-blocks independently, which both halves the linear-algebra
// cost and keeps the cross-parity entries of the result identically zero.
//
// Ill-conditioned boundary matrices are reported as ErrNumericalInstability.
// The condition is transient in the discretization parameters, so callers
// are expected to retry with a different truncation rather than abort.
package ebcm
