// Package translate re-expands a T-matrix about a different origin and
// orientation.
//
// An inclusion solved in its own body frame is carried into the host frame
// in two steps. Orientation first: a rotation through z-y-z Euler angles is
// a similarity transform by the Wigner D matrix, block diagonal in
// polarization and degree, coupling only azimuthal orders within a degree.
// Position second: a rigid shift by the displacement vector is a similarity
// transform by the regular-wave translation operator, whose coefficients
// come from the vector addition theorem (a Wigner 3j sum over the
// intermediate degree, weighted by spherical Bessel functions and
// normalized Legendre functions of the displacement direction).
//
// Truncation orders of host and inclusion may differ. Mismatched operands
// are embedded into the common basis by truncating to the shared index set
// and zero-padding the remainder; no energy rebalancing is attempted.
package translate
