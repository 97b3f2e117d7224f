// Package compound assembles the T-matrix of a host particle with an
// embedded inclusion.
//
// With T_h the host response and T_i the inclusion response referred to the
// host origin, multiple scattering between the two closes into the master
// equation
//
//	T = (I - T_h·T_i)⁻¹ · (T_h + T_i)
//
// solved as a dense linear system rather than by explicit inversion. A
// master operator too close to singular is reported as ErrSingularSystem;
// it usually signals a resonant or under-resolved configuration and a
// different truncation is worth a retry.
//
// Geometric validity is checked separately: the inclusion's circumscribing
// sphere must lie strictly inside the host surface. Violations are a
// modeling error, not a numerical one, and are fatal.
package compound
