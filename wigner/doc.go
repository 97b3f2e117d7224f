// Package wigner implements the angular-momentum algebra needed by the
// translation/rotation operator: Wigner 3j symbols (Racah's closed form,
// evaluated through log-factorials so intermediate factorials never
// overflow) and Wigner d/D rotation matrix elements for Euler rotations of
// multipole expansions.
//
// All arguments are integer angular momenta; half-integer spins are out of
// scope for electromagnetic multipoles.
package wigner
