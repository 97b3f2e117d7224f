// Package linsolve provides dense complex linear solves with conditioning
// diagnostics.
//
// A complex system A·X = B is embedded as the real system
//
//	[ Re(A)  -Im(A) ] [ Re(X) ]   [ Re(B) ]
//	[ Im(A)   Re(A) ] [ Im(X) ] = [ Im(B) ]
//
// and factorized once with an LU decomposition, so multiple right-hand
// sides share the factorization. The condition number estimate of the
// embedded matrix is checked against a configurable ceiling before any
// solution is returned; systems beyond the ceiling are reported as
// ill-conditioned rather than silently producing noise.
package linsolve
