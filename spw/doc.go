// Package spw implements spherical partial-wave machinery shared by every
// component of the engine: the canonical multipole index enumeration, the
// normalized associated Legendre functions with their pi/tau angular
// derivatives, spherical Bessel and Hankel functions evaluated by stable
// recurrences, and the regular/radiating vector spherical wavefunctions.
//
// # Index convention
//
// A partial wave is identified by (pol, n, m): polarization pol ∈ {TE, TM},
// multipole degree n = 1..Nrank and azimuthal order m = -min(n,Mrank)..
// min(n,Mrank). Basis fixes (Nrank, Mrank) and maps each triple to a unique
// position in a flat coefficient vector:
//
//	pos = pol·B + off(n) + m + min(n, Mrank)
//
// where B is the per-polarization block size and off(n) counts the orders of
// all lower degrees. Every matrix in this module is addressed through this
// single mapping, so row/column ordering never diverges between the
// assembler, the translation operator and the combiner.
//
// # Numerical policy
//
// Recurrences are chosen for stability at large degree: spherical Bessel
// functions use downward (Miller) recurrence normalized against j0, Neumann
// functions use upward recurrence (stable for y), and Legendre functions use
// the fully normalized three-term recurrence. Under/overflow is detected and
// reported as ErrUnstableEvaluation; no routine returns NaN silently.
package spw
