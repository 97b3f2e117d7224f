// Package smuthi computes the transition matrix (T-matrix) of a compound
// scatterer: an axisymmetric host particle containing an embedded inclusion
// whose own T-matrix is supplied precomputed.
//
// 🚀 What does it do?
//
//	A pure-computation engine that brings together:
//		• Multipole machinery: vector spherical wavefunctions, stable
//		  Bessel/Hankel and normalized Legendre recurrences (spw/)
//		• Wigner algebra: 3j symbols and rotation matrices (wigner/)
//		• Host geometry: axisymmetric generatrix models with mirror
//		  symmetry and smooth-arc breakpoints (geom/)
//		• Surface quadrature: Gauss–Legendre nodes aligned to the
//		  generatrix arcs (quadrature/)
//		• EBCM assembly: per-azimuthal-mode boundary-integral matrices
//		  and the host T-matrix (ebcm/)
//		• Frame changes: rotation + translation of the inclusion's
//		  multipole response into the host frame (translate/)
//		• Compound response: the multiple-scattering merge of host and
//		  inclusion T-matrices (compound/)
//		• Convergence control: a three-stage state machine certifying
//		  the result over Nint, Nrank and Mrank (convergence/)
//		• Observables: differential scattering cross-section tables
//		  from the final T-matrix (farfield/)
//
// Everything shares one canonical multipole index enumeration (spw.Basis),
// so matrices produced by different components always agree on ordering.
// Dense complex linear solves go through linsolve/, which enforces a
// condition-number ceiling instead of silently returning garbage.
//
// The cmd/tmincl binary wires a yaml configuration deck to the engine,
// writes the compound T-matrix resource, and optionally emits a DSCS table.
//
// No global mutable state exists: each run is an independent, side-effect
// free computation over immutable inputs.
package smuthi
