// Package quadrature generates Gauss–Legendre integration nodes and weights
// over the host generatrix. The [0, π] polar domain is split at the
// geometry's breakpoints so that no rule straddles a non-smooth join, and
// the total point budget Nint is distributed across the arcs proportionally
// to their angular extent. Nodes are emitted in ascending θ, so a richer
// rule refines the coverage without reordering.
//
// Providers are pure functions: no state is carried between calls.
package quadrature
