// Package geom models the host particle's generatrix: the 2D curve whose
// rotation about the z axis generates the axisymmetric surface. A Surface
// couples a shape kind with its surface parameters and exposes the radius
// r(θ), its derivative, the outward unit normal and the polar angles at
// which smooth arcs join (breakpoints), which the quadrature provider must
// align to.
//
// Supported kinds:
//
//   - Sphere: params [R]
//   - Spheroid: params [a, b], semi-axis a along z, b transverse
//   - RoundedCylinder: params [a, h, e], cylinder radius a, half-length h,
//     edge radius e; three smooth arcs per hemisphere
//
// Mirror symmetry (r(θ) = r(π-θ)) is a property of the kind for Sphere and
// Spheroid and is required for RoundedCylinder; the Mirror flag is carried
// on the Surface so assembly can exploit parity decoupling.
package geom
