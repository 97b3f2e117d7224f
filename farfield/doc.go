// Package farfield tabulates the differential scattering cross section of
// a scatterer described by its T-matrix.
//
// The incident field is a unit plane wave at a configurable polar angle,
// expanded into regular spherical waves; the T-matrix maps it to the
// outgoing expansion, and the far-field amplitude in the scattering plane
// follows from the stationary-phase limit of the plane-wave decomposition.
// Each table row carries the cross section for incident polarization
// parallel and perpendicular to the scattering plane, and their average
// for unpolarized light.
//
// Two angular conventions are supported. The plain table samples the polar
// angle from 0 to 180 degrees in the half-plane of azimuth zero. The
// extended convention continues through the opposite half-plane, labeling
// it 180 to 360 degrees, so the table covers the full great circle.
package farfield
