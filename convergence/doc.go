// Package convergence drives the automatic selection of the discretization
// triple (Nint, Nrank, Mrank).
//
// The controller is a staged search over a scalar detector derived from the
// T-matrix (an extinction-like trace metric). Integration first: the
// quadrature density grows until the detector stabilizes, everything else
// held fixed. Degree second: the multipole truncation grows, with the
// azimuthal truncation tracking it, until successive detectors agree to
// tolerance. Azimuth last: the azimuthal truncation is walked downward as
// long as the detector stays within tolerance of the full-order reference,
// trading matrix size for the accuracy already established.
//
// Probes that fail with a retryable numerical error are skipped and the
// search continues; fatal errors abort immediately. Exhausting a stage's
// probe budget yields ErrNonConvergence carrying the last triple tried.
//
// An Observer receives stage transitions and per-probe detector values.
// Use NewSlogObserver for structured progress logging, or NopObserver to
// run silent.
package convergence
