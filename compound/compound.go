package compound

import (
	"errors"
	"fmt"
	"math"

	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/linsolve"
	"github.com/parkerwray/smuthi-1/tmatrix"
	"github.com/parkerwray/smuthi-1/translate"
)

var (
	// ErrSingularSystem indicates a master operator I - T_h·T_i too close
	// to singular for a trustworthy solve. Retryable with a different
	// truncation.
	ErrSingularSystem = errors.New("compound: singular master operator")

	// ErrGeometricInconsistency indicates an inclusion that does not fit
	// inside the host. Fatal: no numerical parameter can fix geometry.
	ErrGeometricInconsistency = errors.New("compound: inclusion not inside host")
)

// Option adjusts the combiner.
type Option func(*combiner)

// WithConditionCeiling forwards a condition-number ceiling to the master
// solve. See linsolve.WithConditionCeiling.
func WithConditionCeiling(c float64) Option {
	return func(c2 *combiner) { c2.ceiling = c }
}

type combiner struct {
	ceiling float64
}

// Combine closes the multiple-scattering series between the host response
// and an inclusion response already referred to the host origin. An
// inclusion over a smaller basis is embedded (truncate and zero-pad) into
// the host basis first.
//
// Errors: tmatrix.ErrNilMatrix; ErrSingularSystem when the master operator
// cannot be solved reliably.
func Combine(host, incl *tmatrix.TMatrix, opts ...Option) (*tmatrix.TMatrix, error) {
	if host == nil || incl == nil {
		return nil, tmatrix.ErrNilMatrix
	}
	c := &combiner{ceiling: linsolve.DefaultConditionCeiling}
	for _, opt := range opts {
		opt(c)
	}

	if incl.Basis() != host.Basis() {
		incl = incl.Embed(host.Basis())
	}

	coupled, err := tmatrix.Mul(host, incl)
	if err != nil {
		return nil, err
	}
	master, err := tmatrix.IdentityMinus(coupled)
	if err != nil {
		return nil, err
	}
	rhs, err := tmatrix.Add(host, incl)
	if err != nil {
		return nil, err
	}

	n := master.Size()
	a := make([]complex128, 0, n*n)
	b := make([]complex128, 0, n*n)
	for i := 0; i < n; i++ {
		a = append(a, master.Row(i)...)
		b = append(b, rhs.Row(i)...)
	}

	solver, err := linsolve.New(a, n, linsolve.WithConditionCeiling(c.ceiling))
	if err != nil {
		if errors.Is(err, linsolve.ErrSingular) || errors.Is(err, linsolve.ErrIllConditioned) {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
		return nil, err
	}
	x, err := solver.SolveMatrix(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	// The compound of two axisymmetric responses about a common axis stays
	// axisymmetric; mirror symmetry survives only for a centered,
	// unrotated inclusion, which the caller asserts via the host metadata.
	var tOpts []tmatrix.Option
	if host.Axisymmetric() && incl.Axisymmetric() {
		tOpts = append(tOpts, tmatrix.WithAxisymmetric())
	}
	if host.Mirror() && incl.Mirror() {
		tOpts = append(tOpts, tmatrix.WithMirrorSymmetry())
	}
	if host.Chiral() || incl.Chiral() {
		tOpts = append(tOpts, tmatrix.WithChiral())
	}
	out := tmatrix.New(host.Basis(), tOpts...)
	for i := 0; i < n; i++ {
		copy(out.Row(i), x[i*n:(i+1)*n])
	}
	return out, nil
}

// placementSamples is the generatrix sampling density of CheckPlacement.
const placementSamples = 1024

// CheckPlacement verifies that the inclusion's circumscribing sphere of
// radius rcirc, centered at the placement's displacement, lies strictly
// inside the host surface. The host generatrix is sampled densely; the
// rotational symmetry of the host reduces the distance test to the
// meridional plane through the inclusion center.
func CheckPlacement(host geom.Surface, pl translate.Placement, rcirc float64) error {
	if rcirc < 0 {
		return fmt.Errorf("%w: negative inclusion radius %v", ErrGeometricInconsistency, rcirc)
	}

	rho := math.Hypot(pl.X, pl.Y)
	z := pl.Z
	centerDist := math.Hypot(rho, z)

	// Quick reject: center plus sphere beyond the host circumscribing
	// sphere can never fit.
	if centerDist+rcirc > host.Rcirc()+1e-12 {
		return fmt.Errorf("%w: center at distance %v with radius %v exceeds host circumscribing radius %v",
			ErrGeometricInconsistency, centerDist, rcirc, host.Rcirc())
	}

	// The center must be inside the surface.
	thetaC := math.Atan2(rho, z)
	rc, _, err := host.Radius(thetaC)
	if err != nil {
		return err
	}
	if centerDist >= rc {
		return fmt.Errorf("%w: center at distance %v outside host boundary %v",
			ErrGeometricInconsistency, centerDist, rc)
	}

	minDist := math.Inf(1)
	for i := 0; i <= placementSamples; i++ {
		theta := math.Pi * float64(i) / placementSamples
		r, _, err := host.Radius(theta)
		if err != nil {
			return err
		}
		s, c := math.Sincos(theta)
		d := math.Hypot(rho-r*s, z-r*c)
		if d < minDist {
			minDist = d
		}
	}
	if minDist < rcirc {
		return fmt.Errorf("%w: inclusion sphere of radius %v within %v of the host boundary",
			ErrGeometricInconsistency, rcirc, minDist)
	}
	return nil
}
