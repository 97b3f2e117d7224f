package farfield

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
)

var (
	// ErrInvalidConfig indicates a nonpositive wavenumber or step.
	ErrInvalidConfig = errors.New("farfield: invalid configuration")
)

// poleEps is the angular distance below which an evaluation angle counts as
// a coordinate pole and the exact theta -> 0 (or pi) limits of the angular
// functions replace the recurrence, which cannot take them.
const poleEps = 1e-9

// Config controls the sampling of the cross-section table.
type Config struct {
	// StepDeg is the polar sampling step in degrees. Zero means 1.
	StepDeg float64
	// BetaDeg is the polar angle of incidence in degrees. Zero is a wave
	// traveling along +z.
	BetaDeg float64
	// ExtThetaDom selects the full great-circle table (rows 0..360) over
	// the single half-plane (rows 0..180).
	ExtThetaDom bool
}

// Point is one table row. Cross sections carry the square of the length
// unit of the wavenumber's inverse.
type Point struct {
	ThetaDeg      float64
	Parallel      float64
	Perpendicular float64
	Unpolarized   float64
}

// DSCS tabulates the differential scattering cross section of t for a unit
// plane wave. waveNumber is the (real) wavenumber in the ambient medium.
func DSCS(t *tmatrix.TMatrix, waveNumber float64, cfg Config) ([]Point, error) {
	if t == nil {
		return nil, tmatrix.ErrNilMatrix
	}
	if waveNumber <= 0 || math.IsNaN(waveNumber) {
		return nil, fmt.Errorf("%w: wavenumber %v", ErrInvalidConfig, waveNumber)
	}
	if cfg.StepDeg == 0 {
		cfg.StepDeg = 1
	}
	if cfg.StepDeg < 0 {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidConfig, cfg.StepDeg)
	}

	basis := t.Basis()

	// Scattered expansions for the two incident polarizations.
	beta := cfg.BetaDeg * math.Pi / 180
	incPerp, err := incidentCoefficients(basis, beta, 0)
	if err != nil {
		return nil, err
	}
	incPar, err := incidentCoefficients(basis, beta, 1)
	if err != nil {
		return nil, err
	}
	scatPerp := apply(t, incPerp)
	scatPar := apply(t, incPar)

	span := 180.0
	if cfg.ExtThetaDom {
		span = 360.0
	}
	steps := int(math.Round(span/cfg.StepDeg)) + 1
	thetas := floats.Span(make([]float64, steps), 0, span)

	table := make([]Point, 0, steps)
	for _, deg := range thetas {
		theta, phi := deg*math.Pi/180, 0.0
		if deg > 180 {
			// Opposite half-plane of the extended convention.
			theta, phi = (360-deg)*math.Pi/180, math.Pi
		}

		par, err := scatteredIntensity(basis, scatPar, waveNumber, theta, phi)
		if err != nil {
			return nil, err
		}
		perp, err := scatteredIntensity(basis, scatPerp, waveNumber, theta, phi)
		if err != nil {
			return nil, err
		}
		table = append(table, Point{
			ThetaDeg:      deg,
			Parallel:      par,
			Perpendicular: perp,
			Unpolarized:   (par + perp) / 2,
		})
	}
	return table, nil
}

// incidentCoefficients expands a unit plane wave with polar incidence
// angle beta and azimuth zero into regular spherical waves over the basis.
// pol 0 is perpendicular (TE) and 1 parallel (TM) to the meridional plane.
func incidentCoefficients(basis spw.Basis, beta float64, pol int) ([]complex128, error) {
	ang, err := angularAt(beta, basis.Nrank())
	if err != nil {
		return nil, err
	}

	a := make([]complex128, basis.Size())
	for _, idx := range basis.Indices() {
		a[basis.Position(idx)] = 4 * transformation(idx, pol, ang, true)
	}
	return a, nil
}

// scatteredIntensity evaluates |f|² of the far-field amplitude of the
// outgoing expansion p in the direction (theta, phi), summed over the two
// outgoing polarizations.
func scatteredIntensity(basis spw.Basis, p []complex128, waveNumber, theta, phi float64) (float64, error) {
	ang, err := angularAt(theta, basis.Nrank())
	if err != nil {
		return 0, err
	}

	var fTE, fTM complex128
	for _, idx := range basis.Indices() {
		c := p[basis.Position(idx)]
		if c == 0 {
			continue
		}
		phase := cmplx.Rect(1, float64(idx.M)*phi)
		fTE += c * transformation(idx, 0, ang, false) * phase
		fTM += c * transformation(idx, 1, ang, false) * phase
	}

	// Far-field amplitude is (-i/k) times the polarization sums; only the
	// modulus enters the cross section.
	k2 := waveNumber * waveNumber
	return (absSq(fTE) + absSq(fTM)) / k2, nil
}

// transformation is the coefficient coupling the spherical wave idx to the
// plane-wave polarization pol at the evaluation angle held by ang. The
// dagger variant expands plane waves in spherical waves, the plain variant
// the other way around.
func transformation(idx spw.Index, pol int, ang *angular, dagger bool) complex128 {
	l, m := idx.N, idx.M
	piAt, tauAt := ang.at(l, m)

	var sph float64
	if (idx.Pol == spw.TE) == (pol == 0) {
		sph = tauAt
	} else {
		sph = piAt
	}
	if sph == 0 {
		return 0
	}

	// -1/(±i)^{l+1} · (±i δ_{pol,TE} + δ_{pol,TM}) / sqrt(2l(l+1))
	unit := complex(0, 1)
	if dagger {
		unit = complex(0, -1)
	}
	prefac := -1 / ipowC(unit, l+1)
	if pol == 0 {
		prefac *= unit
	}
	return prefac * complex(sph/math.Sqrt(float64(2*l*(l+1))), 0)
}

func apply(t *tmatrix.TMatrix, a []complex128) []complex128 {
	n := t.Size()
	p := make([]complex128, n)
	for i := 0; i < n; i++ {
		row := t.Row(i)
		var sum complex128
		for j, v := range a {
			if v != 0 {
				sum += row[j] * v
			}
		}
		p[i] = sum
	}
	return p
}

// angular supplies the pi and tau angular functions at one polar angle.
// Away from the poles it wraps the Legendre recurrence; at the poles it
// holds the exact limits, which are nonzero only for |m| = 1.
type angular struct {
	leg  *spw.Legendre
	pole int // +1 at theta = 0, -1 at theta = pi, 0 elsewhere
}

func angularAt(theta float64, nmax int) (*angular, error) {
	switch {
	case theta < poleEps:
		return &angular{pole: 1}, nil
	case theta > math.Pi-poleEps:
		return &angular{pole: -1}, nil
	}
	leg, err := spw.LegendreNormalized(math.Cos(theta), math.Sin(theta), nmax)
	if err != nil {
		return nil, err
	}
	return &angular{leg: leg}, nil
}

// at returns (pi, tau) for degree l and signed order m. At the poles
// pi(0) = tau(0) = sqrt((2l+1)·l(l+1)/2)/2 for m = 1; the south pole flips
// pi for even l and tau for odd l, and negative orders flip pi throughout.
func (a *angular) at(l, m int) (piV, tauV float64) {
	if a.pole != 0 {
		if m != 1 && m != -1 {
			return 0, 0
		}
		v := 0.5 * math.Sqrt(float64(2*l+1)*float64(l*(l+1))/2)
		piV, tauV = v, v
		if a.pole < 0 {
			if l%2 == 0 {
				piV = -piV
			} else {
				tauV = -tauV
			}
		}
		if m < 0 {
			piV = -piV
		}
		return piV, tauV
	}

	_, piV, tauV = a.leg.At(l, m)
	if m < 0 {
		piV = -piV // odd in the order, At reports |m|
	}
	return piV, tauV
}

func absSq(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// ipowC is unitⁿ for a unit imaginary base, n >= 0.
func ipowC(unit complex128, n int) complex128 {
	out := complex(1, 0)
	for i := 0; i < n; i++ {
		out *= unit
	}
	return out
}
