package spw

import "math"

// WaveKind selects the radial dependence of a vector spherical wavefunction.
type WaveKind int

const (
	// Regular waves use spherical Bessel functions j_n (finite at the origin).
	Regular WaveKind = iota
	// Radiating waves use spherical Hankel functions h_n^(1) (outgoing).
	Radiating
)

// WaveField holds the spherical components of a vector wavefunction at one
// evaluation point, with the azimuthal factor e^{imφ} omitted. Axisymmetric
// surface assembly integrates φ analytically, so the assembler works in the
// generatrix plane and never needs the phase.
type WaveField struct {
	Er     complex128
	Etheta complex128
	Ephi   complex128
}

// ModeFields evaluates, for fixed azimuthal order m, the TE (M-type) and TM
// (N-type) wavefunctions of all degrees n = 1..nrank at the point (kr, θ).
// Entries with n < |m| are zero-valued: such partial waves do not exist.
//
// The conventions follow Doicu/Wriedt/Eremin, with the angular function
// π_n^m = m·P_n^m/sinθ carrying the order factor. With z_n the radial
// function of the requested kind and prefac = 1/sqrt(2n(n+1)),
//
//	M:  Er = 0
//	    Eθ = prefac · z_n · i·π_n^m
//	    Eφ = -prefac · z_n · τ_n^m
//	N:  Er = prefac · n(n+1)·z_n/kr · P_n^m
//	    Eθ = prefac · [kr·z_n]'/kr · τ_n^m
//	    Eφ = prefac · [kr·z_n]'/kr · i·π_n^m
//
// Errors:
//   - ErrInvalidDegree for nrank < 1 or |m| > nrank.
//   - ErrUnstableEvaluation propagated from the radial/angular recurrences.
func ModeFields(kind WaveKind, nrank, m int, kr complex128, ctheta, stheta float64) (te, tm []WaveField, err error) {
	if nrank < 1 || abs(m) > nrank {
		return nil, nil, ErrInvalidDegree
	}

	var radial []complex128
	if kind == Regular {
		radial, err = SphericalBessel(nrank, kr)
	} else {
		radial, err = SphericalHankel(nrank, kr)
	}
	if err != nil {
		return nil, nil, err
	}
	dradial := RiccatiDerivative(radial, kr)

	leg, err := LegendreNormalized(ctheta, stheta, nrank)
	if err != nil {
		return nil, nil, err
	}

	te = make([]WaveField, nrank+1)
	tm = make([]WaveField, nrank+1)
	for n := max(1, abs(m)); n <= nrank; n++ {
		p, pi, tau := leg.At(n, m)
		if m < 0 {
			pi = -pi // π is odd in the order, At reports |m|
		}
		prefac := complex(1/math.Sqrt(float64(2*n*(n+1))), 0)
		zn := radial[n]
		dz := dradial[n] / kr

		te[n] = WaveField{
			Etheta: prefac * zn * complex(0, pi),
			Ephi:   -prefac * zn * complex(tau, 0),
		}
		tm[n] = WaveField{
			Er:     prefac * complex(float64(n*(n+1)), 0) * zn / kr * complex(p, 0),
			Etheta: prefac * dz * complex(tau, 0),
			Ephi:   prefac * dz * complex(0, pi),
		}
	}

	return te, tm, nil
}
