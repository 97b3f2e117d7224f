package spw

import "math"

// sinFloor keeps 1/sinθ finite at the poles. Quadrature nodes are strictly
// interior, so the floor only guards direct caller misuse.
const sinFloor = 1e-12

// Legendre holds the fully normalized associated Legendre functions and
// their angular companions at a fixed polar angle θ:
//
//	P[n][m]   = normalized P_n^m(cosθ),   0 <= m <= n <= Nmax
//	Pi[n][m]  = m·P_n^m(cosθ)/sinθ
//	Tau[n][m] = dP_n^m(cosθ)/dθ
//
// The normalization is sqrt((2n+1)/2 · (n-m)!/(n+m)!), without the
// Condon–Shortley phase; negative orders are recovered by symmetry
// (the functions depend on |m| only).
type Legendre struct {
	Nmax int
	P    [][]float64
	Pi   [][]float64
	Tau  [][]float64
}

// LegendreNormalized evaluates P, Pi and Tau up to degree nmax at the angle
// given by (ctheta, stheta) = (cosθ, sinθ). The three-term recurrence is
// fully normalized, so entries stay O(1) up to large degree.
//
// Errors:
//   - ErrInvalidDegree when nmax < 0.
//   - ErrUnstableEvaluation when a non-finite value is produced.
func LegendreNormalized(ctheta, stheta float64, nmax int) (*Legendre, error) {
	if nmax < 0 {
		return nil, ErrInvalidDegree
	}
	s := stheta
	if s < sinFloor {
		s = sinFloor
	}

	leg := &Legendre{
		Nmax: nmax,
		P:    allocTriangle(nmax),
		Pi:   allocTriangle(nmax),
		Tau:  allocTriangle(nmax),
	}

	// Diagonal seeds P_m^m, built incrementally so the factorial content
	// never materializes, then upward in degree at fixed order.
	pmm := math.Sqrt(0.5) // P_0^0
	for m := 0; m <= nmax; m++ {
		if m > 0 {
			pmm *= math.Sqrt(float64(2*m+1)/float64(2*m)) * s
		}
		leg.P[m][m] = pmm

		// Sub-diagonal: P_{m+1}^m = sqrt(2m+3)·cosθ·P_m^m.
		if m+1 <= nmax {
			leg.P[m+1][m] = math.Sqrt(float64(2*m+3)) * ctheta * pmm
		}

		for n := m + 2; n <= nmax; n++ {
			a := math.Sqrt(float64(4*n*n-1) / float64(n*n-m*m))
			c := math.Sqrt(float64((n-1)*(n-1)-m*m) / float64(4*(n-1)*(n-1)-1))
			leg.P[n][m] = a * (ctheta*leg.P[n-1][m] - c*leg.P[n-2][m])
		}
	}

	// Pi directly, Tau from the derivative relation
	//   τ_n^m = (n·cosθ·P_n^m - u_n^m·P_{n-1}^m)/sinθ,
	//   u_n^m = sqrt((2n+1)(n-m)(n+m)/(2n-1)).
	for n := 0; n <= nmax; n++ {
		for m := 0; m <= n; m++ {
			leg.Pi[n][m] = float64(m) * leg.P[n][m] / s
			if n == 0 {
				continue
			}
			u := math.Sqrt(float64(2*n+1) * float64(n-m) * float64(n+m) / float64(2*n-1))
			prev := 0.0
			if m <= n-1 {
				prev = leg.P[n-1][m]
			}
			leg.Tau[n][m] = (float64(n)*ctheta*leg.P[n][m] - u*prev) / s
		}
	}

	if !leg.finite() {
		return nil, ErrUnstableEvaluation
	}

	return leg, nil
}

// At returns (P, Pi, Tau) for degree n and order m, resolving negative m by
// the |m| symmetry. Out-of-range pairs return zeros: a partial wave with
// |m| > n has no angular content.
func (l *Legendre) At(n, m int) (p, pi, tau float64) {
	ma := m
	if ma < 0 {
		ma = -ma
	}
	if n < 0 || n > l.Nmax || ma > n {
		return 0, 0, 0
	}

	return l.P[n][ma], l.Pi[n][ma], l.Tau[n][ma]
}

func allocTriangle(nmax int) [][]float64 {
	t := make([][]float64, nmax+1)
	for n := range t {
		t[n] = make([]float64, n+1)
	}

	return t
}

func (l *Legendre) finite() bool {
	for n := 0; n <= l.Nmax; n++ {
		for m := 0; m <= n; m++ {
			if math.IsNaN(l.P[n][m]) || math.IsInf(l.P[n][m], 0) ||
				math.IsNaN(l.Pi[n][m]) || math.IsInf(l.Pi[n][m], 0) ||
				math.IsNaN(l.Tau[n][m]) || math.IsInf(l.Tau[n][m], 0) {
				return false
			}
		}
	}

	return true
}
