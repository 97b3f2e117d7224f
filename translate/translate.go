package translate

import (
	"math"
	"math/cmplx"

	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
	"github.com/parkerwray/smuthi-1/wigner"
)

// Placement positions and orients a scatterer relative to the host frame:
// a displacement of its center followed by a z-y-z Euler rotation of its
// body axes. Lengths share the unit of the geometry, angles are radians.
type Placement struct {
	X, Y, Z            float64
	Alpha, Beta, Gamma float64
}

// centeredEps is the displacement below which a shift is treated as the
// identity: translation coefficients degenerate at zero distance.
const centeredEps = 1e-12

// IsCentered reports whether the placement shifts by less than centeredEps.
func (p Placement) IsCentered() bool {
	return math.Abs(p.X)+math.Abs(p.Y)+math.Abs(p.Z) < centeredEps
}

// IsUnrotated reports whether all Euler angles vanish.
func (p Placement) IsUnrotated() bool {
	return p.Alpha == 0 && p.Beta == 0 && p.Gamma == 0
}

// Apply re-expands t about the host origin: rotate by the placement's Euler
// angles, shift by its displacement, then embed into the target basis with
// the truncate-and-zero-pad policy. waveNumber is the wavenumber of the
// medium the re-expansion happens in.
func Apply(t *tmatrix.TMatrix, waveNumber complex128, pl Placement, target spw.Basis) (*tmatrix.TMatrix, error) {
	if t == nil {
		return nil, ErrNilMatrix
	}

	cur := t
	if !pl.IsUnrotated() {
		var err error
		cur, err = Rotate(cur, pl.Alpha, pl.Beta, pl.Gamma)
		if err != nil {
			return nil, err
		}
	}
	if !pl.IsCentered() {
		var err error
		cur, err = Shift(cur, waveNumber, [3]float64{pl.X, pl.Y, pl.Z})
		if err != nil {
			return nil, err
		}
	}
	return cur.Embed(target), nil
}

// Shift conjugates t by the regular-wave translation operator:
// T' = B(d)·T·B(-d). The result is expressed about an origin displaced by
// -d from t's origin, i.e. the scatterer appears at d.
func Shift(t *tmatrix.TMatrix, waveNumber complex128, d [3]float64) (*tmatrix.TMatrix, error) {
	if t == nil {
		return nil, ErrNilMatrix
	}
	if waveNumber == 0 || cmplx.IsNaN(waveNumber) || cmplx.IsInf(waveNumber) {
		return nil, ErrInvalidWavenumber
	}

	fwd, err := Operator(t.Basis(), waveNumber, d)
	if err != nil {
		return nil, err
	}
	back, err := Operator(t.Basis(), waveNumber, [3]float64{-d[0], -d[1], -d[2]})
	if err != nil {
		return nil, err
	}

	tmp, err := tmatrix.Mul(fwd, t)
	if err != nil {
		return nil, err
	}
	return tmatrix.Mul(tmp, back)
}

// Operator builds the dense regular-wave translation matrix B(d) over the
// given basis. B expands a regular wave about the origin shifted by d in
// regular waves about the original origin; for d below centeredEps it is
// the identity.
func Operator(b spw.Basis, waveNumber complex128, d [3]float64) (*tmatrix.TMatrix, error) {
	if waveNumber == 0 || cmplx.IsNaN(waveNumber) || cmplx.IsInf(waveNumber) {
		return nil, ErrInvalidWavenumber
	}

	out := tmatrix.New(b)
	dd := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if dd < centeredEps {
		for i := 0; i < out.Size(); i++ {
			out.Row(i)[i] = 1
		}
		return out, nil
	}

	nrank := b.Nrank()
	bessel, err := spw.SphericalBessel(2*nrank, waveNumber*complex(dd, 0))
	if err != nil {
		return nil, err
	}
	ctheta := d[2] / dd
	stheta := math.Sqrt(d[0]*d[0]+d[1]*d[1]) / dd
	leg, err := spw.LegendreNormalized(ctheta, stheta, 2*nrank)
	if err != nil {
		return nil, err
	}
	phi := math.Atan2(d[1], d[0])

	indices := b.Indices()
	for _, ri := range indices {
		row := out.Row(b.Position(ri))
		for _, ci := range indices {
			v := coefficient(ri, ci, bessel, leg, phi)
			if v != 0 {
				row[b.Position(ci)] = v
			}
		}
	}
	return out, nil
}

// coefficient evaluates one entry of the translation operator: the vector
// addition theorem sum over the intermediate degree, with same-polarization
// terms weighted by the a5 coefficients and cross-polarization terms by b5.
func coefficient(from, to spw.Index, bessel []complex128, leg *spw.Legendre, phi float64) complex128 {
	l1, m1 := from.N, from.M
	l2, m2 := to.N, to.M
	md := m1 - m2
	absMD := md
	if absMD < 0 {
		absMD = -absMD
	}

	var sum complex128
	for ld := abs(l1 - l2); ld <= l1+l2; ld++ {
		if absMD > ld {
			continue
		}
		a5, b5 := ab5(l1, m1, l2, m2, ld)
		var w complex128
		if from.Pol == to.Pol {
			w = a5
		} else {
			w = b5
		}
		if w == 0 {
			continue
		}
		p, _, _ := leg.At(ld, absMD)
		sum += w * bessel[ld] * complex(p, 0)
	}
	if sum == 0 {
		return 0
	}

	ph := float64(md) * phi
	return cmplx.Rect(1, ph) * sum
}

// ab5 returns the same-polarization (a5) and cross-polarization (b5)
// weights of the addition theorem for intermediate degree p.
func ab5(l1, m1, l2, m2, p int) (complex128, complex128) {
	md := m1 - m2
	absMD := abs(md)

	wig1 := wigner.ThreeJ(l1, l2, p, m1, -m2, -md)
	if wig1 == 0 {
		return 0, 0
	}

	jfac := ipow(absMD - abs(m1) - abs(m2) + l2 - l1 + p)
	if md%2 != 0 {
		jfac = -jfac
	}
	fac1 := math.Sqrt(float64((2*l1 + 1) * (2*l2 + 1)) /
		float64(2*l1*(l1+1)*l2*(l2+1)))

	fac2a := float64(l1*(l1+1)+l2*(l2+1)-p*(p+1)) * math.Sqrt(float64(2*p+1))
	a := jfac * complex(fac1*fac2a*wig1*wigner.ThreeJ(l1, l2, p, 0, 0, 0), 0)

	var b complex128
	if p > 0 {
		prod := (l1 + l2 + 1 + p) * (l1 + l2 + 1 - p) * (p + l1 - l2) * (p - l1 + l2) * (2*p + 1)
		if prod > 0 {
			fac2b := math.Sqrt(float64(prod))
			b = jfac * complex(fac1*fac2b*wig1*wigner.ThreeJ(l1, l2, p-1, 0, 0, 0), 0)
		}
	}
	return a, b
}

// ipow is iⁿ for any integer n.
func ipow(n int) complex128 {
	switch ((n % 4) + 4) % 4 {
	case 0:
		return 1
	case 1:
		return 1i
	case 2:
		return -1
	default:
		return -1i
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
