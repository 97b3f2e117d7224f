package wigner

import (
	"math"
	"math/cmplx"
)

// SmallD evaluates the Wigner small-d matrix element d^j_{mp,m}(beta) for
// integer j and orders mp, m. Half-angle powers are accumulated in log space
// together with the factorial prefactor, so large j stays representable.
func SmallD(j, mp, m int, beta float64) float64 {
	if absInt(mp) > j || absInt(m) > j {
		return 0
	}

	cb := math.Cos(beta / 2)
	sb := math.Sin(beta / 2)

	logPre := (logFactorial(j+mp) + logFactorial(j-mp) +
		logFactorial(j+m) + logFactorial(j-m)) / 2

	kmin := maxInt(0, m-mp)
	kmax := minInt(j+m, j-mp)

	sum := 0.0
	for k := kmin; k <= kmax; k++ {
		pc := 2*j - 2*k + m - mp // power of cos(β/2)
		ps := 2*k + mp - m       // power of sin(β/2)

		// A zero base with zero exponent contributes 1; a zero base with a
		// positive exponent kills the term.
		term := math.Exp(logPre - logFactorial(j+m-k) - logFactorial(k) -
			logFactorial(j-mp-k) - logFactorial(mp-m+k))
		term *= intPow(cb, pc) * intPow(sb, ps)
		if (k+mp-m)%2 != 0 {
			term = -term
		}
		sum += term
	}

	return sum
}

// D evaluates the full Wigner rotation matrix element
//
//	D^j_{mp,m}(α, β, γ) = e^{-i·mp·α} · d^j_{mp,m}(β) · e^{-i·m·γ}
//
// in the z-y-z Euler convention used for re-orienting multipole expansions.
func D(j, mp, m int, alpha, beta, gamma float64) complex128 {
	d := SmallD(j, mp, m, beta)

	return cmplx.Exp(complex(0, -float64(mp)*alpha)) *
		complex(d, 0) *
		cmplx.Exp(complex(0, -float64(m)*gamma))
}

// intPow computes x^p for non-negative integer p with the 0^0 = 1
// convention required by the d-matrix sum.
func intPow(x float64, p int) float64 {
	if p == 0 {
		return 1
	}
	out := 1.0
	for i := 0; i < p; i++ {
		out *= x
	}

	return out
}
