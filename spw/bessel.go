package spw

import (
	"math"
	"math/cmplx"
)

// millerPad is the extra recurrence depth used to seed the downward (Miller)
// recurrence for spherical Bessel functions.
const millerPad = 15

// SphericalBessel returns j_0..j_nmax evaluated at complex argument x using
// downward recurrence normalized against j_0 = sin(x)/x. Downward iteration
// keeps the minimal solution j_n stable where upward recurrence explodes.
//
// Errors:
//   - ErrInvalidDegree when nmax < 0.
//   - ErrUnstableEvaluation when x is too small/large for a representable
//     evaluation (non-finite intermediate values).
func SphericalBessel(nmax int, x complex128) ([]complex128, error) {
	if nmax < 0 {
		return nil, ErrInvalidDegree
	}
	out := make([]complex128, nmax+1)
	if x == 0 {
		// j_0(0)=1, all higher degrees vanish.
		out[0] = 1

		return out, nil
	}

	// Seed two orders above the working range with arbitrary small values
	// and recur downward; the result is fixed by normalizing against j_0.
	depth := nmax + millerPad + int(cmplx.Abs(x))
	var up complex128   // j_{k+1} (unnormalized)
	var here complex128 = 1e-30
	work := make([]complex128, nmax+1)
	for k := depth; k >= 0; k-- {
		// j_{k-1} = (2k+1)/x · j_k - j_{k+1}
		down := complex(float64(2*k+1), 0)/x*here - up
		if k <= nmax {
			work[k] = here
		}
		up, here = here, down
	}
	// "here" now holds the unnormalized j_{-1} surrogate; "up" holds j_0.
	j0 := cmplx.Sin(x) / x
	scale := j0 / up
	if !isFiniteC(scale) {
		return nil, ErrUnstableEvaluation
	}
	for k := 0; k <= nmax; k++ {
		out[k] = work[k] * scale
		if !isFiniteC(out[k]) {
			return nil, ErrUnstableEvaluation
		}
	}

	return out, nil
}

// SphericalHankel returns the spherical Hankel functions of the first kind
// h_0..h_nmax at x, via h_n = j_n + i·y_n. The Neumann part y_n grows with
// degree, so plain upward recurrence is stable for it.
//
// Errors: as SphericalBessel; x = 0 is rejected (h_n is singular there).
func SphericalHankel(nmax int, x complex128) ([]complex128, error) {
	if nmax < 0 {
		return nil, ErrInvalidDegree
	}
	if x == 0 {
		return nil, ErrUnstableEvaluation
	}
	j, err := SphericalBessel(nmax, x)
	if err != nil {
		return nil, err
	}

	y := make([]complex128, nmax+1)
	y[0] = -cmplx.Cos(x) / x
	if nmax >= 1 {
		y[1] = -cmplx.Cos(x)/(x*x) - cmplx.Sin(x)/x
	}
	for n := 2; n <= nmax; n++ {
		y[n] = complex(float64(2*n-1), 0)/x*y[n-1] - y[n-2]
	}

	out := make([]complex128, nmax+1)
	for n := 0; n <= nmax; n++ {
		out[n] = j[n] + complex(0, 1)*y[n]
		if !isFiniteC(out[n]) {
			return nil, ErrUnstableEvaluation
		}
	}

	return out, nil
}

// RiccatiDerivative returns d/dx [x·z_n(x)] for a radial function table z
// (either j or h), using the identity d/dx[x z_n] = x·z_{n-1} - n·z_n for
// n >= 1 and d/dx[x z_0] = z_0 - x·z_1.
func RiccatiDerivative(z []complex128, x complex128) []complex128 {
	out := make([]complex128, len(z))
	for n := 1; n < len(z); n++ {
		out[n] = x*z[n-1] - complex(float64(n), 0)*z[n]
	}
	if len(z) > 1 {
		// d/dx[x z_0] = z_0 + x z_0' = z_0 - x z_1 + 0·... (z_0' = -z_1).
		out[0] = z[0] - x*z[1]
	}

	return out
}

func isFiniteC(v complex128) bool {
	return !math.IsNaN(real(v)) && !math.IsInf(real(v), 0) &&
		!math.IsNaN(imag(v)) && !math.IsInf(imag(v), 0)
}
