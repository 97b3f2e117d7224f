package wigner

import "math"

// logFactorial returns ln(n!) via the log-gamma function. Negative input is
// the caller's bug and yields NaN, which propagates loudly.
func logFactorial(n int) float64 {
	v, _ := math.Lgamma(float64(n + 1))

	return v
}

// triangleOK reports whether (j1, j2, j3) satisfy the triangle inequality.
func triangleOK(j1, j2, j3 int) bool {
	return j3 >= absInt(j1-j2) && j3 <= j1+j2
}

// ThreeJ evaluates the Wigner 3j symbol
//
//	( j1 j2 j3 )
//	( m1 m2 m3 )
//
// by Racah's single-sum formula. Selection rules (m1+m2+m3 = 0, triangle
// inequality, |mi| <= ji) are enforced by returning 0, matching the symbol's
// mathematical value for forbidden configurations.
func ThreeJ(j1, j2, j3, m1, m2, m3 int) float64 {
	if m1+m2+m3 != 0 || !triangleOK(j1, j2, j3) {
		return 0
	}
	if absInt(m1) > j1 || absInt(m2) > j2 || absInt(m3) > j3 {
		return 0
	}

	// Prefactor: sqrt of the triangle coefficient and the factorial ratios.
	logPre := logFactorial(j1+j2-j3) + logFactorial(j1-j2+j3) + logFactorial(-j1+j2+j3) -
		logFactorial(j1+j2+j3+1) +
		logFactorial(j1+m1) + logFactorial(j1-m1) +
		logFactorial(j2+m2) + logFactorial(j2-m2) +
		logFactorial(j3+m3) + logFactorial(j3-m3)
	logPre /= 2

	kmin := maxInt(0, maxInt(j2-j3-m1, j1-j3+m2))
	kmax := minInt(j1+j2-j3, minInt(j1-m1, j2+m2))

	sum := 0.0
	for k := kmin; k <= kmax; k++ {
		logTerm := logPre - logFactorial(k) - logFactorial(j1+j2-j3-k) -
			logFactorial(j1-m1-k) - logFactorial(j2+m2-k) -
			logFactorial(j3-j2+m1+k) - logFactorial(j3-j1-m2+k)
		term := math.Exp(logTerm)
		if k%2 != 0 {
			term = -term
		}
		sum += term
	}

	if (j1-j2-m3)%2 != 0 {
		sum = -sum
	}

	return sum
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
