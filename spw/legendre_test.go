package spw_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerwray/smuthi-1/spw"
)

const legTol = 1e-12

// TestLegendreNormalized_LowDegrees compares the recurrence output against
// hand-evaluated normalized Legendre functions.
func TestLegendreNormalized_LowDegrees(t *testing.T) {
	theta := 0.7
	c, s := math.Cos(theta), math.Sin(theta)

	leg, err := spw.LegendreNormalized(c, s, 3)
	require.NoError(t, err)

	// P̄_0^0 = sqrt(1/2)
	p, _, _ := leg.At(0, 0)
	assert.InDelta(t, math.Sqrt(0.5), p, legTol)

	// P̄_1^0 = sqrt(3/2)·cosθ
	p, _, tau := leg.At(1, 0)
	assert.InDelta(t, math.Sqrt(1.5)*c, p, legTol)
	assert.InDelta(t, -math.Sqrt(1.5)*s, tau, legTol, "τ_1^0 = dP̄_1^0/dθ")

	// P̄_1^1 = sqrt(3/4)·sinθ, π_1^1 = sqrt(3/4), τ_1^1 = sqrt(3/4)·cosθ
	p, pi, tau := leg.At(1, 1)
	assert.InDelta(t, math.Sqrt(0.75)*s, p, legTol)
	assert.InDelta(t, math.Sqrt(0.75), pi, legTol)
	assert.InDelta(t, math.Sqrt(0.75)*c, tau, legTol)

	// P̄_2^0 = sqrt(5/2)·(3cos²θ-1)/2
	p, _, _ = leg.At(2, 0)
	assert.InDelta(t, math.Sqrt(2.5)*(3*c*c-1)/2, p, legTol)
}

// TestLegendreNormalized_NegativeOrderSymmetry verifies the |m| symmetry
// used when resolving negative azimuthal orders.
func TestLegendreNormalized_NegativeOrderSymmetry(t *testing.T) {
	c, s := math.Cos(1.1), math.Sin(1.1)
	leg, err := spw.LegendreNormalized(c, s, 4)
	require.NoError(t, err)

	pPos, piPos, tauPos := leg.At(3, 2)
	pNeg, piNeg, tauNeg := leg.At(3, -2)
	assert.Equal(t, pPos, pNeg)
	assert.Equal(t, piPos, piNeg)
	assert.Equal(t, tauPos, tauNeg)
}

// TestLegendreNormalized_Orthonormality integrates P̄_n·P̄_n' over [0,π]
// with a dense trapezoidal grid; the normalization makes the integral δ_nn'.
func TestLegendreNormalized_Orthonormality(t *testing.T) {
	const steps = 4000
	accum := func(n1, n2, m int) float64 {
		sum := 0.0
		for k := 0; k <= steps; k++ {
			theta := math.Pi * float64(k) / steps
			c, s := math.Cos(theta), math.Sin(theta)
			leg, err := spw.LegendreNormalized(c, s, 6)
			require.NoError(t, err)
			p1, _, _ := leg.At(n1, m)
			p2, _, _ := leg.At(n2, m)
			w := math.Pi / steps
			if k == 0 || k == steps {
				w /= 2
			}
			sum += p1 * p2 * s * w
		}

		return sum
	}

	assert.InDelta(t, 1.0, accum(3, 3, 0), 1e-6, "⟨P̄_3^0,P̄_3^0⟩ = 1")
	assert.InDelta(t, 1.0, accum(5, 5, 2), 1e-6, "⟨P̄_5^2,P̄_5^2⟩ = 1")
	assert.InDelta(t, 0.0, accum(4, 2, 1), 1e-6, "⟨P̄_4^1,P̄_2^1⟩ = 0")
}

// TestLegendreNormalized_LargeDegreeStaysFinite guards the stability claim:
// entries remain O(1) at degree 120.
func TestLegendreNormalized_LargeDegreeStaysFinite(t *testing.T) {
	c, s := math.Cos(0.4), math.Sin(0.4)
	leg, err := spw.LegendreNormalized(c, s, 120)
	require.NoError(t, err)

	p, _, _ := leg.At(120, 60)
	assert.False(t, math.IsNaN(p))
	assert.Less(t, math.Abs(p), 1e3, "normalized values must not blow up")
}
