package compound

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
	"github.com/parkerwray/smuthi-1/translate"
)

func diagonalT(b spw.Basis, v complex128) *tmatrix.TMatrix {
	t := tmatrix.New(b, tmatrix.WithAxisymmetric(), tmatrix.WithMirrorSymmetry())
	for i := 0; i < t.Size(); i++ {
		t.Row(i)[i] = v
	}
	return t
}

func TestCombine_VanishingInclusionReturnsHost(t *testing.T) {
	b := spw.MustBasis(3, 2)
	host := diagonalT(b, complex(-0.2, 0.1))
	incl := tmatrix.New(b)

	got, err := Combine(host, incl)
	require.NoError(t, err)

	for i := 0; i < b.Size(); i++ {
		for j := 0; j < b.Size(); j++ {
			want, err := host.At(i, j)
			require.NoError(t, err)
			v, err := got.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(v-want), 1e-13)
		}
	}
}

func TestCombine_DiagonalClosedForm(t *testing.T) {
	// For diagonal operands the master equation solves entrywise:
	// t = (th + ti) / (1 - th·ti).
	b := spw.MustBasis(2, 2)
	th := complex(-0.3, 0.05)
	ti := complex(-0.1, 0.2)
	host := diagonalT(b, th)
	incl := diagonalT(b, ti)

	got, err := Combine(host, incl)
	require.NoError(t, err)

	want := (th + ti) / (1 - th*ti)
	for i := 0; i < b.Size(); i++ {
		v, err := got.At(i, i)
		require.NoError(t, err)
		assert.InDelta(t, 0, cmplx.Abs(v-want), 1e-13)
	}
	assert.True(t, got.Axisymmetric())
	assert.True(t, got.Mirror())
}

func TestCombine_EmbedsSmallerInclusion(t *testing.T) {
	hostBasis := spw.MustBasis(4, 3)
	inclBasis := spw.MustBasis(2, 1)
	th := complex(-0.2, 0.1)
	ti := complex(-0.15, 0.05)

	got, err := Combine(diagonalT(hostBasis, th), diagonalT(inclBasis, ti))
	require.NoError(t, err)
	require.Equal(t, hostBasis, got.Basis())

	both := (th + ti) / (1 - th*ti)
	hostOnly := th
	for _, idx := range hostBasis.Indices() {
		i := hostBasis.Position(idx)
		v, err := got.At(i, i)
		require.NoError(t, err)
		want := hostOnly
		if inclBasis.Contains(idx) {
			want = both
		}
		assert.InDelta(t, 0, cmplx.Abs(v-want), 1e-13,
			"pol=%v n=%d m=%d", idx.Pol, idx.N, idx.M)
	}
}

func TestCombine_SingularMaster(t *testing.T) {
	// th·ti = 1 on the diagonal makes the master operator exactly singular.
	b := spw.MustBasis(1, 1)
	host := diagonalT(b, 2)
	incl := diagonalT(b, 0.5)

	_, err := Combine(host, incl)
	assert.ErrorIs(t, err, ErrSingularSystem)
}

func TestCombine_NilOperands(t *testing.T) {
	b := spw.MustBasis(1, 1)
	_, err := Combine(nil, tmatrix.New(b))
	assert.ErrorIs(t, err, tmatrix.ErrNilMatrix)
	_, err = Combine(tmatrix.New(b), nil)
	assert.ErrorIs(t, err, tmatrix.ErrNilMatrix)
}

func TestCheckPlacement_CenteredSphereFits(t *testing.T) {
	host, err := geom.NewSurface(geom.Sphere, []float64{1.0}, 1, 1, true)
	require.NoError(t, err)

	assert.NoError(t, CheckPlacement(host, translate.Placement{}, 0.5))
	assert.NoError(t, CheckPlacement(host, translate.Placement{Z: 0.3}, 0.5))
}

func TestCheckPlacement_Violations(t *testing.T) {
	host, err := geom.NewSurface(geom.Sphere, []float64{1.0}, 1, 1, true)
	require.NoError(t, err)

	// Too large for the host.
	err = CheckPlacement(host, translate.Placement{}, 1.1)
	assert.ErrorIs(t, err, ErrGeometricInconsistency)

	// Fits the circumscribing sphere but crosses the boundary.
	err = CheckPlacement(host, translate.Placement{Z: 0.7}, 0.5)
	assert.ErrorIs(t, err, ErrGeometricInconsistency)

	// Center outside.
	err = CheckPlacement(host, translate.Placement{X: 1.2}, 0.1)
	assert.ErrorIs(t, err, ErrGeometricInconsistency)

	// Negative radius is nonsense.
	err = CheckPlacement(host, translate.Placement{}, -0.1)
	assert.ErrorIs(t, err, ErrGeometricInconsistency)
}

func TestCheckPlacement_SpheroidBoundary(t *testing.T) {
	// Prolate host: long axis 1 (z), short axis 0.4. A sphere of radius
	// 0.3 fits at the center but not offset along x.
	host, err := geom.NewSurface(geom.Spheroid, []float64{1.0, 0.4}, 1, 1, true)
	require.NoError(t, err)

	assert.NoError(t, CheckPlacement(host, translate.Placement{}, 0.3))
	err = CheckPlacement(host, translate.Placement{X: 0.2}, 0.3)
	assert.ErrorIs(t, err, ErrGeometricInconsistency)
}
