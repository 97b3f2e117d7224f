package ebcm

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/spw"
)

func sphereParams(t *testing.T, radius float64, mrel complex128) Params {
	t.Helper()
	surf, err := geom.NewSurface(geom.Sphere, []float64{radius}, radius, radius, true)
	require.NoError(t, err)
	return Params{
		Wavelength:  1,
		IndexMedium: 1,
		IndexRel:    mrel,
		Surface:     surf,
	}
}

func spheroidParams(t *testing.T, a, b float64, mrel complex128) Params {
	t.Helper()
	rcirc := math.Max(a, b)
	surf, err := geom.NewSurface(geom.Spheroid, []float64{a, b}, rcirc, rcirc, true)
	require.NoError(t, err)
	return Params{
		Wavelength:  1,
		IndexMedium: 1,
		IndexRel:    mrel,
		Surface:     surf,
	}
}

// mieCoefficients returns the Lorenz-Mie a_n (TM) and b_n (TE) series for
// size parameter x and relative index m.
func mieCoefficients(t *testing.T, nmax int, x float64, m complex128) (a, b []complex128) {
	t.Helper()
	xc := complex(x, 0)
	mx := m * xc

	jx, err := spw.SphericalBessel(nmax, xc)
	require.NoError(t, err)
	jmx, err := spw.SphericalBessel(nmax, mx)
	require.NoError(t, err)
	hx, err := spw.SphericalHankel(nmax, xc)
	require.NoError(t, err)

	psix := spw.RiccatiDerivative(jx, xc)
	psimx := spw.RiccatiDerivative(jmx, mx)
	xix := spw.RiccatiDerivative(hx, xc)

	a = make([]complex128, nmax+1)
	b = make([]complex128, nmax+1)
	for n := 1; n <= nmax; n++ {
		pjx, pjmx, phx := xc*jx[n], mx*jmx[n], xc*hx[n]
		a[n] = (m*pjmx*psix[n] - pjx*psimx[n]) / (m*pjmx*xix[n] - phx*psimx[n])
		b[n] = (pjmx*psix[n] - m*pjx*psimx[n]) / (pjmx*xix[n] - m*phx*psimx[n])
	}
	return a, b
}

func TestHostTMatrix_SphereMatchesMie(t *testing.T) {
	const (
		radius = 0.3
		nrank  = 6
		mrank  = 6
		nint   = 80
	)
	mrel := complex(1.5, 0)
	p := sphereParams(t, radius, mrel)

	tm, err := HostTMatrix(context.Background(), p, nint, nrank, mrank)
	require.NoError(t, err)

	x := 2 * math.Pi * radius
	mieA, mieB := mieCoefficients(t, nrank, x, mrel)

	basis := tm.Basis()
	for _, ri := range basis.Indices() {
		i := basis.Position(ri)
		want := -mieB[ri.N]
		if ri.Pol == spw.TM {
			want = -mieA[ri.N]
		}
		got, err := tm.At(i, i)
		require.NoError(t, err)
		assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-8,
			"diagonal pol=%v n=%d m=%d: got %v want %v", ri.Pol, ri.N, ri.M, got, want)

		for _, ci := range basis.Indices() {
			j := basis.Position(ci)
			if i == j {
				continue
			}
			od, err := tm.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(od), 1e-9,
				"off-diagonal (%v,%d,%d)x(%v,%d,%d)", ri.Pol, ri.N, ri.M, ci.Pol, ci.N, ci.M)
		}
	}
}

func TestHostTMatrix_SphereAbsorbing(t *testing.T) {
	const radius = 0.25
	mrel := complex(1.4, 0.05)
	p := sphereParams(t, radius, mrel)

	tm, err := HostTMatrix(context.Background(), p, 60, 4, 4)
	require.NoError(t, err)

	x := 2 * math.Pi * radius
	mieA, mieB := mieCoefficients(t, 4, x, mrel)

	basis := tm.Basis()
	idx := basis.Position(spw.Index{Pol: spw.TE, N: 1, M: 0})
	got, err := tm.At(idx, idx)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(got-(-mieB[1])), 1e-8)

	idx = basis.Position(spw.Index{Pol: spw.TM, N: 2, M: 1})
	got, err = tm.At(idx, idx)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(got-(-mieA[2])), 1e-8)
}

func TestHostTMatrix_MirrorParityDecoupled(t *testing.T) {
	p := spheroidParams(t, 0.3, 0.2, 1.5)

	tm, err := HostTMatrix(context.Background(), p, 100, 8, 6)
	require.NoError(t, err)

	assert.True(t, tm.Mirror())
	assert.True(t, tm.Axisymmetric())
	assert.Zero(t, tm.CrossParityMax())
	assert.Positive(t, tm.FrobeniusNorm())
}

func TestHostTMatrix_AzimuthalBlocksDecoupled(t *testing.T) {
	p := spheroidParams(t, 0.3, 0.2, 1.5)

	tm, err := HostTMatrix(context.Background(), p, 80, 5, 4)
	require.NoError(t, err)

	basis := tm.Basis()
	for _, ri := range basis.Indices() {
		for _, ci := range basis.Indices() {
			if ri.M == ci.M {
				continue
			}
			v, err := tm.At(basis.Position(ri), basis.Position(ci))
			require.NoError(t, err)
			assert.Zero(t, v, "orders m=%d and m'=%d must not couple", ri.M, ci.M)
		}
	}
}

func TestHostTMatrix_NegativeOrderSymmetry(t *testing.T) {
	p := spheroidParams(t, 0.3, 0.2, 1.5)

	tm, err := HostTMatrix(context.Background(), p, 80, 5, 4)
	require.NoError(t, err)

	basis := tm.Basis()
	for m := 1; m <= 4; m++ {
		for _, ri := range basis.IndicesForOrder(m) {
			for _, ci := range basis.IndicesForOrder(m) {
				pos, err := tm.At(basis.Position(ri), basis.Position(ci))
				require.NoError(t, err)

				nri, nci := ri, ci
				nri.M, nci.M = -m, -m
				neg, err := tm.At(basis.Position(nri), basis.Position(nci))
				require.NoError(t, err)

				want := pos
				if ri.Pol != ci.Pol {
					want = -pos
				}
				assert.Equal(t, want, neg)
			}
		}
	}
}

func TestHostTMatrix_InvalidParams(t *testing.T) {
	valid := sphereParams(t, 0.3, 1.5)

	bad := valid
	bad.Wavelength = 0
	_, err := HostTMatrix(context.Background(), bad, 40, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad = valid
	bad.IndexMedium = -1
	_, err = HostTMatrix(context.Background(), bad, 40, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad = valid
	bad.IndexRel = 0
	_, err = HostTMatrix(context.Background(), bad, 40, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = HostTMatrix(context.Background(), valid, 40, 4, 7)
	assert.ErrorIs(t, err, ErrInvalidParams)

	// Too few quadrature nodes for the arc count.
	_, err = HostTMatrix(context.Background(), valid, 1, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestHostTMatrix_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HostTMatrix(ctx, sphereParams(t, 0.3, 1.5), 200, 20, 20)
	assert.ErrorIs(t, err, context.Canceled)
}
