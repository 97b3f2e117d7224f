package engine

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerwray/smuthi-1/ebcm"
	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/internal/config"
	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sphereDeck builds a fixed-triple deck for a small dielectric sphere with
// a vanishing inclusion whose resource lives under dir.
func sphereDeck(t *testing.T, dir string) *config.Deck {
	t.Helper()

	zero := tmatrix.New(spw.MustBasis(2, 2))
	inclPath := filepath.Join(dir, "inclusion.tmat")
	require.NoError(t, tmatrix.WriteFile(inclPath, zero))

	return &config.Deck{
		Wavelength:  1.0,
		MediumIndex: 1.0,
		Host: config.HostSpec{
			Shape:         "sphere",
			Params:        []float64{0.3},
			Anorm:         0.3,
			Rcirc:         0.3,
			Mirror:        true,
			RelativeIndex: config.Complex{Re: 1.5},
		},
		Inclusion: config.InclusionSpec{
			TMatrixFile: inclPath,
			Rcirc:       0.05,
		},
		Convergence: config.ConvergenceSpec{
			DoConvTest: false,
			Nint:       60,
			Nrank:      5,
			Mrank:      5,
		},
		Output: config.OutputSpec{
			TMatrixFile: filepath.Join(dir, "compound.tmat"),
		},
	}
}

func TestSolve_VanishingInclusionReproducesHost(t *testing.T) {
	dir := t.TempDir()
	deck := sphereDeck(t, dir)

	summary, err := Solve(context.Background(), deck, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 60, summary.Nint)
	assert.Equal(t, 5, summary.Nrank)
	assert.Equal(t, 5, summary.Mrank)
	// A fixed-triple run still certifies the tolerances with one
	// refinement probe per knob, and the small sphere is well converged
	// at this triple.
	assert.True(t, summary.TolerancesMet)
	assert.Empty(t, summary.DSCSFile)

	got, err := tmatrix.ReadFile(summary.TMatrixFile)
	require.NoError(t, err)

	params, err := deck.HostParams()
	require.NoError(t, err)
	want, err := ebcm.HostTMatrix(context.Background(), params, 60, 5, 5)
	require.NoError(t, err)

	require.Equal(t, want.Basis(), got.Basis())
	for i := 0; i < want.Basis().Size(); i++ {
		gr, wr := got.Row(i), want.Row(i)
		for j := range wr {
			assert.InDelta(t, 0, cmplx.Abs(gr[j]-wr[j]), 1e-12)
		}
	}
}

// TestSolve_SpheroidHostWithProlateInclusion runs the full staged search on
// a size-parameter-10 spheroid host carrying an off-center prolate spheroid
// inclusion. The inclusion T-matrix is assembled first, in the host medium.
func TestSolve_SpheroidHostWithProlateInclusion(t *testing.T) {
	if testing.Short() {
		t.Skip("staged search over a large basis")
	}

	const (
		wavelength = 0.2 * math.Pi
		hostIndex  = 1.2
	)

	inclSurf, err := geom.NewSurface(geom.Spheroid, []float64{0.5, 0.3}, 0.5, 0.5, true)
	require.NoError(t, err)
	incl, err := ebcm.HostTMatrix(context.Background(), ebcm.Params{
		Wavelength:  wavelength,
		IndexMedium: hostIndex,
		IndexRel:    1.5,
		Surface:     inclSurf,
	}, 200, 13, 5)
	require.NoError(t, err)

	dir := t.TempDir()
	inclPath := filepath.Join(dir, "inclusion.tmat")
	require.NoError(t, tmatrix.WriteFile(inclPath, incl))

	deck := &config.Deck{
		Wavelength:  wavelength,
		MediumIndex: 1.0,
		Host: config.HostSpec{
			Shape:         "spheroid",
			Params:        []float64{1.0, 0.8},
			Anorm:         1.0,
			Rcirc:         1.0,
			Mirror:        true,
			RelativeIndex: config.Complex{Re: hostIndex},
		},
		Inclusion: config.InclusionSpec{
			TMatrixFile: inclPath,
			Rcirc:       0.5,
			Position:    config.Vector{Z: 0.3},
		},
		Convergence: config.ConvergenceSpec{
			DoConvTest: true,
			Nint:       150,
			Nrank:      16,
			Mrank:      16,
			EpsNint:    5e-2,
			EpsNrank:   5e-2,
			EpsMrank:   5e-2,
			DNint:      50,
		},
		Output: config.OutputSpec{
			TMatrixFile: filepath.Join(dir, "compound.tmat"),
		},
	}

	summary, err := Solve(context.Background(), deck, quietLogger())
	require.NoError(t, err)

	assert.True(t, summary.TolerancesMet)
	assert.GreaterOrEqual(t, summary.Nint, 150)
	assert.LessOrEqual(t, summary.Nint, 450)
	assert.GreaterOrEqual(t, summary.Nrank, 16)
	assert.LessOrEqual(t, summary.Nrank, 30)
	assert.GreaterOrEqual(t, summary.Mrank, 5)
	assert.LessOrEqual(t, summary.Mrank, summary.Nrank)

	got, err := tmatrix.ReadFile(summary.TMatrixFile)
	require.NoError(t, err)
	assert.Equal(t, spw.MustBasis(summary.Nrank, summary.Mrank), got.Basis())

	norm := got.FrobeniusNorm()
	assert.Positive(t, norm)
	assert.False(t, math.IsNaN(norm) || math.IsInf(norm, 0))
}

func TestSolve_WritesCrossSectionTable(t *testing.T) {
	dir := t.TempDir()
	deck := sphereDeck(t, dir)
	deck.Output.DSCSFile = filepath.Join(dir, "dscs.csv")
	deck.Output.DSCSStepDeg = 5

	summary, err := Solve(context.Background(), deck, quietLogger())
	require.NoError(t, err)
	require.Equal(t, deck.Output.DSCSFile, summary.DSCSFile)

	f, err := os.Open(summary.DSCSFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// Header plus 0..180 in 5-degree steps.
	assert.Len(t, rows, 1+37)
	assert.Equal(t, []string{"theta_deg", "parallel", "perpendicular", "unpolarized"}, rows[0])
}

func TestSolve_RejectsProtrudingInclusion(t *testing.T) {
	dir := t.TempDir()
	deck := sphereDeck(t, dir)
	deck.Inclusion.Position.Z = 0.29
	deck.Inclusion.Rcirc = 0.1

	_, err := Solve(context.Background(), deck, quietLogger())
	assert.Error(t, err)
}

func TestSolve_MissingInclusionResource(t *testing.T) {
	dir := t.TempDir()
	deck := sphereDeck(t, dir)
	deck.Inclusion.TMatrixFile = filepath.Join(dir, "absent.tmat")

	_, err := Solve(context.Background(), deck, quietLogger())
	assert.ErrorIs(t, err, tmatrix.ErrResourceUnavailable)
}
