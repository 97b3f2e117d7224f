// Package engine runs the compound-scatterer pipeline described by a deck:
// host boundary solve, inclusion re-expansion, coupling, convergence search
// and artifact output.
package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/parkerwray/smuthi-1/compound"
	"github.com/parkerwray/smuthi-1/convergence"
	"github.com/parkerwray/smuthi-1/ebcm"
	"github.com/parkerwray/smuthi-1/farfield"
	"github.com/parkerwray/smuthi-1/internal/config"
	"github.com/parkerwray/smuthi-1/tmatrix"
	"github.com/parkerwray/smuthi-1/translate"
)

// Summary reports what a run produced.
type Summary struct {
	// Nint, Nrank, Mrank are the accepted discretization triple.
	Nint  int
	Nrank int
	Mrank int
	// TolerancesMet is true when the staged search converged, or when a
	// fixed single-pass run passed its refinement probes.
	TolerancesMet bool
	// TMatrixFile is the written compound T-matrix resource.
	TMatrixFile string
	// DSCSFile is the written cross-section table, empty when skipped.
	DSCSFile string
}

// Solve executes one deck end to end.
func Solve(ctx context.Context, deck *config.Deck, log *slog.Logger) (*Summary, error) {
	params, err := deck.HostParams()
	if err != nil {
		return nil, fmt.Errorf("engine: host parameters: %w", err)
	}

	inclT, err := tmatrix.ReadFile(deck.Inclusion.TMatrixFile)
	if err != nil {
		return nil, fmt.Errorf("engine: inclusion resource: %w", err)
	}
	log.Info("inclusion T-matrix loaded",
		"file", deck.Inclusion.TMatrixFile,
		"nrank", inclT.Basis().Nrank(),
		"mrank", inclT.Basis().Mrank())

	pl := deck.Placement()
	if err := compound.CheckPlacement(params.Surface, pl, deck.Inclusion.Rcirc); err != nil {
		return nil, fmt.Errorf("engine: placement: %w", err)
	}

	// The inclusion sits in the host interior, so its re-expansion uses
	// the host-medium wavenumber.
	kMedium := 2 * math.Pi * deck.MediumIndex / deck.Wavelength
	kHost := complex(kMedium, 0) * params.IndexRel

	problem := func(ctx context.Context, nint, nrank, mrank int) (*tmatrix.TMatrix, error) {
		hostT, err := ebcm.HostTMatrix(ctx, params, nint, nrank, mrank)
		if err != nil {
			return nil, err
		}
		inclEx, err := translate.Apply(inclT, kHost, pl, hostT.Basis())
		if err != nil {
			return nil, err
		}
		return compound.Combine(hostT, inclEx)
	}

	res, err := convergence.Run(ctx, problem, deck.ConvergenceConfig(),
		convergence.NewSlogObserver(log))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	if err := tmatrix.WriteFile(deck.Output.TMatrixFile, res.T); err != nil {
		return nil, fmt.Errorf("engine: write result: %w", err)
	}
	log.Info("compound T-matrix written",
		"file", deck.Output.TMatrixFile,
		"nint", res.Nint, "nrank", res.Nrank, "mrank", res.Mrank,
		"converged", res.TolerancesMet)

	summary := &Summary{
		Nint:          res.Nint,
		Nrank:         res.Nrank,
		Mrank:         res.Mrank,
		TolerancesMet: res.TolerancesMet,
		TMatrixFile:   deck.Output.TMatrixFile,
	}

	if deck.Output.DSCSFile != "" {
		pts, err := farfield.DSCS(res.T, kMedium, farfield.Config{
			StepDeg:     deck.Output.DSCSStepDeg,
			BetaDeg:     deck.Output.DSCSBetaDeg,
			ExtThetaDom: deck.Convergence.ExtThetaDom,
		})
		if err != nil {
			return nil, fmt.Errorf("engine: cross sections: %w", err)
		}
		if err := writeDSCS(deck.Output.DSCSFile, pts); err != nil {
			return nil, fmt.Errorf("engine: write cross sections: %w", err)
		}
		summary.DSCSFile = deck.Output.DSCSFile
		log.Info("cross-section table written",
			"file", deck.Output.DSCSFile, "rows", len(pts))
	}

	return summary, nil
}

// writeDSCS emits the table as CSV; path "-" targets stdout.
func writeDSCS(path string, pts []farfield.Point) error {
	if path == "-" {
		return writeDSCSTo(os.Stdout, pts)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeDSCSTo(f, pts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDSCSTo(out io.Writer, pts []farfield.Point) error {
	w := csv.NewWriter(out)
	_ = w.Write([]string{"theta_deg", "parallel", "perpendicular", "unpolarized"})
	row := make([]string, 4)
	for _, p := range pts {
		row[0] = strconv.FormatFloat(p.ThetaDeg, 'g', -1, 64)
		row[1] = strconv.FormatFloat(p.Parallel, 'g', 17, 64)
		row[2] = strconv.FormatFloat(p.Perpendicular, 'g', 17, 64)
		row[3] = strconv.FormatFloat(p.Unpolarized, 'g', 17, 64)
		_ = w.Write(row)
	}
	w.Flush()
	return w.Error()
}
