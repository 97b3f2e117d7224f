package convergence

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/parkerwray/smuthi-1/compound"
	"github.com/parkerwray/smuthi-1/ebcm"
	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
)

var (
	// ErrNonConvergence indicates an exhausted probe budget. The wrapped
	// message carries the last triple tried.
	ErrNonConvergence = errors.New("convergence: not achieved")

	// ErrInvalidConfig indicates a nonsensical controller configuration.
	ErrInvalidConfig = errors.New("convergence: invalid configuration")
)

// Stage identifies a phase of the search.
type Stage int

const (
	StageIdle Stage = iota
	StageIntegration
	StageOrder
	StageAzimuth
	StageAccepted
	StageFailed
)

// String implements fmt.Stringer for observer output.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageIntegration:
		return "integration"
	case StageOrder:
		return "order"
	case StageAzimuth:
		return "azimuth"
	case StageAccepted:
		return "accepted"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Problem produces the T-matrix for one discretization triple. The
// controller treats it as a black box; in the compound pipeline it chains
// boundary assembly, inclusion placement and the combiner.
type Problem func(ctx context.Context, nint, nrank, mrank int) (*tmatrix.TMatrix, error)

// Config parameterizes the search. Zero tolerances and increments take the
// package defaults; the starting triple must be explicit.
type Config struct {
	// Nint, Nrank, Mrank form the starting triple, or the fixed triple
	// when DoConvTest is false.
	Nint, Nrank, Mrank int

	// DoConvTest enables the staged search. When false the problem is
	// solved once at the fixed triple and the tolerances are certified
	// by a single refinement probe per stage.
	DoConvTest bool

	// EpsNint, EpsNrank, EpsMrank are the per-stage relative tolerances.
	EpsNint, EpsNrank, EpsMrank float64

	// DNint is the quadrature increment per integration probe.
	DNint int

	// MaxIntegrationProbes and MaxNrank cap the two growing stages.
	MaxIntegrationProbes int
	MaxNrank             int
}

// Defaults for unset Config fields.
const (
	DefaultEps                  = 1e-3
	DefaultDNint                = 10
	DefaultMaxIntegrationProbes = 20
	DefaultMaxNrank             = 100
)

func (c *Config) applyDefaults() {
	if c.EpsNint == 0 {
		c.EpsNint = DefaultEps
	}
	if c.EpsNrank == 0 {
		c.EpsNrank = DefaultEps
	}
	if c.EpsMrank == 0 {
		c.EpsMrank = DefaultEps
	}
	if c.DNint == 0 {
		c.DNint = DefaultDNint
	}
	if c.MaxIntegrationProbes == 0 {
		c.MaxIntegrationProbes = DefaultMaxIntegrationProbes
	}
	if c.MaxNrank == 0 {
		c.MaxNrank = DefaultMaxNrank
	}
}

func (c Config) validate() error {
	if c.Nint < 1 || c.Nrank < 1 || c.Mrank < 1 || c.Mrank > c.Nrank {
		return fmt.Errorf("%w: triple (%d, %d, %d)", ErrInvalidConfig, c.Nint, c.Nrank, c.Mrank)
	}
	if c.EpsNint < 0 || c.EpsNrank < 0 || c.EpsMrank < 0 || c.DNint < 0 {
		return fmt.Errorf("%w: negative tolerance or increment", ErrInvalidConfig)
	}
	return nil
}

// Result is the accepted solution and the triple that produced it.
type Result struct {
	T                  *tmatrix.TMatrix
	Nint, Nrank, Mrank int

	// TolerancesMet reports whether the configured tolerances held: for
	// staged runs, at the accepted triple; for single-pass runs, against
	// one refinement probe per stage at the fixed triple.
	TolerancesMet bool
}

// IsRetryable reports whether err marks a probe worth skipping rather than
// a reason to abort the search.
func IsRetryable(err error) bool {
	return errors.Is(err, ebcm.ErrNumericalInstability) ||
		errors.Is(err, compound.ErrSingularSystem) ||
		errors.Is(err, spw.ErrUnstableEvaluation)
}

// Detector reduces a T-matrix to the scalar the search compares: the
// negated real trace, an extinction-like metric, falling back to the
// Frobenius norm when the trace cancels to nothing.
func Detector(t *tmatrix.TMatrix) float64 {
	v := -real(t.Trace())
	if math.Abs(v) < 1e-30 {
		return t.FrobeniusNorm()
	}
	return v
}

func relDiff(cur, prev float64) float64 {
	den := math.Abs(cur)
	if den < 1e-300 {
		den = 1e-300
	}
	return math.Abs(cur-prev) / den
}

// Run executes the search and returns the accepted solution.
//
// Errors: ErrInvalidConfig; ErrNonConvergence when a stage exhausts its
// budget; fatal problem errors and context cancellation are passed through.
func Run(ctx context.Context, problem Problem, cfg Config, obs Observer) (Result, error) {
	if problem == nil {
		return Result{}, fmt.Errorf("%w: nil problem", ErrInvalidConfig)
	}
	if obs == nil {
		obs = NopObserver{}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	r := &runner{problem: problem, cfg: cfg, obs: obs}
	res, err := r.run(ctx)
	if err != nil {
		obs.StageChanged(StageFailed, res.Nint, res.Nrank, res.Mrank)
		return res, err
	}
	obs.StageChanged(StageAccepted, res.Nint, res.Nrank, res.Mrank)
	return res, nil
}

type runner struct {
	problem Problem
	cfg     Config
	obs     Observer
}

func (r *runner) solve(ctx context.Context, nint, nrank, mrank int) (*tmatrix.TMatrix, float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	t, err := r.problem(ctx, nint, nrank, mrank)
	if err != nil {
		return nil, 0, err
	}
	return t, Detector(t), nil
}

func (r *runner) run(ctx context.Context) (Result, error) {
	cfg := r.cfg
	res := Result{Nint: cfg.Nint, Nrank: cfg.Nrank, Mrank: cfg.Mrank}

	if !cfg.DoConvTest {
		r.obs.StageChanged(StageIdle, res.Nint, res.Nrank, res.Mrank)
		t, det, err := r.solve(ctx, res.Nint, res.Nrank, res.Mrank)
		if err != nil {
			return res, err
		}
		res.T = t
		met, err := r.certifyFixed(ctx, det)
		if err != nil {
			return res, err
		}
		res.TolerancesMet = met
		return res, nil
	}

	// Integration stage: everything fixed, quadrature grows.
	r.obs.StageChanged(StageIntegration, res.Nint, res.Nrank, res.Mrank)
	nint, err := r.convergeIntegration(ctx, res.Nint, res.Nrank, res.Mrank)
	if err != nil {
		return res, err
	}
	res.Nint = nint

	// Order stage: degree grows with azimuth tracking it.
	r.obs.StageChanged(StageOrder, res.Nint, res.Nrank, res.Nrank)
	nrank, t, det, err := r.convergeOrder(ctx, res.Nint, res.Nrank)
	if err != nil {
		return res, err
	}
	res.Nrank = nrank
	res.Mrank = nrank

	// Azimuth stage: walk the azimuthal truncation down from the full
	// order while the detector holds.
	r.obs.StageChanged(StageAzimuth, res.Nint, res.Nrank, res.Mrank)
	mrank, t, err := r.convergeAzimuth(ctx, res.Nint, res.Nrank, t, det)
	if err != nil {
		return res, err
	}
	res.Mrank = mrank
	res.T = t
	res.TolerancesMet = true
	return res, nil
}

// certifyFixed checks whether the fixed triple already sits inside the
// tolerances by solving once more with each knob refined a single step and
// comparing detectors. A retryable probe failure counts as not certified.
func (r *runner) certifyFixed(ctx context.Context, base float64) (bool, error) {
	type refinement struct {
		stage              Stage
		nint, nrank, mrank int
		eps                float64
	}
	cfg := r.cfg
	probes := []refinement{
		{StageIntegration, cfg.Nint + cfg.DNint, cfg.Nrank, cfg.Mrank, cfg.EpsNint},
		{StageOrder, cfg.Nint, cfg.Nrank + 1, cfg.Mrank, cfg.EpsNrank},
	}
	if cfg.Mrank > 1 {
		probes = append(probes,
			refinement{StageAzimuth, cfg.Nint, cfg.Nrank, cfg.Mrank - 1, cfg.EpsMrank})
	}

	met := true
	for _, p := range probes {
		_, det, err := r.solve(ctx, p.nint, p.nrank, p.mrank)
		if err != nil {
			if IsRetryable(err) {
				met = false
				continue
			}
			return false, err
		}
		d := relDiff(det, base)
		r.obs.Probe(p.stage, p.nint, p.nrank, p.mrank, det, d)
		if d >= p.eps {
			met = false
		}
	}
	return met, nil
}

func (r *runner) convergeIntegration(ctx context.Context, nint, nrank, mrank int) (int, error) {
	var (
		prev     float64
		havePrev bool
		lastErr  error
	)
	for probe := 0; probe < r.cfg.MaxIntegrationProbes; probe++ {
		_, det, err := r.solve(ctx, nint, nrank, mrank)
		switch {
		case err == nil:
			if havePrev {
				d := relDiff(det, prev)
				r.obs.Probe(StageIntegration, nint, nrank, mrank, det, d)
				if d < r.cfg.EpsNint {
					// Both members of the pair agree, so the cheaper
					// quadrature is the one accepted.
					return nint - r.cfg.DNint, nil
				}
			} else {
				r.obs.Probe(StageIntegration, nint, nrank, mrank, det, math.Inf(1))
			}
			prev, havePrev = det, true
		case IsRetryable(err):
			lastErr = err
			havePrev = false
		default:
			return nint, err
		}
		nint += r.cfg.DNint
	}
	return nint, nonConvergence("integration", nint, nrank, mrank, lastErr)
}

// convergeOrder grows the degree truncation with the azimuthal truncation
// pinned to it, comparing successive full-azimuth detectors.
func (r *runner) convergeOrder(ctx context.Context, nint, nrank int) (int, *tmatrix.TMatrix, float64, error) {
	prev := math.Inf(1)
	havePrev := false
	var lastErr error

	for ; nrank <= r.cfg.MaxNrank; nrank++ {
		cur, d, err := r.solve(ctx, nint, nrank, nrank)
		switch {
		case err == nil:
			if havePrev {
				rd := relDiff(d, prev)
				r.obs.Probe(StageOrder, nint, nrank, nrank, d, rd)
				if rd < r.cfg.EpsNrank {
					return nrank, cur, d, nil
				}
			} else {
				r.obs.Probe(StageOrder, nint, nrank, nrank, d, math.Inf(1))
			}
			prev, havePrev = d, true
		case IsRetryable(err):
			lastErr = err
			havePrev = false
		default:
			return nrank, nil, 0, err
		}
	}
	return nrank, nil, 0, nonConvergence("order", nint, r.cfg.MaxNrank, r.cfg.MaxNrank, lastErr)
}

func (r *runner) convergeAzimuth(ctx context.Context, nint, nrank int, full *tmatrix.TMatrix, reference float64) (int, *tmatrix.TMatrix, error) {
	best, bestM := full, nrank
	for m := nrank - 1; m >= 1; m-- {
		t, det, err := r.solve(ctx, nint, nrank, m)
		if err != nil {
			if IsRetryable(err) {
				break
			}
			return bestM, nil, err
		}
		d := relDiff(det, reference)
		r.obs.Probe(StageAzimuth, nint, nrank, m, det, d)
		if d >= r.cfg.EpsMrank {
			break
		}
		best, bestM = t, m
	}
	return bestM, best, nil
}

func nonConvergence(stage string, nint, nrank, mrank int, last error) error {
	if last != nil {
		return fmt.Errorf("%w: %s stage exhausted at (%d, %d, %d), last error: %v",
			ErrNonConvergence, stage, nint, nrank, mrank, last)
	}
	return fmt.Errorf("%w: %s stage exhausted at (%d, %d, %d)",
		ErrNonConvergence, stage, nint, nrank, mrank)
}
