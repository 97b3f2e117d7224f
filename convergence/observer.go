package convergence

import "log/slog"

// Observer receives search progress. Implementations must be cheap: the
// controller calls them inline between solves.
type Observer interface {
	// StageChanged fires on every stage transition with the triple the
	// stage starts (or ends) at.
	StageChanged(stage Stage, nint, nrank, mrank int)

	// Probe fires after each successful solve with the detector value and
	// its relative difference against the stage's comparison point.
	Probe(stage Stage, nint, nrank, mrank int, detector, relDiff float64)
}

// NopObserver ignores all progress.
type NopObserver struct{}

func (NopObserver) StageChanged(Stage, int, int, int)            {}
func (NopObserver) Probe(Stage, int, int, int, float64, float64) {}

// slogObserver logs progress through a structured logger.
type slogObserver struct {
	log *slog.Logger
}

// NewSlogObserver returns an Observer that reports transitions at info
// level and probes at debug level on log.
func NewSlogObserver(log *slog.Logger) Observer {
	return &slogObserver{log: log}
}

func (o *slogObserver) StageChanged(stage Stage, nint, nrank, mrank int) {
	o.log.Info("convergence stage",
		"stage", stage.String(),
		"nint", nint,
		"nrank", nrank,
		"mrank", mrank,
	)
}

func (o *slogObserver) Probe(stage Stage, nint, nrank, mrank int, detector, relDiff float64) {
	o.log.Debug("convergence probe",
		"stage", stage.String(),
		"nint", nint,
		"nrank", nrank,
		"mrank", mrank,
		"detector", detector,
		"rel_diff", relDiff,
	)
}
