package cli

import (
	"github.com/spf13/cobra"

	"github.com/parkerwray/smuthi-1/internal/config"
	"github.com/parkerwray/smuthi-1/internal/engine"
	"github.com/parkerwray/smuthi-1/internal/logging"
)

// newSolveCommand creates the "solve" subcommand that runs a deck end to end.
func newSolveCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the compound T-matrix described by the deck",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			deck, err := config.Load(opts.DeckPath)
			if err != nil {
				return err
			}
			if deck.LogLevel != "" && !cmd.Flag("log-level").Changed {
				logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(deck.LogLevel))
			}

			summary, err := engine.Solve(cmd.Context(), deck, logger)
			if err != nil {
				return err
			}

			logger.Info("run complete",
				"tmatrix", summary.TMatrixFile,
				"nint", summary.Nint,
				"nrank", summary.Nrank,
				"mrank", summary.Mrank,
				"converged", summary.TolerancesMet)
			return nil
		},
	}
	return cmd
}
