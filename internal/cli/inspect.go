package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkerwray/smuthi-1/tmatrix"
)

// newInspectCommand creates the "inspect" subcommand that summarizes a
// stored T-matrix resource.
func newInspectCommand(_ *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a summary of a stored T-matrix resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tmatrix.ReadFile(args[0])
			if err != nil {
				return err
			}

			b := t.Basis()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:        %s\n", args[0])
			fmt.Fprintf(out, "nrank:       %d\n", b.Nrank())
			fmt.Fprintf(out, "mrank:       %d\n", b.Mrank())
			fmt.Fprintf(out, "size:        %dx%d\n", b.Size(), b.Size())
			fmt.Fprintf(out, "axisym:      %t\n", t.Axisymmetric())
			fmt.Fprintf(out, "mirror:      %t\n", t.Mirror())
			fmt.Fprintf(out, "chiral:      %t\n", t.Chiral())
			fmt.Fprintf(out, "trace:       %v\n", t.Trace())
			fmt.Fprintf(out, "frobenius:   %.6e\n", t.FrobeniusNorm())
			fmt.Fprintf(out, "max entry:   %.6e\n", t.MaxAbs())
			return nil
		},
	}
	return cmd
}
