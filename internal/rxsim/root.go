// Package rxsim implements the rxsim command, which runs marble scenarios on
// virtual time.
package rxsim

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
}

// NewRootCmd creates the root cobra command for the rxsim CLI.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:   `rxsim`,
		Short: `Run reactive marble scenarios on virtual time`,
		Long: `rxsim loads marble scenarios (a recorded hot or cold source, and an optional
operator) from YAML, runs them on a deterministic virtual-time scheduler, and
prints the recorded notifications and subscription intervals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, `verbose`, `v`, false, `Log virtual clock activity to stderr`)

	root.AddCommand(
		newRunCmd(&opts),
		newExampleCmd(),
	)

	return root
}

func (x *rootOptions) logger(w io.Writer) *logiface.Logger[logiface.Event] {
	level := stumpy.L.LevelWarning()
	if x.verbose {
		level = stumpy.L.LevelTrace()
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}
