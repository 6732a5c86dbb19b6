package rxsim

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		format = FormatText
		runs   int
	)

	cmd := &cobra.Command{
		Use:   `run <scenario.yaml>`,
		Short: `Run a scenario and print the recorded result`,
		Long: `Runs the scenario with the marble harness: the operator is applied to the
source at the created instant, subscribed to at the subscribed instant, and
disposed at the disposed instant, after which the clock stops.

With --verify-determinism N, the scenario is run N times, failing if any run
records a different result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runs < 1 {
				return fmt.Errorf(`--verify-determinism must be at least 1, got %d`, runs)
			}

			logger := opts.logger(cmd.ErrOrStderr())

			scenario, err := ReadScenario(args[0])
			if err != nil {
				return err
			}
			logger.Debug().Str(`path`, args[0]).Log(`scenario loaded`)

			res, err := scenario.Run(logger)
			if err != nil {
				return err
			}

			want := formatText(res)
			for i := 1; i < runs; i++ {
				other, err := scenario.Run(logger)
				if err != nil {
					return err
				}
				if got := formatText(other); got != want {
					return fmt.Errorf("rxsim: run %d differs from run 0:\n%s\nvs\n%s", i, got, want)
				}
			}
			if runs > 1 {
				logger.Info().Int(`runs`, runs).Log(`scenario is deterministic`)
			}

			return format.Write(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().Var(&format, `format`, `Output format (text, json)`)
	cmd.Flags().IntVar(&runs, `verify-determinism`, 1, `Number of runs that must record identical results`)

	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `example`,
		Short: `Print an example scenario`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(ExampleScenario()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// ExampleScenario returns the scenario printed by the example command:
// single-where over a hot source, with exactly one matching element.
func ExampleScenario() Scenario {
	x := DefaultScenario()
	x.Source.Messages = []Message{
		{Time: 150, Next: ptr(1)},
		{Time: 210, Next: ptr(2)},
		{Time: 220, Next: ptr(3)},
		{Time: 230, Next: ptr(4)},
		{Time: 250, Completed: true},
	}
	x.Operator = Operator{
		Name:      operatorSingleWhere,
		Predicate: &Predicate{Op: `eq`, Value: 4},
	}
	return x
}

func ptr[T any](v T) *T { return &v }
