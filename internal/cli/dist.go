package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
)

// DistOutput is the result of the dist command.
type DistOutput struct {
	Circuit string `json:"circuit"`
	engine.Distribution
}

// NewDistCommand creates the dist command.
func NewDistCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dist <circuits-dir> <circuit>",
		Short: "Print the exact outcome distribution of a circuit",
		Long: `Evolve a circuit without sampling and print the exact probability of
every outcome over its measured qubits.

Measurements must be terminal; circuits that measure a qubit and then act
on it again have no fixed distribution.

Examples:
  qsim dist ./circuits bell
  qsim dist ./circuits interferometer --bind theta=3.14159
  qsim dist ./circuits bell --noise 0.05`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDist(opts, args[0], args[1], cmd)
		},
	}

	opts.addFlags(cmd, false)

	return cmd
}

func runDist(opts *SimOptions, dir, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	prog, c, bindings, loadErr := opts.prepare(dir, name)
	if loadErr != nil {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	sim, err := opts.simulator(cmd, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid back end", err)
	}

	dist, err := sim.ExactDistribution(c, bindings)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSimulation, "exact distribution failed", err)
	}

	out := DistOutput{Circuit: prog.Name, Distribution: dist}
	return formatter.Render(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s over %v:\n", prog.Name, dist.Qubits)
		for _, outcome := range dist.Outcomes() {
			fmt.Fprintf(w, "  %s  %.6f\n", outcome, dist.Prob(outcome))
		}
	})
}
