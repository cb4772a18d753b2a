package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
)

// FoldOptions holds flags for the fold command.
type FoldOptions struct {
	*RootOptions
	Scale    float64
	Strategy string
}

// CircuitShape summarizes a circuit's size.
type CircuitShape struct {
	Moments     int    `json:"moments"`
	Operations  int    `json:"operations"`
	Fingerprint string `json:"fingerprint"`
}

// FoldOutput is the result of the fold command.
type FoldOutput struct {
	Circuit  string       `json:"circuit"`
	Strategy string       `json:"strategy"`
	Scale    float64      `json:"scale"`
	Before   CircuitShape `json:"before"`
	After    CircuitShape `json:"after"`
}

// NewFoldCommand creates the fold command.
func NewFoldCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FoldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fold <circuits-dir> <circuit>",
		Short: "Show how noise scaling folds a circuit",
		Long: `Fold a circuit to a noise scale factor and report its size before and
after. Folding appends inverse/forward pairs, so the folded circuit
implements the same unitary with more noisy gates.

Examples:
  qsim fold ./circuits bell --scale 3
  qsim fold ./circuits bell --scale 3 --strategy unitary`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Scale, "scale", 3, "noise scale factor (>= 1)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", noise.StrategyMoment, "folding strategy (moment|unitary)")

	return cmd
}

func runFold(opts *FoldOptions, dir, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prog, loadErr := loadProgram(dir, name)
	if loadErr != nil {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	strategy, err := noise.StrategyByName(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid strategy", err)
	}
	folded, err := strategy.Fold(prog.Circuit, opts.Scale)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "fold failed", err)
	}

	out := FoldOutput{
		Circuit:  prog.Name,
		Strategy: strategy.Name(),
		Scale:    opts.Scale,
		Before:   shape(prog.Circuit),
		After:    shape(folded),
	}
	return formatter.Render(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s folded to scale %g (%s)\n", out.Circuit, out.Scale, out.Strategy)
		fmt.Fprintf(w, "  before: %d moments, %d operations\n", out.Before.Moments, out.Before.Operations)
		fmt.Fprintf(w, "  after:  %d moments, %d operations\n", out.After.Moments, out.After.Operations)
		formatter.VerboseLog("before %s", out.Before.Fingerprint)
		formatter.VerboseLog("after  %s", out.After.Fingerprint)
	})
}

func shape(c ir.Circuit) CircuitShape {
	return CircuitShape{
		Moments:     c.Len(),
		Operations:  c.NumOperations(),
		Fingerprint: c.MustFingerprint(),
	}
}
