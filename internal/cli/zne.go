package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// ZNEOptions holds flags for the zne command.
type ZNEOptions struct {
	SimOptions
	Scales   []float64
	Strategy string
	Parallel bool
	Agree    []string // two keys whose outcomes must agree
	Outcome  string   // key=bits[,bits...]
	ExpectZ  string   // key
}

// ZNEOutput is the result of the zne command.
type ZNEOutput struct {
	Circuit     string       `json:"circuit"`
	EstimateID  string       `json:"estimate_id,omitempty"`
	Unmitigated float64      `json:"unmitigated"`
	Estimate    zne.Estimate `json:"estimate"`
}

// NewZNECommand creates the zne command.
func NewZNECommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ZNEOptions{SimOptions: SimOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "zne <circuits-dir> <circuit>",
		Short: "Estimate a zero-noise observable by extrapolation",
		Long: `Run a circuit at several noise scale factors, reduce every run to a
number and extrapolate the fitted line to zero noise.

Pick the observable with exactly one of:
  --agree a,b          fraction of repetitions where keys a and b agree
  --outcome key=bits   fraction of repetitions with the given outcome(s)
  --expect-z key       <Z> of a single-qubit key

Examples:
  qsim zne ./circuits bell --noise 0.02 --agree q0,q1 --seed 1
  qsim zne ./circuits hello --outcome m=0 --scales 1,3,5 --strategy unitary
  qsim zne ./circuits bell --noise 0.02 --agree q0,q1 --db ./runs.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZNE(opts, args[0], args[1], cmd)
		},
	}

	opts.addFlags(cmd, true)
	cmd.Flags().Float64SliceVar(&opts.Scales, "scales", []float64{1, 2, 3}, "noise scale factors")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", noise.StrategyMoment, "folding strategy (moment|unitary)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "run scale points concurrently")
	cmd.Flags().StringSliceVar(&opts.Agree, "agree", nil, "two measurement keys that should agree")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "key=bits[,bits] outcome fraction")
	cmd.Flags().StringVar(&opts.ExpectZ, "expect-z", "", "single-qubit key for <Z>")

	return cmd
}

// reduction builds the observable selected by the flags.
func (o *ZNEOptions) reduction() (zne.Reduction, error) {
	set := 0
	for _, on := range []bool{len(o.Agree) > 0, o.Outcome != "", o.ExpectZ != ""} {
		if on {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --agree, --outcome or --expect-z is required")
	}
	switch {
	case len(o.Agree) > 0:
		if len(o.Agree) != 2 {
			return nil, fmt.Errorf("--agree needs two keys, got %d", len(o.Agree))
		}
		return zne.KeysAgree(o.Agree[0], o.Agree[1]), nil
	case o.Outcome != "":
		key, bits, ok := strings.Cut(o.Outcome, "=")
		if !ok || key == "" || bits == "" {
			return nil, fmt.Errorf("--outcome %q: want key=bits", o.Outcome)
		}
		return zne.OutcomeFraction(key, strings.Split(bits, ",")...), nil
	default:
		return zne.ExpectationZ(o.ExpectZ), nil
	}
}

func runZNE(opts *ZNEOptions, dir, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	reduce, err := opts.reduction()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid observable", err)
	}
	strategy, err := noise.StrategyByName(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid strategy", err)
	}

	prog, _, bindings, loadErr := opts.prepare(dir, name)
	if loadErr != nil {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	sim, err := opts.simulator(cmd, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid back end", err)
	}

	// Noise is applied per scale after folding, so fold the noiseless program.
	c := prog.Circuit
	estOpts := []zne.Option{
		zne.WithStrategy(strategy),
		zne.WithBindings(bindings),
		zne.WithParallel(opts.Parallel),
		zne.WithLogger(logger),
	}
	if opts.Noise != 0 {
		estOpts = append(estOpts, zne.WithNoise(noise.Depolarize(opts.Noise)))
	}

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	est, err := zne.New(sim, estOpts...).Estimate(ctx, c, opts.Scales, opts.Repetitions, reduce)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSimulation, "estimation failed", err)
	}

	out := ZNEOutput{
		Circuit:     prog.Name,
		Unmitigated: est.Unmitigated(),
		Estimate:    *est,
	}

	if opts.Database != "" {
		ids := opts.RunIDs
		if ids == nil {
			ids = engine.UUIDv7Generator{}
		}
		out.EstimateID = ids.Generate()
		if err := journalEstimate(ctx, opts.Database, store.EstimateRecord{
			ID:          out.EstimateID,
			Seq:         sim.Clock().Next(),
			CircuitHash: c.MustFingerprint(),
			Repetitions: opts.Repetitions,
			Estimate:    *est,
		}); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to journal estimate", err)
		}
	}

	return formatter.Render(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s: zero-noise estimate %.6f (unmitigated %.6f)\n", out.Circuit, est.Mitigated, out.Unmitigated)
		fmt.Fprintf(w, "  fit: value = %.6f %+.6f*scale, R^2 %.4f\n", est.Fit.Intercept, est.Fit.Slope, est.Fit.RSquared)
		fmt.Fprintf(w, "  strategy %s", est.Strategy)
		if est.Noise != "" {
			fmt.Fprintf(w, ", noise %s", est.Noise)
		}
		fmt.Fprintln(w)
		for _, p := range est.Points {
			fmt.Fprintf(w, "  scale %-6g %.6f\n", p.Scale, p.Value)
		}
		if out.EstimateID != "" {
			fmt.Fprintf(w, "Journaled estimate %s to %s\n", out.EstimateID, opts.Database)
		}
	})
}
