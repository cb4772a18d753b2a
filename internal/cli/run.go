package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/compiler"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
)

// SimOptions holds the simulation flags shared by run, dist and zne.
type SimOptions struct {
	*RootOptions
	Repetitions int
	Seed        uint64
	Bindings    []string // name=value
	Noise       float64
	Backend     string
	Database    string

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

func (o *SimOptions) addFlags(cmd *cobra.Command, sampled bool) {
	if sampled {
		cmd.Flags().IntVar(&o.Repetitions, "reps", 1000, "repetitions per run")
		cmd.Flags().Uint64Var(&o.Seed, "seed", 0, "simulator seed (random when unset)")
		cmd.Flags().StringVar(&o.Database, "db", "", "journal runs to this SQLite database")
	}
	cmd.Flags().StringArrayVar(&o.Bindings, "bind", nil, "parameter binding name=value (repeatable)")
	cmd.Flags().Float64Var(&o.Noise, "noise", 0, "depolarizing probability after every moment")
	cmd.Flags().StringVar(&o.Backend, "backend", "auto", "simulation back end (auto|state_vector|density_matrix)")
}

// simulator builds a Simulator from the flags.
func (o *SimOptions) simulator(cmd *cobra.Command, logger *slog.Logger) (*engine.Simulator, error) {
	backend, err := engine.ParseBackend(o.Backend)
	if err != nil {
		return nil, err
	}
	simOpts := []engine.Option{
		engine.WithBackend(backend),
		engine.WithLogger(logger),
	}
	if cmd.Flags().Changed("seed") {
		simOpts = append(simOpts, engine.WithSeed(o.Seed))
	}
	if o.RunIDs != nil {
		simOpts = append(simOpts, engine.WithRunIDGenerator(o.RunIDs))
	}
	return engine.New(simOpts...), nil
}

// prepare loads the named program, resolves bindings and applies the noise
// model.
func (o *SimOptions) prepare(dir, name string) (*compiler.Program, ir.Circuit, ir.Bindings, *LoadError) {
	prog, loadErr := loadProgram(dir, name)
	if loadErr != nil {
		return nil, ir.Circuit{}, nil, loadErr
	}
	overrides, err := parseBindings(o.Bindings)
	if err != nil {
		return nil, ir.Circuit{}, nil, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()}
	}
	c := prog.Circuit
	if o.Noise != 0 {
		c, err = noise.Depolarize(o.Noise).Apply(c)
		if err != nil {
			return nil, ir.Circuit{}, nil, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()}
		}
	}
	return prog, c, prog.Bindings(overrides), nil
}

// RunOutput is the result of the run command.
type RunOutput struct {
	engine.RunInfo
	Circuit     string                    `json:"circuit"`
	CircuitHash string                    `json:"circuit_hash"`
	Histograms  map[string]map[string]int `json:"histograms"`
	Journaled   bool                      `json:"journaled"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <circuits-dir> <circuit>",
		Short: "Simulate a circuit and print measurement histograms",
		Long: `Simulate a circuit for a number of repetitions and print, for every
measurement key, how often each outcome occurred.

With --db the run is journaled and can later be replayed.

Examples:
  qsim run ./circuits bell --reps 1000 --seed 7
  qsim run ./circuits variational --bind theta=1.57 --db ./runs.db
  qsim run ./circuits bell --noise 0.01 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, args[0], args[1], cmd)
		},
	}

	opts.addFlags(cmd, true)

	return cmd
}

func runCircuit(opts *SimOptions, dir, name string, cmd *cobra.Command) error {
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

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	res, err := sim.Run(ctx, c, opts.Repetitions, bindings)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSimulation, "run failed", err)
	}

	out := RunOutput{
		RunInfo:     res.RunInfo,
		Circuit:     prog.Name,
		CircuitHash: c.MustFingerprint(),
		Histograms:  make(map[string]map[string]int),
	}
	for _, key := range res.Keys() {
		out.Histograms[key] = res.Histogram(key)
	}

	if opts.Database != "" {
		if err := journalRun(ctx, opts.Database, c, res, bindings); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to journal run", err)
		}
		out.Journaled = true
		logger.Debug("run journaled", "run_id", res.RunID, "db", opts.Database)
	}

	return formatter.Render(out, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s (seq %d, seed %d, %s, %d repetitions)\n",
			out.RunID, out.Seq, out.Seed, out.Backend, out.Repetitions)
		for _, key := range res.Keys() {
			fmt.Fprintf(w, "%s:\n", key)
			writeHistogram(w, out.Histograms[key], out.Repetitions)
		}
		if out.Journaled {
			fmt.Fprintf(w, "Journaled to %s\n", opts.Database)
		}
	})
}

func writeHistogram(w io.Writer, hist map[string]int, total int) {
	for _, outcome := range slices.Sorted(maps.Keys(hist)) {
		n := hist[outcome]
		fmt.Fprintf(w, "  %s  %6d  %.4f\n", outcome, n, float64(n)/float64(total))
	}
}

// journalRun opens the journal at path and records res.
func journalRun(ctx context.Context, path string, c ir.Circuit, res *engine.Results, b ir.Bindings) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteRun(ctx, c, res, b)
}

// journalEstimate opens the journal at path and records rec.
func journalEstimate(ctx context.Context, path string, rec store.EstimateRecord) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteEstimate(ctx, rec)
}
