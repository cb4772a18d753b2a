package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/queryir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Circuit  string // circuit hash prefix
	Backend  string
	Since    int64 // minimum seq
}

// filters builds the journal filters selected by the flags.
func (o *HistoryOptions) filters(withBackend bool) []queryir.Predicate {
	var preds []queryir.Predicate
	if o.Circuit != "" {
		preds = append(preds, queryir.Prefix{Field: "circuit_hash", Value: o.Circuit})
	}
	if withBackend && o.Backend != "" {
		preds = append(preds, queryir.Equals{Field: "backend", Value: ir.Str(o.Backend)})
	}
	if o.Since > 0 {
		preds = append(preds, queryir.AtLeast{Field: "seq", Value: ir.Int(o.Since)})
	}
	return preds
}

// HistoryEstimate is one journaled estimate in history output.
type HistoryEstimate struct {
	ID          string  `json:"id"`
	Seq         int64   `json:"seq"`
	CircuitHash string  `json:"circuit_hash"`
	Repetitions int     `json:"repetitions"`
	Strategy    string  `json:"strategy"`
	Noise       string  `json:"noise,omitempty"`
	Mitigated   float64 `json:"mitigated"`
	Unmitigated float64 `json:"unmitigated"`
	Points      int     `json:"points"`
}

// HistoryOutput lists the journal contents.
type HistoryOutput struct {
	Runs      []store.RunSummary `json:"runs"`
	Estimates []HistoryEstimate  `json:"estimates"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs and estimates",
		Long: `List journaled runs and zero-noise estimates in logical-clock order.

--circuit matches circuit hashes by prefix, as printed in the listing.
--backend filters runs only; estimates span several runs.

Examples:
  qsim history --db ./runs.db
  qsim history --db ./runs.db --circuit 3fa94c1e0b7d --since 10
  qsim history --db ./runs.db --backend density_matrix --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "only circuits whose hash starts with this prefix")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "only runs on this back end")
	cmd.Flags().Int64Var(&opts.Since, "since", 0, "only entries with seq >= since")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openJournal(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Backend != "" {
		if _, err := engine.ParseBackend(opts.Backend); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "invalid back end", err)
		}
	}
	runs, err := st.ListRuns(ctx, opts.filters(true)...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to list runs", err)
	}
	estimates, err := st.ListEstimates(ctx, opts.filters(false)...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to list estimates", err)
	}

	out := HistoryOutput{
		Runs:      runs,
		Estimates: make([]HistoryEstimate, 0, len(estimates)),
	}
	if out.Runs == nil {
		out.Runs = []store.RunSummary{}
	}
	for _, rec := range estimates {
		out.Estimates = append(out.Estimates, HistoryEstimate{
			ID:          rec.ID,
			Seq:         rec.Seq,
			CircuitHash: rec.CircuitHash,
			Repetitions: rec.Repetitions,
			Strategy:    rec.Estimate.Strategy,
			Noise:       rec.Estimate.Noise,
			Mitigated:   rec.Estimate.Mitigated,
			Unmitigated: rec.Estimate.Unmitigated(),
			Points:      len(rec.Estimate.Points),
		})
	}

	return formatter.Render(out, func(w io.Writer) {
		fmt.Fprintf(w, "Runs: %d\n", len(out.Runs))
		for _, r := range out.Runs {
			fmt.Fprintf(w, "  %-4d %s  %s  %d reps  seed %d  %s\n",
				r.Seq, r.RunID, r.Backend, r.Repetitions, r.Seed, short(r.CircuitHash))
		}
		fmt.Fprintf(w, "Estimates: %d\n", len(out.Estimates))
		for _, e := range out.Estimates {
			fmt.Fprintf(w, "  %-4d %s  %.6f (unmitigated %.6f)  %s  %s\n",
				e.Seq, e.ID, e.Mitigated, e.Unmitigated, e.Strategy, short(e.CircuitHash))
		}
	})
}

// openJournal opens an existing journal. Unlike store.Open it does not
// create a missing file.
func openJournal(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
