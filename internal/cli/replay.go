package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	All      bool
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID       string         `json:"run_id"`
	Seq         int64          `json:"seq"`
	Seed        uint64         `json:"seed"`
	Backend     engine.Backend `json:"backend"`
	Repetitions int            `json:"repetitions"`
	CircuitHash string         `json:"circuit_hash"`
	Reproduced  bool           `json:"reproduced"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs          []ReplayRunResult `json:"runs"`
	TotalRuns     int               `json:"total_runs"`
	AllReproduced bool              `json:"all_reproduced"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-id...]",
		Short: "Re-execute journaled runs and verify they reproduce",
		Long: `Re-execute journaled runs from their recorded circuit, bindings, seed,
sequence number and back end, and compare the outcomes with the journal.

Exit codes:
  0 - All runs reproduced
  1 - At least one run produced different outcomes
  2 - Command error (database or run not found, etc.)

Examples:
  qsim replay --db ./runs.db 0192e1c4-...
  qsim replay --db ./runs.db --all
  qsim replay --db ./runs.db --all --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.All, "all", false, "replay every journaled run")

	return cmd
}

func runReplay(opts *ReplayOptions, ids []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.All == (len(ids) > 0) {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "give run IDs or --all, not both", nil)
	}

	st, err := openJournal(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "failed to open database", err)
	}
	defer st.Close()

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	if opts.All {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to list runs", err)
		}
		for _, r := range runs {
			ids = append(ids, r.RunID)
		}
	}

	result := ReplayResult{
		Runs:          make([]ReplayRunResult, 0, len(ids)),
		TotalRuns:     len(ids),
		AllReproduced: true,
	}
	for _, id := range ids {
		rep, err := st.Replay(ctx, id, engine.WithLogger(logger))
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run %s not found", id), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeSimulation, fmt.Sprintf("failed to replay run %s", id), err)
		}
		run := rep.Run
		result.Runs = append(result.Runs, ReplayRunResult{
			RunID:       run.RunID,
			Seq:         run.Seq,
			Seed:        run.Seed,
			Backend:     run.Backend,
			Repetitions: run.Repetitions,
			CircuitHash: run.CircuitHash,
			Reproduced:  rep.Reproduced,
		})
		if !rep.Reproduced {
			result.AllReproduced = false
			logger.Warn("run did not reproduce", "run_id", id, "seq", run.Seq)
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	writeReplayText(cmd.OutOrStdout(), result, opts.Verbose)
	if !result.AllReproduced {
		return NewExitError(ExitFailure, "replay verification failed")
	}
	return nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.AllReproduced {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeFailed,
			Message: "replay verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllReproduced {
		return NewExitError(ExitFailure, "replay verification failed")
	}
	return nil
}

func writeReplayText(w io.Writer, result ReplayResult, verbose bool) {
	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return
	}
	fmt.Fprintf(w, "Replay Summary: %d run(s)\n\n", result.TotalRuns)
	for _, run := range result.Runs {
		status := "✓"
		if !run.Reproduced {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Run: %s (seq %d)\n", status, run.RunID, run.Seq)
		if verbose {
			fmt.Fprintf(w, "  Seed: %d\n", run.Seed)
			fmt.Fprintf(w, "  Back end: %s\n", run.Backend)
			fmt.Fprintf(w, "  Repetitions: %d\n", run.Repetitions)
			fmt.Fprintf(w, "  Circuit: %s\n", run.CircuitHash)
		}
		if !run.Reproduced {
			fmt.Fprintln(w, "  Warning: replayed outcomes differ from the journal!")
		}
	}
	fmt.Fprintln(w)
	if result.AllReproduced {
		fmt.Fprintln(w, "✓ All runs reproduced")
		return
	}
	fmt.Fprintln(w, "✗ Replay verification failed")
}
