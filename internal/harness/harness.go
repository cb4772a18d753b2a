package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/compiler"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/testutil"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// Harness is the scenario execution engine.
// It runs one scenario against a seeded simulator and a private journal.
type Harness struct {
	store    *store.Store
	sim      *engine.Simulator
	logger   *slog.Logger
	scenario *Scenario
	prog     *compiler.Program
	bindings ir.Bindings
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Compile the scenario's CUE sources and select the circuit
// 2. Validate the program and apply the noise model
// 3. Compute the exact distribution, run and journal the sampled run
// 4. Run the sweep and zero-noise extrapolation, if requested
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(context.Background(), scenario, testutil.DiscardLogger())
}

// RunWithLogger is Run with a caller-supplied context and logger.
func RunWithLogger(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	progs, err := compiler.CompileFiles(scenario.Sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sources: %w", err)
	}
	prog, ok := compiler.Find(progs, scenario.Circuit)
	if !ok {
		return nil, fmt.Errorf("circuit %q not defined in sources", scenario.Circuit)
	}
	if verrs := compiler.Validate(prog); len(verrs) > 0 {
		return nil, fmt.Errorf("circuit %q is invalid: %w", scenario.Circuit, verrs[0])
	}

	backend, err := engine.ParseBackend(scenario.Backend)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:    st,
		logger:   logger,
		scenario: scenario,
		prog:     prog,
		bindings: prog.Bindings(scenario.Bindings),
		sim: engine.New(
			engine.WithSeed(scenario.Seed),
			engine.WithBackend(backend),
			engine.WithLogger(logger),
			engine.WithRunIDGenerator(engine.NewSequenceGenerator(scenario.Name)),
		),
	}

	result := NewResult()
	result.Circuit = prog.Name

	c, err := h.noisy(prog.Circuit)
	if err != nil {
		return nil, err
	}
	result.Moments = c.Len()
	result.Operations = c.NumOperations()

	if err := h.exact(c, result); err != nil {
		return nil, err
	}
	if err := h.sample(ctx, c, result); err != nil {
		return nil, err
	}
	if err := h.sweep(ctx, c, result); err != nil {
		return nil, err
	}
	if err := h.mitigate(ctx, result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{
		Store:  st,
		Ctx:    ctx,
		Logger: logger,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	logger.Info("scenario completed",
		"scenario", scenario.Name,
		"circuit", prog.Name,
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) noisy(c ir.Circuit) (ir.Circuit, error) {
	if h.scenario.Noise == 0 {
		return c, nil
	}
	out, err := noise.Depolarize(h.scenario.Noise).Apply(c)
	if err != nil {
		return ir.Circuit{}, fmt.Errorf("failed to apply noise: %w", err)
	}
	return out, nil
}

// exact records the exact distribution. Circuits with mid-circuit
// measurements have none; distribution assertions then fail.
func (h *Harness) exact(c ir.Circuit, result *Result) error {
	dist, err := h.sim.ExactDistribution(c, h.bindings)
	if err != nil {
		if ir.IsInvalidArgument(err) && c.HasMeasurements() {
			h.logger.Debug("exact distribution unavailable", "error", err)
			return nil
		}
		return fmt.Errorf("failed to compute exact distribution: %w", err)
	}
	result.Distribution = &dist
	return nil
}

func (h *Harness) sample(ctx context.Context, c ir.Circuit, result *Result) error {
	if h.scenario.Repetitions == 0 {
		return nil
	}
	run, err := h.sim.Run(ctx, c, h.scenario.Repetitions, h.bindings)
	if err != nil {
		return fmt.Errorf("failed to run circuit: %w", err)
	}
	if err := h.store.WriteRun(ctx, c, run, h.bindings); err != nil {
		return fmt.Errorf("failed to journal run: %w", err)
	}
	result.Run = run
	h.logger.Debug("run journaled", "run_id", run.RunID, "seq", run.Seq)
	return nil
}

func (h *Harness) sweep(ctx context.Context, c ir.Circuit, result *Result) error {
	sw := h.scenario.Sweep
	if sw == nil {
		return nil
	}
	points, err := engine.Linspace(sw.Symbol, sw.Start, sw.Stop, sw.Points, h.bindings)
	if err != nil {
		return err
	}
	for _, b := range points {
		dist, err := h.sim.ExactDistribution(c, b)
		if err != nil {
			return fmt.Errorf("sweep %s=%v: %w", sw.Symbol, b[sw.Symbol], err)
		}
		result.Sweep = append(result.Sweep, SweepPoint{Value: b[sw.Symbol], Distribution: dist})
	}
	if h.scenario.Repetitions == 0 {
		return nil
	}
	runs, err := h.sim.RunSweep(ctx, c, h.scenario.Repetitions, points)
	if err != nil {
		return err
	}
	for i, run := range runs {
		if err := h.store.WriteRun(ctx, c, run, points[i]); err != nil {
			return fmt.Errorf("failed to journal sweep run: %w", err)
		}
	}
	return nil
}

func (h *Harness) mitigate(ctx context.Context, result *Result) error {
	z := h.scenario.ZNE
	if z == nil {
		return nil
	}
	strategy, err := noise.StrategyByName(z.Strategy)
	if err != nil {
		return err
	}
	reduce, err := reduction(z.Reduction)
	if err != nil {
		return err
	}
	opts := []zne.Option{
		zne.WithStrategy(strategy),
		zne.WithBindings(h.bindings),
		zne.WithParallel(z.Parallel),
		zne.WithLogger(h.logger),
	}
	if h.scenario.Noise > 0 {
		opts = append(opts, zne.WithNoise(noise.Depolarize(h.scenario.Noise)))
	}

	// Mitigation folds the noiseless program; the model is applied per scale.
	est, err := zne.New(h.sim.Derive(1), opts...).
		Estimate(ctx, h.prog.Circuit, z.Scales, h.scenario.Repetitions, reduce)
	if err != nil {
		return fmt.Errorf("failed to estimate: %w", err)
	}

	fp, err := h.prog.Circuit.Fingerprint()
	if err != nil {
		return err
	}
	rec := store.EstimateRecord{
		ID:          h.scenario.Name + "-zne",
		Seq:         1,
		CircuitHash: fp,
		Repetitions: h.scenario.Repetitions,
		Estimate:    *est,
	}
	if err := h.store.WriteEstimate(ctx, rec); err != nil {
		return fmt.Errorf("failed to journal estimate: %w", err)
	}
	result.Estimate = est
	return nil
}

// reduction maps a ReductionSpec to its zne.Reduction.
func reduction(r ReductionSpec) (zne.Reduction, error) {
	switch r.Type {
	case ReduceKeysAgree:
		if len(r.Keys) != 2 {
			return nil, fmt.Errorf("keys_agree needs exactly 2 keys")
		}
		return zne.KeysAgree(r.Keys[0], r.Keys[1]), nil
	case ReduceOutcomeFraction:
		if len(r.Keys) != 1 {
			return nil, fmt.Errorf("outcome_fraction needs 1 key")
		}
		return zne.OutcomeFraction(r.Keys[0], r.Outcomes...), nil
	case ReduceSuccessRate:
		return zne.SuccessRate(r.Keys, r.Outcomes...), nil
	case ReduceExpectationZ:
		if len(r.Keys) != 1 {
			return nil, fmt.Errorf("expectation_z needs 1 key")
		}
		return zne.ExpectationZ(r.Keys[0]), nil
	}
	return nil, fmt.Errorf("unknown reduction type %q", r.Type)
}
