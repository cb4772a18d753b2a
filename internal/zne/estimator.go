package zne

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
)

// Point is one (scale, value) sample.
type Point struct {
	Scale float64 `json:"scale"`
	Value float64 `json:"value"`
	RunID string  `json:"run_id,omitempty"`
}

// Estimate is the outcome of zero-noise extrapolation.
type Estimate struct {
	// Mitigated is the fitted line evaluated at scale 0.
	Mitigated float64 `json:"mitigated"`
	Fit       Fit     `json:"fit"`
	// Points are in scale order, 1.0 included.
	Points   []Point `json:"points"`
	Strategy string  `json:"strategy"`
	Noise    string  `json:"noise,omitempty"`
}

// Unmitigated returns the value measured at scale 1.
func (e Estimate) Unmitigated() float64 {
	for _, p := range e.Points {
		if p.Scale == 1 {
			return p.Value
		}
	}
	return math.NaN()
}

// Estimator runs zero-noise extrapolation against a Simulator.
type Estimator struct {
	sim      *engine.Simulator
	strategy noise.Strategy
	model    noise.Model
	bindings ir.Bindings
	parallel bool
	logger   *slog.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithStrategy sets the folding strategy. Default: noise.MomentFold.
func WithStrategy(s noise.Strategy) Option {
	return func(e *Estimator) {
		e.strategy = s
	}
}

// WithNoise applies m to every folded circuit before it is simulated.
func WithNoise(m noise.Model) Option {
	return func(e *Estimator) {
		e.model = m
	}
}

// WithBindings resolves symbolic parameters of the circuit.
func WithBindings(b ir.Bindings) Option {
	return func(e *Estimator) {
		e.bindings = b.Clone()
	}
}

// WithParallel runs the scale factors concurrently.
func WithParallel(parallel bool) Option {
	return func(e *Estimator) {
		e.parallel = parallel
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) {
		e.logger = l
	}
}

// New returns an Estimator that runs circuits on sim.
func New(sim *engine.Simulator, opts ...Option) *Estimator {
	e := &Estimator{
		sim:      sim,
		strategy: noise.MomentFold{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate folds c at every scale factor (1.0 is added when absent), runs
// each folded circuit for the given repetitions, reduces each run to a value
// and extrapolates the values to scale 0.
func (e *Estimator) Estimate(ctx context.Context, c ir.Circuit, scales []float64, repetitions int, reduce Reduction) (*Estimate, error) {
	if reduce == nil {
		return nil, ir.NewInvalidArgument("reduction is required")
	}
	if repetitions < 1 {
		return nil, ir.NewInvalidArgument("repetitions must be >= 1, got %d", repetitions)
	}
	scales, err := normalizeScales(scales)
	if err != nil {
		return nil, err
	}
	if n := distinct(scales); n < 2 {
		return nil, ir.NewInsufficientDataError("zero-noise extrapolation needs at least 2 distinct scale factors, got %d", n)
	}

	circuits := make([]ir.Circuit, len(scales))
	for i, s := range scales {
		circuits[i], err = e.prepare(c, s)
		if err != nil {
			return nil, fmt.Errorf("scale %v: %w", s, err)
		}
	}

	points := make([]Point, len(scales))
	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range scales {
			g.Go(func() error {
				p, err := e.point(gctx, e.sim.Derive(uint64(i)), circuits[i], scales[i], repetitions, reduce)
				points[i] = p
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range scales {
			points[i], err = e.point(ctx, e.sim, circuits[i], scales[i], repetitions, reduce)
			if err != nil {
				return nil, err
			}
		}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.Scale, p.Value
	}
	fit, err := Extrapolate(xs, ys)
	if err != nil {
		return nil, err
	}

	est := &Estimate{
		Mitigated: fit.Intercept,
		Fit:       fit,
		Points:    points,
		Strategy:  e.strategy.Name(),
	}
	if e.model != nil {
		est.Noise = fmt.Sprint(e.model)
	}
	e.logger.Info("zero-noise estimate",
		"strategy", est.Strategy,
		"scales", len(points),
		"unmitigated", est.Unmitigated(),
		"mitigated", est.Mitigated,
		"r_squared", fit.RSquared)
	return est, nil
}

// Circuit returns the circuit that Estimate would simulate at scale.
func (e *Estimator) Circuit(c ir.Circuit, scale float64) (ir.Circuit, error) {
	return e.prepare(c, scale)
}

func (e *Estimator) prepare(c ir.Circuit, scale float64) (ir.Circuit, error) {
	folded, err := e.strategy.Fold(c, scale)
	if err != nil {
		return ir.Circuit{}, err
	}
	if e.model == nil {
		return folded, nil
	}
	return e.model.Apply(folded)
}

func (e *Estimator) point(ctx context.Context, sim *engine.Simulator, c ir.Circuit, scale float64, repetitions int, reduce Reduction) (Point, error) {
	res, err := sim.Run(ctx, c, repetitions, e.bindings)
	if err != nil {
		return Point{}, fmt.Errorf("scale %v: %w", scale, err)
	}
	v, err := reduce(res)
	if err != nil {
		return Point{}, fmt.Errorf("scale %v: reduce: %w", scale, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Point{}, ir.NewInvalidArgument("reduction returned %v at scale %v", v, scale)
	}
	e.logger.Debug("scale point",
		"scale", scale,
		"value", v,
		"run_id", res.RunID,
		"moments", c.Len())
	return Point{Scale: scale, Value: v, RunID: res.RunID}, nil
}

// normalizeScales validates scales, adds the 1.0 baseline when absent and
// returns them sorted.
func normalizeScales(scales []float64) ([]float64, error) {
	out := slices.Clone(scales)
	for _, s := range out {
		if err := noise.ValidateScale(s); err != nil {
			return nil, err
		}
	}
	if !slices.Contains(out, 1) {
		out = append(out, 1)
	}
	slices.Sort(out)
	return out, nil
}
