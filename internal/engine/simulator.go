package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/register"
)

// Backend selects the state representation used by a run.
type Backend string

const (
	// BackendAuto picks the density matrix when the circuit contains a noise
	// channel and the state vector otherwise.
	BackendAuto Backend = "auto"

	// BackendStateVector evolves a pure state vector. It rejects noisy circuits.
	BackendStateVector Backend = "state_vector"

	// BackendDensityMatrix evolves a density matrix from the start.
	BackendDensityMatrix Backend = "density_matrix"
)

// ParseBackend parses a back end name. The empty string means BackendAuto.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendStateVector, BackendDensityMatrix:
		return Backend(s), nil
	}
	return "", ir.NewInvalidArgument("unknown back end %q", s)
}

// Simulator executes circuits.
//
// Thread-safety: Run and ExactDistribution may be called from multiple
// goroutines. Each run owns its register and random stream; the only shared
// mutable state is the atomic clock.
type Simulator struct {
	seed             uint64
	backend          Backend
	maxQubits        int
	maxDensityQubits int
	logger           *slog.Logger
	ids              RunIDGenerator
	clock            *Clock
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed fixes the simulator's seed. Without it a random seed is drawn at
// construction and reported on every Results.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = seed
	}
}

// WithBackend forces a back end. Default: BackendAuto.
func WithBackend(b Backend) Option {
	return func(s *Simulator) {
		s.backend = b
	}
}

// WithMaxQubits sets the state-vector qubit quota.
//
// Default: 16 qubits (DefaultMaxQubits)
func WithMaxQubits(n int) Option {
	return func(s *Simulator) {
		s.maxQubits = n
	}
}

// WithMaxDensityQubits sets the density-matrix qubit quota.
//
// Default: 8 qubits (DefaultMaxDensityQubits)
func WithMaxDensityQubits(n int) Option {
	return func(s *Simulator) {
		s.maxDensityQubits = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Simulator) {
		s.ids = g
	}
}

// WithClock sets the logical clock. Used for replay: a run stamped seq is
// reproduced by WithClock(NewClockAt(seq-1)) and the same seed.
func WithClock(c *Clock) Option {
	return func(s *Simulator) {
		s.clock = c
	}
}

// New creates a Simulator.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		seed:             rand.Uint64(),
		backend:          BackendAuto,
		maxQubits:        DefaultMaxQubits,
		maxDensityQubits: DefaultMaxDensityQubits,
		logger:           slog.Default(),
		ids:              UUIDv7Generator{},
		clock:            NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the simulator's seed.
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// Clock returns the simulator's logical clock.
func (s *Simulator) Clock() *Clock {
	return s.clock
}

// Derive returns an independent simulator for stream. It shares every
// setting except the seed, which is mixed from (seed, stream), and the
// clock, which starts fresh. Derived simulators give the same results no
// matter how their runs interleave.
func (s *Simulator) Derive(stream uint64) *Simulator {
	child := *s
	child.seed = splitmix64(s.seed ^ splitmix64(stream+1))
	child.clock = NewClock()
	return &child
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Run executes c for the given number of repetitions and returns the
// outcomes of every measurement. Symbolic parameters are resolved from
// bindings.
func (s *Simulator) Run(ctx context.Context, c ir.Circuit, repetitions int, bindings ir.Bindings) (*Results, error) {
	if repetitions < 1 {
		return nil, ir.NewInvalidArgument("repetitions must be >= 1, got %d", repetitions)
	}
	prog, err := compile(c, bindings)
	if err != nil {
		return nil, err
	}
	backend, err := s.resolveBackend(prog)
	if err != nil {
		return nil, err
	}
	if err := s.checkQuota(len(prog.qubits), backend); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := RunInfo{
		RunID:       s.ids.Generate(),
		Seq:         s.clock.Next(),
		Seed:        s.seed,
		Backend:     backend,
		Repetitions: repetitions,
	}
	rng := rand.New(rand.NewPCG(info.Seed, uint64(info.Seq)))

	s.logger.Debug("run starting",
		"run_id", info.RunID,
		"seq", info.Seq,
		"qubits", len(prog.qubits),
		"moments", len(prog.moments),
		"repetitions", repetitions,
		"backend", backend)

	prefix, err := newRegister(len(prog.qubits), backend)
	if err != nil {
		return nil, err
	}
	if err := evolve(prefix, prog.moments[:prog.firstMeasure], nil, nil); err != nil {
		return nil, fmt.Errorf("run %s: %w", info.RunID, err)
	}

	results := newResults(info, prog.keys)
	clamped := 0
	for rep := 0; rep < repetitions; rep++ {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("run abandoned", "run_id", info.RunID, "completed", rep)
			return nil, err
		}
		reg := prefix.Clone()
		outcomes := make(map[string]Outcome, len(prog.keys))
		if err := evolve(reg, prog.moments[prog.firstMeasure:], rng, outcomes); err != nil {
			return nil, fmt.Errorf("run %s repetition %d: %w", info.RunID, rep, err)
		}
		results.record(outcomes)
		clamped += reg.Clamped() - prefix.Clamped()
	}

	s.logger.Debug("run completed",
		"run_id", info.RunID,
		"seq", info.Seq,
		"clamped", clamped)
	return results, nil
}

func (s *Simulator) resolveBackend(p *program) (Backend, error) {
	switch s.backend {
	case "", BackendAuto:
		if p.noisy {
			return BackendDensityMatrix, nil
		}
		return BackendStateVector, nil
	case BackendStateVector:
		if p.noisy {
			return "", ir.NewInvalidArgument("state vector back end cannot apply noise channels")
		}
		return BackendStateVector, nil
	case BackendDensityMatrix:
		return BackendDensityMatrix, nil
	}
	return "", ir.NewInvalidArgument("unknown back end %q", s.backend)
}

func newRegister(n int, backend Backend) (*register.Register, error) {
	reg, err := register.New(n)
	if err != nil {
		return nil, err
	}
	if backend == BackendDensityMatrix {
		if err := reg.ToDensity(); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// evolve applies moments to reg. Measurements are sampled with rng and
// appended to outcomes under their key; with a nil rng they are skipped.
func evolve(reg *register.Register, moments [][]step, rng *rand.Rand, outcomes map[string]Outcome) error {
	for _, m := range moments {
		for _, st := range m {
			var err error
			switch {
			case st.unitary != nil:
				err = reg.ApplyUnitary(st.unitary, st.qubits)
			case st.kraus != nil:
				err = reg.ApplyChannel(st.kraus, st.qubits)
			case st.op.IsMeasurement():
				if rng == nil {
					continue
				}
				var bits []int
				bits, err = reg.Sample(rng, st.qubits)
				outcomes[st.op.Key] = append(outcomes[st.op.Key], bits...)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", st.op, err)
			}
		}
	}
	return nil
}
