package engine

import (
	"context"
	"fmt"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Replay re-executes a recorded run.
//
// A run is fully determined by its circuit, repetitions, bindings, back end,
// seed and sequence number: the random stream is PCG(seed, seq), and every
// other input is deterministic. Replay builds a simulator whose clock will
// stamp the recorded seq and returns the new Results, which carry the same
// outcomes as the original when the inputs match.
//
// opts are applied first, so they cannot override the seed, back end or clock.
func Replay(ctx context.Context, c ir.Circuit, info RunInfo, bindings ir.Bindings, opts ...Option) (*Results, error) {
	if info.Seq < 1 {
		return nil, ir.NewInvalidArgument("cannot replay run with seq %d", info.Seq)
	}
	all := append([]Option{}, opts...)
	all = append(all,
		WithSeed(info.Seed),
		WithBackend(info.Backend),
		WithClock(NewClockAt(info.Seq-1)),
	)
	sim := New(all...)
	results, err := sim.Run(ctx, c, info.Repetitions, bindings)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", info.RunID, err)
	}
	return results, nil
}

// Verify replays a recorded run and reports whether it reproduces the
// recorded outcomes exactly.
func Verify(ctx context.Context, c ir.Circuit, recorded *Results, bindings ir.Bindings, opts ...Option) (bool, error) {
	replayed, err := Replay(ctx, c, recorded.RunInfo, bindings, opts...)
	if err != nil {
		return false, err
	}
	return replayed.Equal(recorded), nil
}
