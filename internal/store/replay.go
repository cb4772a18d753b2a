package store

import (
	"context"
	"fmt"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
)

// ReplayResult reports whether a journaled run reproduced.
type ReplayResult struct {
	Run        *RunRecord
	Replayed   *engine.Results
	Reproduced bool
}

// Replay re-executes a journaled run from its recorded circuit, bindings,
// seed, sequence number and back end, and compares the outcomes with the
// journal. opts configure the replaying simulator (logger, quotas); they
// cannot change the recorded inputs.
func (s *Store) Replay(ctx context.Context, id string, opts ...engine.Option) (*ReplayResult, error) {
	rec, err := s.ReadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	replayed, err := engine.Replay(ctx, rec.Circuit, rec.RunInfo, rec.Bindings, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}
	return &ReplayResult{
		Run:        rec,
		Replayed:   replayed,
		Reproduced: replayed.Equal(rec.Results),
	}, nil
}
