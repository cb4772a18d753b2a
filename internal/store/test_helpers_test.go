package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/testutil"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestSimulator returns a seeded simulator with predictable run IDs.
func newTestSimulator(ids ...string) *engine.Simulator {
	return engine.New(
		engine.WithSeed(42),
		engine.WithLogger(testutil.DiscardLogger()),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(ids...)),
	)
}

// runAndWrite runs c once and journals it.
func runAndWrite(t *testing.T, s *Store, sim *engine.Simulator, c ir.Circuit, reps int, b ir.Bindings) *engine.Results {
	t.Helper()
	res, err := sim.Run(context.Background(), c, reps, b)
	require.NoError(t, err)
	require.NoError(t, s.WriteRun(context.Background(), c, res, b))
	return res
}
