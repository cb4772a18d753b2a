package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/queryir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/testutil"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenCreatesIndexes(t *testing.T) {
	s := createTestStore(t)
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"idx_estimates_circuit", "idx_estimates_seq", "idx_runs_circuit", "idx_runs_seq"}, names)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion+1))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s1, err := Open(path)
	require.NoError(t, err)
	runAndWrite(t, s1, newTestSimulator("run-a"), testutil.BellMeasured(), 10, nil)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-a", runs[0].RunID)
}

func TestWriteAndReadRun(t *testing.T) {
	s := createTestStore(t)
	c := testutil.Variational()
	b := ir.Bindings{"theta": 0.75}
	res := runAndWrite(t, s, newTestSimulator("run-1"), c, 25, b)

	rec, err := s.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, res.RunInfo, rec.RunInfo)
	assert.Equal(t, c.MustFingerprint(), rec.CircuitHash)
	assert.True(t, rec.Circuit.Equal(c))
	assert.Equal(t, b, rec.Bindings)
	assert.True(t, rec.Results.Equal(res))
	assert.Equal(t, res.Histogram("result"), rec.Results.Histogram("result"))
}

func TestWriteRunIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	res := runAndWrite(t, s, newTestSimulator("dup"), testutil.BellMeasured(), 5, nil)

	require.NoError(t, s.WriteRun(context.Background(), testutil.BellMeasured(), res, nil))

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM measurements WHERE run_id = ?", "dup").Scan(&count))
	assert.Equal(t, 10, count)
}

func TestReadRunNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSeedRoundTripsFullRange(t *testing.T) {
	s := createTestStore(t)
	sim := engine.New(
		engine.WithSeed(1<<63+12345),
		engine.WithLogger(testutil.DiscardLogger()),
		engine.WithRunIDGenerator(engine.NewFixedGenerator("big")),
	)
	runAndWrite(t, s, sim, testutil.BellMeasured(), 3, nil)

	rec, err := s.ReadRun(context.Background(), "big")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63+12345), rec.Seed)
}

func TestListRunsOrdersBySeqThenID(t *testing.T) {
	s := createTestStore(t)
	sim := newTestSimulator("b", "a", "c")
	for range 3 {
		runAndWrite(t, s, sim, testutil.BellMeasured(), 2, nil)
	}

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{runs[0].RunID, runs[1].RunID, runs[2].RunID})
	assert.Equal(t, []int64{1, 2, 3}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
}

func TestReplayReproducesJournaledRun(t *testing.T) {
	s := createTestStore(t)
	sim := newTestSimulator("first", "second")
	c := testutil.BellMeasured().Append(ir.Depolarize(0.1, "q0"), ir.Depolarize(0.1, "q1")).
		Append(ir.Measure("after", "q0", "q1"))

	runAndWrite(t, s, sim, c, 40, nil)
	runAndWrite(t, s, sim, c, 40, nil)

	got, err := s.Replay(context.Background(), "second", engine.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	assert.True(t, got.Reproduced)
	assert.Equal(t, int64(2), got.Replayed.Seq)
	assert.Equal(t, engine.BackendDensityMatrix, got.Replayed.Backend)
}

func TestReplayDetectsTampering(t *testing.T) {
	s := createTestStore(t)
	q := ir.LineQubit(0)
	c := ir.NewCircuit(q).Append(ir.H(q), ir.Measure("m", q))
	runAndWrite(t, s, newTestSimulator("r"), c, 30, nil)

	_, err := s.DB().Exec(`UPDATE measurements SET bits = CASE bits WHEN '0' THEN '1' ELSE '0' END WHERE run_id = 'r' AND repetition = 0`)
	require.NoError(t, err)

	got, err := s.Replay(context.Background(), "r", engine.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	assert.False(t, got.Reproduced)

	_, err = s.Replay(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWriteAndListEstimates(t *testing.T) {
	s := createTestStore(t)
	est := zne.Estimate{
		Mitigated: 0.98,
		Fit:       zne.Fit{Intercept: 0.98, Slope: -0.04, RSquared: 0.97},
		Points: []zne.Point{
			{Scale: 1, Value: 0.94, RunID: "r1"},
			{Scale: 2, Value: 0.9, RunID: "r2"},
		},
		Strategy: noise.StrategyMoment,
		Noise:    "depolarize(0.05)",
	}
	rec := EstimateRecord{
		ID:          "est-2",
		Seq:         7,
		CircuitHash: testutil.BellMeasured().MustFingerprint(),
		Repetitions: 1000,
		Estimate:    est,
	}
	require.NoError(t, s.WriteEstimate(context.Background(), rec))
	require.NoError(t, s.WriteEstimate(context.Background(), rec))

	earlier := rec
	earlier.ID = "est-1"
	earlier.Seq = 3
	earlier.Estimate.Noise = ""
	require.NoError(t, s.WriteEstimate(context.Background(), earlier))

	got, err := s.ListEstimates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "est-1", got[0].ID)
	assert.Equal(t, rec, got[1])
}

func TestListRunsFilters(t *testing.T) {
	s := createTestStore(t)
	sim := newTestSimulator("a", "b", "c")
	q := ir.LineQubit(0)
	coin := ir.NewCircuit(q).Append(ir.H(q), ir.Measure("m", q))
	bell := testutil.BellMeasured()

	runAndWrite(t, s, sim, bell, 2, nil)
	runAndWrite(t, s, sim, coin, 2, nil)
	runAndWrite(t, s, sim, bell, 2, nil)

	bellHash := bell.MustFingerprint()
	ids := func(runs []RunSummary) []string {
		var out []string
		for _, r := range runs {
			out = append(out, r.RunID)
		}
		return out
	}

	tests := []struct {
		name    string
		filters []queryir.Predicate
		want    []string
	}{
		{"none", nil, []string{"a", "b", "c"}},
		{"circuit", []queryir.Predicate{queryir.Equals{Field: "circuit_hash", Value: ir.Str(bellHash)}}, []string{"a", "c"}},
		{"circuit prefix", []queryir.Predicate{queryir.Prefix{Field: "circuit_hash", Value: bellHash[:12]}}, []string{"a", "c"}},
		{"since", []queryir.Predicate{queryir.AtLeast{Field: "seq", Value: ir.Int(2)}}, []string{"b", "c"}},
		{"seed", []queryir.Predicate{queryir.Equals{Field: "seed", Value: ir.Str("42")}}, []string{"a", "b", "c"}},
		{
			"combined",
			[]queryir.Predicate{
				queryir.Equals{Field: "circuit_hash", Value: ir.Str(bellHash)},
				nil,
				queryir.AtLeast{Field: "seq", Value: ir.Int(2)},
			},
			[]string{"c"},
		},
		{"no match", []queryir.Predicate{queryir.Equals{Field: "backend", Value: ir.Str("density_matrix")}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.ListRuns(context.Background(), tt.filters...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(runs))
		})
	}
}

func TestListRejectsUnknownColumns(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ListRuns(context.Background(), queryir.Equals{Field: "circuit", Value: ir.Str("{}")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "circuit"`)

	_, err = s.ListEstimates(context.Background(), queryir.Equals{Field: "bits", Value: ir.Str("0")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "bits"`)
}

func TestListEstimatesFilters(t *testing.T) {
	s := createTestStore(t)
	for i, strategy := range []string{noise.StrategyMoment, noise.StrategyUnitary, noise.StrategyMoment} {
		require.NoError(t, s.WriteEstimate(context.Background(), EstimateRecord{
			ID:          fmt.Sprintf("est-%d", i),
			Seq:         int64(i + 1),
			CircuitHash: "h",
			Repetitions: 10,
			Estimate: zne.Estimate{
				Fit:      zne.Fit{RSquared: 1},
				Points:   []zne.Point{{Scale: 1, Value: 1}, {Scale: 3, Value: 1}},
				Strategy: strategy,
			},
		}))
	}

	got, err := s.ListEstimates(context.Background(), queryir.Equals{Field: "strategy", Value: ir.Str(noise.StrategyMoment)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "est-0", got[0].ID)
	assert.Equal(t, "est-2", got[1].ID)
}
