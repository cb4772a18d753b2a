package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/queryir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// RunSummary is a journaled run without its outcomes.
type RunSummary struct {
	engine.RunInfo
	CircuitHash string
}

// RunRecord is a fully decoded journaled run.
type RunRecord struct {
	RunSummary
	Circuit  ir.Circuit
	Bindings ir.Bindings
	Results  *engine.Results
}

// ReadRun loads a run and rebuilds its Results.
// Returns ErrNotFound if no run has the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (*RunRecord, error) {
	var (
		rec                                   RunRecord
		circuitJSON, keysJSON, seed, bindings string
		backend                               string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, circuit_hash, circuit, keys, repetitions, seed, backend, bindings
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&rec.RunID,
		&rec.Seq,
		&rec.CircuitHash,
		&circuitJSON,
		&keysJSON,
		&rec.Repetitions,
		&seed,
		&backend,
		&bindings,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	rec.Backend = engine.Backend(backend)
	if rec.Seed, err = parseSeed(seed); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if rec.Circuit, err = ir.DecodeCircuit([]byte(circuitJSON)); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if rec.Bindings, err = ir.DecodeBindings([]byte(bindings)); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	keys, err := unmarshalKeys(keysJSON)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	records, err := s.readMeasurements(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	rec.Results, err = engine.NewResults(rec.RunInfo, keys, records)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	return &rec, nil
}

func (s *Store) readMeasurements(ctx context.Context, runID string) (map[string][]engine.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, repetition, bits
		FROM measurements
		WHERE run_id = ?
		ORDER BY key COLLATE BINARY ASC, repetition ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	records := make(map[string][]engine.Outcome)
	for rows.Next() {
		var (
			key  string
			rep  int
			bits string
		)
		if err := rows.Scan(&key, &rep, &bits); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		if rep != len(records[key]) {
			return nil, fmt.Errorf("measurement %s: repetition %d missing", key, len(records[key]))
		}
		o, err := engine.ParseOutcome(bits)
		if err != nil {
			return nil, fmt.Errorf("measurement %s[%d]: %w", key, rep, err)
		}
		records[key] = append(records[key], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return records, nil
}

// ListRuns returns the journaled runs matching every filter, in
// logical-clock order. No filters lists every run.
func (s *Store) ListRuns(ctx context.Context, filters ...queryir.Predicate) ([]RunSummary, error) {
	rows, err := s.query(ctx, queryir.Select{
		From:    "runs",
		Columns: []string{"id", "seq", "circuit_hash", "repetitions", "seed", "backend"},
		Filter:  queryir.All(filters...),
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r             RunSummary
			seed, backend string
		)
		if err := rows.Scan(&r.RunID, &r.Seq, &r.CircuitHash, &r.Repetitions, &seed, &backend); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if r.Seed, err = parseSeed(seed); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.Backend = engine.Backend(backend)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListEstimates returns the journaled estimates matching every filter, in
// logical-clock order.
func (s *Store) ListEstimates(ctx context.Context, filters ...queryir.Predicate) ([]EstimateRecord, error) {
	rows, err := s.query(ctx, queryir.Select{
		From: "estimates",
		Columns: []string{
			"id", "seq", "circuit_hash", "strategy", "noise", "repetitions",
			"mitigated", "slope", "r_squared", "points",
		},
		Filter: queryir.All(filters...),
	})
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	var out []EstimateRecord
	for rows.Next() {
		var (
			rec    EstimateRecord
			est    zne.Estimate
			points string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Seq,
			&rec.CircuitHash,
			&est.Strategy,
			&est.Noise,
			&rec.Repetitions,
			&est.Mitigated,
			&est.Fit.Slope,
			&est.Fit.RSquared,
			&points,
		); err != nil {
			return nil, fmt.Errorf("list estimates: scan: %w", err)
		}
		if est.Points, err = unmarshalPoints(points); err != nil {
			return nil, fmt.Errorf("list estimates: %w", err)
		}
		est.Fit.Intercept = est.Mitigated
		rec.Estimate = est
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	return out, nil
}
