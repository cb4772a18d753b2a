package store

import (
	"context"
	"fmt"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// WriteRun records a run: its circuit, bindings, metadata and every
// measured outcome. Uses ON CONFLICT(id) DO NOTHING for idempotency;
// rewriting a recorded run id is a no-op.
func (s *Store) WriteRun(ctx context.Context, c ir.Circuit, res *engine.Results, bindings ir.Bindings) error {
	circuitJSON, err := ir.EncodeCircuit(c)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	hash, err := c.Fingerprint()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	bindingsJSON, err := ir.EncodeBindings(bindings)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	keys := res.Keys()
	keysJSON, err := marshalKeys(keys)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, circuit_hash, circuit, keys, repetitions, seed, backend, bindings, engine_version, encoding_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		res.RunID,
		res.Seq,
		hash,
		string(circuitJSON),
		keysJSON,
		res.Repetitions,
		formatSeed(res.Seed),
		string(res.Backend),
		string(bindingsJSON),
		ir.EngineVersion,
		ir.EncodingVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (run_id, key, repetition, bits)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare measurements: %w", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		outcomes, _ := res.Get(key)
		for rep, o := range outcomes {
			if _, err := stmt.ExecContext(ctx, res.RunID, key, rep, o.String()); err != nil {
				return fmt.Errorf("write run: measurement %s[%d]: %w", key, rep, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// EstimateRecord is a journaled zero-noise estimate.
type EstimateRecord struct {
	ID          string
	Seq         int64
	CircuitHash string
	Repetitions int
	Estimate    zne.Estimate
}

// WriteEstimate records a zero-noise estimate.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) WriteEstimate(ctx context.Context, rec EstimateRecord) error {
	pointsJSON, err := marshalPoints(rec.Estimate.Points)
	if err != nil {
		return fmt.Errorf("write estimate: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates
		(id, seq, circuit_hash, strategy, noise, repetitions, mitigated, slope, r_squared, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.CircuitHash,
		rec.Estimate.Strategy,
		rec.Estimate.Noise,
		rec.Repetitions,
		rec.Estimate.Mitigated,
		rec.Estimate.Fit.Slope,
		rec.Estimate.Fit.RSquared,
		pointsJSON,
	)
	if err != nil {
		return fmt.Errorf("write estimate: %w", err)
	}
	return nil
}
