// Package store provides a SQLite-backed journal of simulation runs and
// zero-noise estimates.
//
// The journal is append-only:
//   - Runs: the circuit, bindings, seed, sequence number and back end of
//     every recorded run, enough to replay it exactly
//   - Measurements: one row per (run, key, repetition)
//   - Estimates: ZNE results with their fitted line and scale points
//
// # Invariants
//
// Logical time:
//   - All ordering uses seq INTEGER (the simulator's logical clock), never
//     timestamps
//
// Deterministic query results:
//   - All list queries include ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Idempotent writes:
//   - Writing a run or estimate whose id already exists is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Circuits and bindings are stored as canonical JSON (internal/ir/codec.go)
// and runs are indexed by the circuit fingerprint.
package store
