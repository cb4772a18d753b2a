// Package engine runs circuits against a quantum register.
//
// A Simulator owns its random source and its logical clock. Each call to Run
// takes the next clock value as the run's sequence number and samples from
// a PCG stream seeded by (seed, seq), so a run is reproducible from the
// seed and sequence number recorded on its Results.
//
// Run Lifecycle:
//
//  1. The circuit is validated and compiled: qubits are mapped to register
//     positions in layout order and every gate matrix is resolved against
//     the parameter bindings.
//  2. The deterministic prefix (every moment before the first measurement)
//     is evolved once.
//  3. Each repetition clones the prefix state and replays the remaining
//     moments, sampling measurements jointly and collapsing the state.
//  4. Outcomes are collected per measurement key into Results.
//
// Two back ends exist. The state-vector back end is used when the circuit
// contains no noise channel; the density-matrix back end is used otherwise.
// Both produce the same statistics for noiseless circuits.
//
// The context is checked between repetitions. A cancelled run returns the
// context error and no partial Results.
package engine
