// Package register holds the quantum state of an n-qubit register.
//
// A Register starts as a normalized state vector over 2^n basis states and
// switches, permanently for its lifetime, to a 2^n×2^n density matrix the
// first time a noise channel is applied.
//
// Basis ordering is big-endian: register qubit 0 is the most significant
// bit of the basis index, so a basis index printed in binary reads in qubit
// order.
//
// Registers are not safe for concurrent use. The simulator allocates (or
// clones) one per repetition.
package register
