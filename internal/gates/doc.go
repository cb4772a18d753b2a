// Package gates defines the fixed gate and channel catalog as matrices.
//
// Every function here is pure. Matrices are returned as fresh gonum
// mat.CDense values, so callers may keep or modify them freely.
//
// Multi-qubit matrices use big-endian operand order: for an operation on
// (a, b, ...), operand a is the most significant bit of the local basis
// index. CNOT(control, target) therefore acts on |control target⟩.
package gates
