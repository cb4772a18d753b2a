// Package ir provides the circuit representation shared by every other
// package: qubit labels, the closed gate catalog, operations, moments and
// immutable circuits, plus their canonical encoding.
//
// This package imports nothing internal. All other internal packages import
// ir; ir never imports them.
//
// Key design constraints:
//   - Circuits are values. Append, AppendMoment and Concatenate return new
//     circuits and never alias the receiver's moments.
//   - The gate catalog is closed. Unknown gate kinds are rejected with
//     an UNKNOWN_GATE error rather than dispatched dynamically.
//   - Canonical JSON carries no floats. Angles and probabilities are encoded
//     as shortest round-trip decimal strings.
//   - All JSON tags use snake_case.
package ir
