// Package noise amplifies and injects noise in circuits.
//
// Folding inserts unitary operations followed by their inverses. The net
// action of the circuit is unchanged, but on noisy hardware (or under a
// noise Model) every inserted gate carries its own error, so the effective
// noise grows with the fold count.
//
// Two folding strategies exist:
//
//   - MomentFold (the default) folds every non-measurement moment in place,
//     floor((scale-1)*2) times. It is an approximate scheme: the realized
//     noise amplification is not exactly scale.
//   - UnitaryFold is global odd-integer folding: the unitary body U ahead of
//     the first measurement becomes U (U† U)^m with m = round((scale-1)/2).
//
// Channels are never folded and measurement moments are never touched.
package noise
