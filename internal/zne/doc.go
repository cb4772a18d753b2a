// Package zne implements Zero Noise Extrapolation.
//
// An Estimator folds a circuit at several scale factors, optionally applies
// a noise model to each folded circuit, simulates it and reduces the
// Results to one scalar per scale. A least-squares line through the
// (scale, value) points is evaluated at scale 0 to give the mitigated
// estimate.
//
// The regression is deterministic. The only randomness is the simulator's
// sampling, which is seeded: with the same Simulator seed and clock, an
// estimate is reproducible. In parallel mode each scale runs on a child
// simulator derived from its index, so results do not depend on goroutine
// scheduling.
package zne
