package engine

import (
	"slices"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Distribution is an exact joint outcome distribution.
type Distribution struct {
	// Qubits lists the qubits in outcome bit order.
	Qubits []ir.Qubit `json:"qubits"`

	// Probabilities maps every bitstring over Qubits to its probability.
	Probabilities map[string]float64 `json:"probabilities"`
}

// Prob returns the probability of the outcome bitstring.
func (d Distribution) Prob(outcome string) float64 {
	return d.Probabilities[outcome]
}

// Outcomes returns every bitstring in ascending binary order.
func (d Distribution) Outcomes() []string {
	keys := make([]string, 0, len(d.Probabilities))
	for k := range d.Probabilities {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ExactDistribution evolves c without sampling and returns the exact joint
// distribution over its measured qubits, grouped by key in first-appearance
// order. A circuit without measurements yields the distribution over all
// of its qubits in layout order.
//
// Measurements must be terminal: no qubit is measured twice and no
// operation follows a measurement on the same qubit. Otherwise the result
// would depend on sampled outcomes, and INVALID_ARGUMENT is returned.
func (s *Simulator) ExactDistribution(c ir.Circuit, bindings ir.Bindings) (Distribution, error) {
	if err := terminalMeasurements(c); err != nil {
		return Distribution{}, err
	}
	prog, err := compile(c, bindings)
	if err != nil {
		return Distribution{}, err
	}
	backend, err := s.resolveBackend(prog)
	if err != nil {
		return Distribution{}, err
	}
	if err := s.checkQuota(len(prog.qubits), backend); err != nil {
		return Distribution{}, err
	}

	reg, err := newRegister(len(prog.qubits), backend)
	if err != nil {
		return Distribution{}, err
	}
	if err := evolve(reg, prog.moments, nil, nil); err != nil {
		return Distribution{}, err
	}

	measured := prog.measuredQubits()
	if len(measured) == 0 {
		for i := range prog.qubits {
			measured = append(measured, i)
		}
	}
	dist := Distribution{
		Qubits:        make([]ir.Qubit, len(measured)),
		Probabilities: make(map[string]float64, 1<<len(measured)),
	}
	for i, idx := range measured {
		dist.Qubits[i] = prog.qubits[idx]
	}
	if len(measured) == 0 {
		dist.Probabilities[""] = 1
		return dist, nil
	}

	probs, err := reg.Probabilities(measured)
	if err != nil {
		return Distribution{}, err
	}
	for l, p := range probs {
		o := make(Outcome, len(measured))
		for j := range o {
			o[j] = (l >> (len(measured) - 1 - j)) & 1
		}
		dist.Probabilities[o.String()] = p
	}
	return dist, nil
}

// terminalMeasurements rejects circuits whose outcome distribution depends
// on mid-circuit collapse.
func terminalMeasurements(c ir.Circuit) error {
	measured := make(map[ir.Qubit]bool)
	for _, m := range c.Moments() {
		for _, op := range m.Operations() {
			for _, q := range op.Qubits {
				if measured[q] {
					return ir.NewInvalidArgument("qubit %s is used after being measured; exact distribution needs terminal measurements", q)
				}
			}
		}
		for _, op := range m.Operations() {
			if op.IsMeasurement() {
				for _, q := range op.Qubits {
					measured[q] = true
				}
			}
		}
	}
	return nil
}
