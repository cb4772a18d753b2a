package engine

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/gates"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// step is one operation resolved against a register layout and bindings.
type step struct {
	op      ir.Operation
	qubits  []int
	unitary *mat.CDense
	kraus   []*mat.CDense
}

// program is a circuit compiled for execution.
type program struct {
	qubits       []ir.Qubit
	moments      [][]step
	firstMeasure int
	noisy        bool
	keys         []string
	widths       map[string]int
}

// compile validates c and resolves every operation. Errors are returned
// before any state is allocated.
func compile(c ir.Circuit, bindings ir.Bindings) (*program, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := &program{
		qubits:       c.Qubits(),
		firstMeasure: c.Len(),
		noisy:        c.HasNoise(),
		keys:         c.MeasurementKeys(),
		widths:       make(map[string]int),
	}
	index := make(map[ir.Qubit]int, len(p.qubits))
	for i, q := range p.qubits {
		index[q] = i
	}

	for mi, m := range c.Moments() {
		ops := m.Operations()
		steps := make([]step, len(ops))
		for oi, op := range ops {
			st := step{op: op, qubits: make([]int, len(op.Qubits))}
			for j, q := range op.Qubits {
				st.qubits[j] = index[q]
			}
			var err error
			switch {
			case op.IsUnitary():
				st.unitary, err = gates.Unitary(op, bindings)
			case op.IsChannel():
				st.kraus, err = gates.Kraus(op, bindings)
			case op.IsMeasurement():
				p.widths[op.Key] += len(op.Qubits)
				if mi < p.firstMeasure {
					p.firstMeasure = mi
				}
			default:
				err = ir.NewUnknownGateError(op.Gate)
			}
			if err != nil {
				return nil, fmt.Errorf("moment %d: %w", mi, err)
			}
			steps[oi] = st
		}
		p.moments = append(p.moments, steps)
	}
	return p, nil
}

// measuredQubits returns every measured register position grouped by key in
// first-appearance order, operands in declared order.
func (p *program) measuredQubits() []int {
	var out []int
	for _, key := range p.keys {
		for _, m := range p.moments {
			for _, st := range m {
				if st.op.IsMeasurement() && st.op.Key == key {
					out = append(out, st.qubits...)
				}
			}
		}
	}
	return out
}
