package testutil

import (
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Bell returns H(q0), CNOT(q0, q1) with no measurements.
func Bell() ir.Circuit {
	q0, q1 := ir.LineQubit(0), ir.LineQubit(1)
	return ir.NewCircuit(q0, q1).Append(ir.H(q0), ir.CNOT(q0, q1))
}

// BellMeasured returns Bell followed by single-qubit measurements keyed
// "q0" and "q1".
func BellMeasured() ir.Circuit {
	q0, q1 := ir.LineQubit(0), ir.LineQubit(1)
	return Bell().Append(ir.Measure("q0", q0), ir.Measure("q1", q1))
}

// HalfAdderQubits are the named qubits of HalfAdder.
var HalfAdderQubits = struct {
	A, B, Sum, Carry ir.Qubit
}{
	A:     ir.NamedQubit("a"),
	B:     ir.NamedQubit("b"),
	Sum:   ir.NamedQubit("sum"),
	Carry: ir.NamedQubit("carry"),
}

// HalfAdder returns the two-bit adder: sum = a XOR b, carry = a AND b,
// measured under keys "sum" and "carry".
func HalfAdder() ir.Circuit {
	q := HalfAdderQubits
	return ir.NewCircuit(q.A, q.B, q.Sum, q.Carry).Append(
		ir.CNOT(q.A, q.Sum),
		ir.CNOT(q.B, q.Sum),
		ir.CCNOT(q.A, q.B, q.Carry),
		ir.Measure("sum", q.Sum),
		ir.Measure("carry", q.Carry),
	)
}

// HalfAdderInputs returns an X preparation for the given input bits,
// concatenated ahead of HalfAdder.
func HalfAdderInputs(a, b int) ir.Circuit {
	q := HalfAdderQubits
	init := ir.NewCircuit()
	if a == 1 {
		init = init.Append(ir.X(q.A))
	}
	if b == 1 {
		init = init.Append(ir.X(q.B))
	}
	return init.Concatenate(HalfAdder())
}

// Variational returns H on both qubits, CNOT, RZ(theta) on q0 and a joint
// measurement keyed "result".
func Variational() ir.Circuit {
	q0, q1 := ir.LineQubit(0), ir.LineQubit(1)
	return ir.NewCircuit(q0, q1).Append(
		ir.H(q0), ir.H(q1),
		ir.CNOT(q0, q1),
		ir.RZSymbol("theta", q0),
		ir.Measure("result", q0, q1),
	)
}

// Interferometer returns H, RZ(theta), H on one qubit, measured under "m".
// P(1) = sin²(θ/2).
func Interferometer() ir.Circuit {
	q := ir.LineQubit(0)
	return ir.NewCircuit(q).Append(ir.H(q), ir.RZSymbol("theta", q), ir.H(q), ir.Measure("m", q))
}
