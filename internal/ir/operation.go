package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operation is a gate, channel or measurement applied to ordered qubit
// operands. Param is used by RZ (angle) and DEPOLARIZE (probability);
// Key names the bucket a measurement records into.
type Operation struct {
	Gate   GateKind
	Qubits []Qubit
	Param  Param
	Key    string
}

// H returns a Hadamard on q.
func H(q Qubit) Operation {
	return Operation{Gate: GateH, Qubits: []Qubit{q}}
}

// X returns a Pauli-X on q.
func X(q Qubit) Operation {
	return Operation{Gate: GateX, Qubits: []Qubit{q}}
}

// CNOT returns a controlled-NOT with the given control and target.
func CNOT(control, target Qubit) Operation {
	return Operation{Gate: GateCNOT, Qubits: []Qubit{control, target}}
}

// CCNOT returns a Toffoli with two controls and a target.
func CCNOT(c1, c2, target Qubit) Operation {
	return Operation{Gate: GateCCNOT, Qubits: []Qubit{c1, c2, target}}
}

// RZ returns diag(1, e^{iθ}) on q with a literal angle.
func RZ(theta float64, q Qubit) Operation {
	return Operation{Gate: GateRZ, Qubits: []Qubit{q}, Param: Literal(theta)}
}

// RZSymbol returns an RZ whose angle is bound at run time under symbol.
func RZSymbol(symbol string, q Qubit) Operation {
	return Operation{Gate: GateRZ, Qubits: []Qubit{q}, Param: Symbol(symbol)}
}

// Depolarize returns a depolarizing channel with probability p on q.
func Depolarize(p float64, q Qubit) Operation {
	return Operation{Gate: GateDepolarize, Qubits: []Qubit{q}, Param: Literal(p)}
}

// Measure returns a joint measurement of qs recorded under key. An empty
// key defaults to the operand names joined by commas.
func Measure(key string, qs ...Qubit) Operation {
	operands := make([]Qubit, len(qs))
	copy(operands, qs)
	if key == "" {
		key = joinQubits(operands)
	}
	return Operation{Gate: GateMeasure, Qubits: operands, Key: key}
}

// IsMeasurement reports whether op is a measurement.
func (op Operation) IsMeasurement() bool {
	return op.Gate == GateMeasure
}

// IsUnitary reports whether op is a unitary gate.
func (op Operation) IsUnitary() bool {
	return op.Gate.IsUnitary()
}

// IsChannel reports whether op is a noise channel.
func (op Operation) IsChannel() bool {
	return op.Gate.IsChannel()
}

// Validate checks op against the catalog: known kind, operand count,
// distinct operands, and parameter range where it is known statically.
func (op Operation) Validate() error {
	if !op.Gate.Known() {
		return NewUnknownGateError(op.Gate)
	}
	arity := op.Gate.Arity()
	if arity > 0 && len(op.Qubits) != arity {
		return NewDimensionError("%s takes %d qubit(s), got %d", op.Gate, arity, len(op.Qubits))
	}
	if len(op.Qubits) == 0 {
		return NewDimensionError("%s has no qubit operands", op.Gate)
	}
	seen := make(map[Qubit]bool, len(op.Qubits))
	for _, q := range op.Qubits {
		if q == "" {
			return NewQubitIndexError(q, "%s has an empty qubit label", op.Gate)
		}
		if seen[q] {
			return NewQubitIndexError(q, "%s references qubit %s twice", op.Gate, q)
		}
		seen[q] = true
	}
	if op.Gate == GateMeasure && op.Key == "" {
		return NewInvalidArgument("measurement on %s has an empty key", joinQubits(op.Qubits))
	}
	if op.Gate == GateDepolarize && !op.Param.IsSymbolic() {
		if p := op.Param.Value; math.IsNaN(p) || p < 0 || p > 1 {
			return NewInvalidArgument("depolarizing probability %v outside [0, 1]", p)
		}
	}
	return nil
}

// Clone returns a deep copy of op.
func (op Operation) Clone() Operation {
	out := op
	out.Qubits = make([]Qubit, len(op.Qubits))
	copy(out.Qubits, op.Qubits)
	return out
}

// Equal reports whether op and other are structurally identical.
func (op Operation) Equal(other Operation) bool {
	if op.Gate != other.Gate || op.Key != other.Key || op.Param != other.Param {
		return false
	}
	if len(op.Qubits) != len(other.Qubits) {
		return false
	}
	for i := range op.Qubits {
		if op.Qubits[i] != other.Qubits[i] {
			return false
		}
	}
	return true
}

// String renders op as e.g. "CNOT(q0,q1)", "RZ(0.5)(q0)" or "MEASURE[m](q0,q1)".
func (op Operation) String() string {
	var b strings.Builder
	b.WriteString(string(op.Gate))
	if op.Gate.Parametrized() {
		fmt.Fprintf(&b, "(%s)", op.Param)
	}
	if op.IsMeasurement() {
		fmt.Fprintf(&b, "[%s]", op.Key)
	}
	fmt.Fprintf(&b, "(%s)", joinQubits(op.Qubits))
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
