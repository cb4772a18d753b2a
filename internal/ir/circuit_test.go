package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMergesDisjointOperations(t *testing.T) {
	q0, q1, q2 := LineQubit(0), LineQubit(1), LineQubit(2)

	c := NewCircuit().Append(H(q0), H(q1), CNOT(q0, q1), X(q2))

	require.Equal(t, 2, c.Len())
	assert.Equal(t, []Operation{H(q0), H(q1)}, c.Moment(0).Operations())
	// X(q2) joins the CNOT moment because it only looks at the last moment.
	assert.Equal(t, []Operation{CNOT(q0, q1), X(q2)}, c.Moment(1).Operations())
	assert.Equal(t, 4, c.NumOperations())
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	q0, q1 := LineQubit(0), LineQubit(1)

	base := NewCircuit().Append(H(q0))
	a := base.Append(H(q1))
	b := base.Append(X(q1))

	assert.Equal(t, 1, base.Moment(0).Len())
	assert.Equal(t, []Operation{H(q0), H(q1)}, a.Moment(0).Operations())
	assert.Equal(t, []Operation{H(q0), X(q1)}, b.Moment(0).Operations())
}

func TestConcatenatePreservesOrder(t *testing.T) {
	a, b, c := NamedQubit("a"), NamedQubit("b"), NamedQubit("c")

	init := NewCircuit().Append(X(a), X(b))
	adder := NewCircuit().Append(CCNOT(a, b, c), CNOT(a, b))

	joined := init.Concatenate(adder)

	require.Equal(t, 3, joined.Len())
	assert.True(t, joined.Moment(0).Equal(init.Moment(0)))
	assert.True(t, joined.Moment(1).Equal(adder.Moment(0)))
	assert.True(t, joined.Moment(2).Equal(adder.Moment(1)))
	assert.Equal(t, 1, init.Len())
	assert.Equal(t, 2, adder.Len())
}

func TestConcatenateMergesDeclaredQubits(t *testing.T) {
	left := NewCircuit(LineQubit(0), LineQubit(1))
	right := NewCircuit(LineQubit(1), LineQubit(2))

	joined := left.Concatenate(right)
	assert.Equal(t, []Qubit{"q0", "q1", "q2"}, joined.DeclaredQubits())
	assert.Nil(t, NewCircuit().Concatenate(NewCircuit()).DeclaredQubits())
}

func TestAllQubitsNaturalOrder(t *testing.T) {
	c := NewCircuit().Append(H(LineQubit(10)), H(LineQubit(2)), X(NamedQubit("anc")))
	assert.Equal(t, []Qubit{"anc", "q2", "q10"}, c.AllQubits())
	assert.Equal(t, c.AllQubits(), c.Qubits())
}

func TestMomentRejectsSharedQubit(t *testing.T) {
	_, err := NewMoment(H(LineQubit(0)), CNOT(LineQubit(0), LineQubit(1)))
	require.Error(t, err)
	assert.True(t, IsQubitIndexError(err))
}

func TestMomentOperationsAreCopies(t *testing.T) {
	m := MustMoment(CNOT(LineQubit(0), LineQubit(1)))
	ops := m.Operations()
	ops[0].Qubits[0] = "tampered"
	assert.Equal(t, Qubit("q0"), m.Operations()[0].Qubits[0])
}

func TestValidateUndeclaredQubit(t *testing.T) {
	c := NewCircuit(LineQubits(4)...).Append(H(LineQubit(0)), X(LineQubit(5)))

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, IsQubitIndexError(err))
	assert.Contains(t, err.Error(), "q5")
}

func TestValidateOperations(t *testing.T) {
	tests := []struct {
		name  string
		op    Operation
		check func(error) bool
	}{
		{"unknown gate", Operation{Gate: "SWAP", Qubits: []Qubit{"q0", "q1"}}, IsUnknownGateError},
		{"wrong arity", Operation{Gate: GateCNOT, Qubits: []Qubit{"q0"}}, IsDimensionError},
		{"duplicate operand", Operation{Gate: GateCNOT, Qubits: []Qubit{"q0", "q0"}}, IsQubitIndexError},
		{"empty measurement", Operation{Gate: GateMeasure, Key: "m"}, IsDimensionError},
		{"probability out of range", Depolarize(1.5, "q0"), IsInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCircuit().AppendMoment(Moment{ops: []Operation{tt.op}}).Validate()
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestMeasureDefaultKey(t *testing.T) {
	op := Measure("", LineQubit(0), LineQubit(1))
	assert.Equal(t, "q0,q1", op.Key)
	assert.Equal(t, "MEASURE[q0,q1](q0,q1)", op.String())
}

func TestMeasurementKeysFirstAppearance(t *testing.T) {
	q0, q1 := LineQubit(0), LineQubit(1)
	c := NewCircuit().Append(Measure("b", q1), Measure("a", q0), H(q0), Measure("b", q0))
	assert.Equal(t, []string{"b", "a"}, c.MeasurementKeys())
	assert.True(t, c.HasMeasurements())
	assert.False(t, c.HasNoise())
}

func TestParamResolve(t *testing.T) {
	v, err := Symbol("theta").Resolve(Bindings{"theta": 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	v, err = Symbol("theta").Negate().Resolve(Bindings{"theta": 0.25})
	require.NoError(t, err)
	assert.Equal(t, -0.25, v)

	_, err = Symbol("phi").Resolve(Bindings{"theta": 0.25})
	assert.True(t, IsInvalidArgument(err))

	assert.Equal(t, Literal(-1.5), Literal(1.5).Negate())
}

func TestParseGateKind(t *testing.T) {
	k, err := ParseGateKind("toffoli")
	require.NoError(t, err)
	assert.Equal(t, GateCCNOT, k)

	k, err = ParseGateKind("cx")
	require.NoError(t, err)
	assert.Equal(t, GateCNOT, k)

	_, err = ParseGateKind("SWAP")
	assert.True(t, IsUnknownGateError(err))
}
