package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/testutil"
)

func compileNamed(t *testing.T, src, name string) (*Program, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileCircuit(v.LookupPath(cue.ParsePath("circuit." + name)))
}

const halfAdderSource = `
circuit: half_adder: {
	qubits: ["a", "b", "sum", "carry"]
	ops: [
		{gate: "CNOT", on: ["a", "sum"]},
		{gate: "CNOT", on: ["b", "sum"]},
		{gate: "TOFFOLI", on: ["a", "b", "carry"]},
		{gate: "MEASURE", on: ["sum"], key: "sum"},
		{gate: "MEASURE", on: ["carry"], key: "carry"},
	]
}
`

func TestCompileCircuitHalfAdder(t *testing.T) {
	prog, err := compileNamed(t, halfAdderSource, "half_adder")
	require.NoError(t, err)

	assert.Equal(t, "half_adder", prog.Name)
	assert.True(t, prog.Circuit.Equal(testutil.HalfAdder()))
	assert.Nil(t, prog.Params)
	assert.Empty(t, Validate(prog))
}

func TestCompileCircuitParamsAndSymbols(t *testing.T) {
	src := `
circuit: variational: {
	qubits: 2
	ops: [
		{gate: "H", on: ["q0"]},
		{gate: "h", on: ["q1"]},
		{gate: "CX", on: ["q0", "q1"]},
		{gate: "RZ", on: ["q0"], symbol: "theta"},
		{gate: "RZ", on: ["q1"], angle: 0.25},
		{gate: "M", on: ["q0", "q1"]},
	]
	params: {theta: 1}
}
`
	prog, err := compileNamed(t, src, "variational")
	require.NoError(t, err)

	assert.Equal(t, ir.LineQubits(2), prog.Circuit.DeclaredQubits())
	assert.Equal(t, ir.Bindings{"theta": 1}, prog.Params)

	ops := prog.Circuit.Operations()
	require.Len(t, ops, 6)
	assert.Equal(t, ir.GateH, ops[1].Gate)
	assert.Equal(t, ir.GateCNOT, ops[2].Gate)
	assert.Equal(t, ir.Symbol("theta"), ops[3].Param)
	assert.Equal(t, ir.Literal(0.25), ops[4].Param)
	assert.Equal(t, "q0,q1", ops[5].Key)

	b := prog.Bindings(ir.Bindings{"phi": 2})
	assert.Equal(t, ir.Bindings{"theta": 1, "phi": 2}, b)
	b = prog.Bindings(ir.Bindings{"theta": 3})
	assert.Equal(t, 3.0, b["theta"])
	assert.Equal(t, 1.0, prog.Params["theta"])
}

func TestCompileCircuitExplicitMoments(t *testing.T) {
	src := `
circuit: noisy: {
	qubits: ["q0"]
	moments: [
		[{gate: "X", on: ["q0"]}],
		[{gate: "DEPOLARIZE", on: ["q0"], p: 0.1}],
		[{gate: "MEASURE", on: ["q0"], key: "m"}],
	]
}
`
	prog, err := compileNamed(t, src, "noisy")
	require.NoError(t, err)
	require.Equal(t, 3, prog.Circuit.Len())
	assert.True(t, prog.Circuit.HasNoise())
	assert.Equal(t, []string{"m"}, prog.Circuit.MeasurementKeys())
}

func TestCompileCircuitStructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no ops", `qubits: 1`, "ops"},
		{"both forms", `ops: [], moments: []`, "ops"},
		{"missing gate", `ops: [{on: ["q0"]}]`, "ops[0].gate"},
		{"missing on", `ops: [{gate: "H"}]`, "ops[0].on"},
		{"rz without angle", `ops: [{gate: "RZ", on: ["q0"]}]`, "ops[0].angle"},
		{"rz angle and symbol", `ops: [{gate: "RZ", on: ["q0"], angle: 1, symbol: "t"}]`, "ops[0].angle"},
		{"depolarize without p", `ops: [{gate: "DEPOLARIZE", on: ["q0"]}]`, "ops[0].p"},
		{"shared qubit in moment", `moments: [[{gate: "H", on: ["q0"]}, {gate: "X", on: ["q0"]}]]`, "moments[0]"},
		{"qubits wrong kind", `qubits: true, ops: []`, "qubits"},
		{"on not a list", `ops: [{gate: "H", on: "q0"}]`, "ops[0].on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileNamed(t, "circuit: c: {"+tt.body+"}", "c")
			require.Error(t, err)
			var ce *CompileError
			require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileCircuitKeepsUnknownGateForValidate(t *testing.T) {
	prog, err := compileNamed(t, `circuit: c: {ops: [{gate: "swap", on: ["q0", "q1"]}]}`, "c")
	require.NoError(t, err)

	errs := Validate(prog)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownGate, errs[0].Code)
	assert.Contains(t, errs[0].Message, "SWAP")
}

func TestCompileAllCollectsErrors(t *testing.T) {
	src := `
circuit: good: {ops: [{gate: "H", on: ["q0"]}]}
circuit: bad: {ops: [{on: ["q0"]}]}
`
	ctx := cuecontext.New()
	progs, errs := CompileAll(ctx.CompileString(src))
	require.Len(t, progs, 1)
	assert.Equal(t, "good", progs[0].Name)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "circuit.bad")
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	bell := filepath.Join(dir, "bell.cue")
	adder := filepath.Join(dir, "adder.cue")
	require.NoError(t, os.WriteFile(bell, []byte(`
circuit: bell: {
	qubits: 2
	ops: [
		{gate: "H", on: ["q0"]},
		{gate: "CNOT", on: ["q0", "q1"]},
	]
}
`), 0o644))
	require.NoError(t, os.WriteFile(adder, []byte(halfAdderSource), 0o644))

	progs, err := CompileFiles(bell, adder)
	require.NoError(t, err)
	require.Len(t, progs, 2)

	p, ok := Find(progs, "bell")
	require.True(t, ok)
	assert.True(t, p.Circuit.Equal(testutil.Bell()))

	_, ok = Find(progs, "missing")
	assert.False(t, ok)

	_, err = CompileFiles(filepath.Join(dir, "nope.cue"))
	assert.Error(t, err)
}

func TestCompileErrorFormatting(t *testing.T) {
	e := &CompileError{Field: "ops", Message: "bad"}
	assert.Equal(t, "ops: bad", e.Error())
}
