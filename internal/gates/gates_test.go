package gates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

const tol = 1e-12

func TestCatalogIsUnitary(t *testing.T) {
	q0, q1, q2 := ir.LineQubit(0), ir.LineQubit(1), ir.LineQubit(2)
	ops := []ir.Operation{
		ir.H(q0),
		ir.X(q0),
		ir.CNOT(q0, q1),
		ir.CCNOT(q0, q1, q2),
		ir.RZ(0.7, q0),
		ir.RZSymbol("theta", q0),
	}

	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			u, err := Unitary(op, ir.Bindings{"theta": -2.1})
			require.NoError(t, err)
			r, _ := u.Dims()
			assert.Equal(t, 1<<len(op.Qubits), r)
			assert.True(t, IsUnitary(u, tol))
		})
	}
}

func TestInverseUndoesGate(t *testing.T) {
	q0, q1, q2 := ir.LineQubit(0), ir.LineQubit(1), ir.LineQubit(2)
	bindings := ir.Bindings{"theta": 1.234}
	ops := []ir.Operation{
		ir.H(q0),
		ir.X(q0),
		ir.CNOT(q0, q1),
		ir.CCNOT(q0, q1, q2),
		ir.RZ(math.Pi/3, q0),
		ir.RZSymbol("theta", q0),
	}

	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			inv, err := Inverse(op)
			require.NoError(t, err)

			u, err := Unitary(op, bindings)
			require.NoError(t, err)
			v, err := Unitary(inv, bindings)
			require.NoError(t, err)

			assert.True(t, mat.CEqualApprox(Mul(v, u), Identity(len(op.Qubits)), tol))
		})
	}
}

func TestInverseRejectsChannelsAndMeasurement(t *testing.T) {
	_, err := Inverse(ir.Depolarize(0.1, "q0"))
	assert.True(t, ir.IsInvalidArgument(err))

	_, err = Inverse(ir.Measure("m", "q0"))
	assert.True(t, ir.IsInvalidArgument(err))

	_, err = Inverse(ir.Operation{Gate: "SWAP"})
	assert.True(t, ir.IsUnknownGateError(err))
}

func TestRZIsDiagonalPhase(t *testing.T) {
	u := RZ(math.Pi)
	assert.Equal(t, complex128(1), u.At(0, 0))
	assert.InDelta(t, -1, real(u.At(1, 1)), tol)
	assert.InDelta(t, 0, imag(u.At(1, 1)), tol)
	assert.Equal(t, complex128(0), u.At(0, 1))
}

func TestCNOTFlipsTargetWhenControlSet(t *testing.T) {
	u := CNOT()
	// |10⟩ (index 2) maps to |11⟩ (index 3).
	assert.Equal(t, complex128(1), u.At(3, 2))
	assert.Equal(t, complex128(1), u.At(2, 3))
	assert.Equal(t, complex128(1), u.At(0, 0))
	assert.Equal(t, complex128(1), u.At(1, 1))
}

func TestDepolarizingKraus(t *testing.T) {
	for _, p := range []float64{0, 0.01, 0.5, 1} {
		kraus, err := DepolarizingKraus(p)
		require.NoError(t, err)
		require.Len(t, kraus, 4)
		assert.True(t, KrausComplete(kraus, 1e-12), "p=%v", p)
	}

	kraus, err := DepolarizingKraus(0)
	require.NoError(t, err)
	assert.True(t, mat.CEqualApprox(kraus[0], Identity(1), tol))
	assert.True(t, mat.CEqualApprox(kraus[1], mat.NewCDense(2, 2, nil), tol))

	_, err = DepolarizingKraus(-0.1)
	assert.True(t, ir.IsInvalidArgument(err))
	_, err = DepolarizingKraus(math.NaN())
	assert.True(t, ir.IsInvalidArgument(err))
}

func TestUnitaryErrors(t *testing.T) {
	_, err := Unitary(ir.RZSymbol("phi", "q0"), nil)
	assert.True(t, ir.IsInvalidArgument(err))

	_, err = Unitary(ir.Operation{Gate: "SWAP"}, nil)
	assert.True(t, ir.IsUnknownGateError(err))

	_, err = Unitary(ir.Depolarize(0.1, "q0"), nil)
	assert.True(t, ir.IsInvalidArgument(err))

	_, err = Kraus(ir.H("q0"), nil)
	assert.True(t, ir.IsInvalidArgument(err))
}

func TestDagger(t *testing.T) {
	u := mat.NewCDense(2, 2, []complex128{1, 2i, 3, 4 - 1i})
	d := Dagger(u)
	assert.Equal(t, complex128(1), d.At(0, 0))
	assert.Equal(t, complex128(3), d.At(0, 1))
	assert.Equal(t, complex128(-2i), d.At(1, 0))
	assert.Equal(t, complex128(4+1i), d.At(1, 1))
}
