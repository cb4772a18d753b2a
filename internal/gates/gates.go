package gates

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Identity returns the 2^k×2^k identity.
func Identity(k int) *mat.CDense {
	dim := 1 << k
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Hadamard returns (1/√2)[[1,1],[1,-1]].
func Hadamard() *mat.CDense {
	s := complex(1/math.Sqrt2, 0)
	return mat.NewCDense(2, 2, []complex128{s, s, s, -s})
}

// PauliX returns [[0,1],[1,0]].
func PauliX() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
}

// PauliY returns [[0,-i],[i,0]].
func PauliY() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
}

// PauliZ returns [[1,0],[0,-1]].
func PauliZ() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
}

// RZ returns diag(1, e^{iθ}).
func RZ(theta float64) *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{1, 0, 0, cmplx.Exp(complex(0, theta))})
}

// CNOT returns the controlled-NOT on |control target⟩.
func CNOT() *mat.CDense {
	return controlledX(2)
}

// CCNOT returns the Toffoli gate on |c1 c2 target⟩.
func CCNOT() *mat.CDense {
	return controlledX(3)
}

// controlledX flips the least significant operand when every other
// operand is 1: identity with the last two basis states swapped.
func controlledX(k int) *mat.CDense {
	m := Identity(k)
	dim := 1 << k
	m.Set(dim-2, dim-2, 0)
	m.Set(dim-1, dim-1, 0)
	m.Set(dim-2, dim-1, 1)
	m.Set(dim-1, dim-2, 1)
	return m
}

// DepolarizingKraus returns {√(1-p)·I, √(p/3)·X, √(p/3)·Y, √(p/3)·Z}.
// p must lie in [0, 1].
func DepolarizingKraus(p float64) ([]*mat.CDense, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, ir.NewInvalidArgument("depolarizing probability %v outside [0, 1]", p)
	}
	ops := []*mat.CDense{Identity(1), PauliX(), PauliY(), PauliZ()}
	weights := []float64{math.Sqrt(1 - p), math.Sqrt(p / 3), math.Sqrt(p / 3), math.Sqrt(p / 3)}
	for i, k := range ops {
		scale(k, weights[i])
	}
	return ops, nil
}

func scale(m *mat.CDense, f float64) {
	raw := m.RawCMatrix()
	for i := range raw.Data {
		raw.Data[i] *= complex(f, 0)
	}
}

// Unitary returns the matrix of a unitary operation, resolving a symbolic
// RZ angle from bindings.
func Unitary(op ir.Operation, bindings ir.Bindings) (*mat.CDense, error) {
	switch op.Gate {
	case ir.GateH:
		return Hadamard(), nil
	case ir.GateX:
		return PauliX(), nil
	case ir.GateCNOT:
		return CNOT(), nil
	case ir.GateCCNOT:
		return CCNOT(), nil
	case ir.GateRZ:
		theta, err := op.Param.Resolve(bindings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return RZ(theta), nil
	case ir.GateDepolarize, ir.GateMeasure:
		return nil, ir.NewInvalidArgument("%s is not a unitary gate", op.Gate)
	}
	return nil, ir.NewUnknownGateError(op.Gate)
}

// Kraus returns the Kraus operators of a channel operation.
func Kraus(op ir.Operation, bindings ir.Bindings) ([]*mat.CDense, error) {
	switch op.Gate {
	case ir.GateDepolarize:
		p, err := op.Param.Resolve(bindings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return DepolarizingKraus(p)
	case ir.GateH, ir.GateX, ir.GateCNOT, ir.GateCCNOT, ir.GateRZ, ir.GateMeasure:
		return nil, ir.NewInvalidArgument("%s is not a channel", op.Gate)
	}
	return nil, ir.NewUnknownGateError(op.Gate)
}

// Inverse returns the inverse of a unitary operation. H, X, CNOT and CCNOT
// are self-inverse; RZ negates its angle. Channels and measurements have no
// inverse.
func Inverse(op ir.Operation) (ir.Operation, error) {
	switch op.Gate {
	case ir.GateH, ir.GateX, ir.GateCNOT, ir.GateCCNOT:
		return op.Clone(), nil
	case ir.GateRZ:
		inv := op.Clone()
		inv.Param = op.Param.Negate()
		return inv, nil
	case ir.GateDepolarize, ir.GateMeasure:
		return ir.Operation{}, ir.NewInvalidArgument("%s has no inverse", op.Gate)
	}
	return ir.Operation{}, ir.NewUnknownGateError(op.Gate)
}

// Dagger returns the conjugate transpose of m as a new matrix.
func Dagger(m mat.CMatrix) *mat.CDense {
	r, c := m.Dims()
	out := mat.NewCDense(c, r, nil)
	out.Copy(m.H())
	return out
}

// Mul returns the product a·b. It panics on a shape mismatch, like the
// gonum real-valued Mul.
func Mul(a, b mat.CMatrix) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(mat.ErrShape)
	}
	out := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// IsUnitary reports whether u·u† equals the identity within tol.
func IsUnitary(u mat.CMatrix, tol float64) bool {
	r, c := u.Dims()
	if r != c {
		return false
	}
	k := 0
	for 1<<k < r {
		k++
	}
	if 1<<k != r {
		return false
	}
	return mat.CEqualApprox(Mul(u, u.H()), Identity(k), tol)
}

// KrausComplete reports whether Σ K†K equals the identity within tol.
func KrausComplete(kraus []*mat.CDense, tol float64) bool {
	if len(kraus) == 0 {
		return false
	}
	r, _ := kraus[0].Dims()
	sum := mat.NewCDense(r, r, nil)
	for _, k := range kraus {
		kk := Mul(k.H(), k)
		for i := 0; i < r; i++ {
			for j := 0; j < r; j++ {
				sum.Set(i, j, sum.At(i, j)+kk.At(i, j))
			}
		}
	}
	k := 0
	for 1<<k < r {
		k++
	}
	return mat.CEqualApprox(sum, Identity(k), tol)
}
