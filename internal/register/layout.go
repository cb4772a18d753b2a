package register

import (
	"gonum.org/v1/gonum/mat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// targets describes where k operand qubits sit in a register basis index.
// bits[j] is the global bit of operand j, offsets[l] the global bit pattern
// of local index l, and mask covers every target bit.
type targets struct {
	bits    []int
	offsets []int
	mask    int
}

// local extracts the big-endian local index of global index g.
func (t *targets) local(g int) int {
	l := 0
	for _, bit := range t.bits {
		l <<= 1
		if g&bit != 0 {
			l |= 1
		}
	}
	return l
}

// localLayout maps a k-qubit operator onto register basis indices.
type localLayout struct {
	*targets
	full int
	size int
	u    []complex128
	buf  []complex128
}

// indices validates qubit indices: non-empty, in range and distinct.
func (r *Register) indices(qubits []int) (*targets, error) {
	k := len(qubits)
	if k == 0 {
		return nil, ir.NewDimensionError("no qubit indices given")
	}
	t := &targets{bits: make([]int, k), offsets: make([]int, 1<<k)}
	for j, q := range qubits {
		if q < 0 || q >= r.n {
			return nil, ir.NewDimensionError("qubit index %d out of range [0, %d)", q, r.n)
		}
		bit := 1 << (r.n - 1 - q)
		if t.mask&bit != 0 {
			return nil, ir.NewDimensionError("qubit index %d repeated", q)
		}
		t.mask |= bit
		t.bits[j] = bit
	}
	for l := range t.offsets {
		for j := 0; j < k; j++ {
			if (l>>(k-1-j))&1 == 1 {
				t.offsets[l] |= t.bits[j]
			}
		}
	}
	return t, nil
}

func (r *Register) layout(u mat.CMatrix, qubits []int) (*localLayout, error) {
	rows, cols := u.Dims()
	if rows != cols || rows != 1<<len(qubits) {
		return nil, ir.NewDimensionError("%dx%d operator does not act on %d qubit(s)", rows, cols, len(qubits))
	}
	t, err := r.indices(qubits)
	if err != nil {
		return nil, err
	}
	flat := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flat[i*cols+j] = u.At(i, j)
		}
	}
	return &localLayout{
		targets: t,
		full:    r.Dim(),
		size:    rows,
		u:       flat,
		buf:     make([]complex128, rows),
	}, nil
}

// apply multiplies the operator (or its elementwise conjugate) into the
// strided vector data[start + g*step] for every global index g.
func (l *localLayout) apply(data []complex128, start, step int, conj bool) {
	for base := 0; base < l.full; base++ {
		if base&l.mask != 0 {
			continue
		}
		for i, off := range l.offsets {
			l.buf[i] = data[start+(base|off)*step]
		}
		for i, off := range l.offsets {
			var sum complex128
			row := l.u[i*l.size : (i+1)*l.size]
			for j, a := range l.buf {
				m := row[j]
				if conj {
					m = cmplxConj(m)
				}
				sum += m * a
			}
			data[start+(base|off)*step] = sum
		}
	}
}
