package register

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

const (
	// ProbabilityFloor is the magnitude below which a basis probability is
	// treated as exactly zero.
	ProbabilityFloor = 1e-12

	// NormTolerance bounds the drift of the vector norm or the density
	// trace from 1 after any update.
	NormTolerance = 1e-6

	// MaxVectorQubits is the largest register the vector representation accepts.
	MaxVectorQubits = 30

	// MaxDensityQubits is the largest register that can convert to a
	// density matrix.
	MaxDensityQubits = 14
)

// Register is the state of n qubits: a vector, or a density matrix once any
// channel has been applied.
type Register struct {
	n       int
	vec     []complex128
	rho     *mat.CDense
	clamped int
}

// New returns an n-qubit register in |0…0⟩.
func New(n int) (*Register, error) {
	if n < 0 || n > MaxVectorQubits {
		return nil, ir.NewDimensionError("register size %d outside [0, %d]", n, MaxVectorQubits)
	}
	vec := make([]complex128, 1<<n)
	vec[0] = 1
	return &Register{n: n, vec: vec}, nil
}

// NumQubits returns n.
func (r *Register) NumQubits() int {
	return r.n
}

// Dim returns 2^n.
func (r *Register) Dim() int {
	return 1 << r.n
}

// IsDensity reports whether the register holds a density matrix.
func (r *Register) IsDensity() bool {
	return r.rho != nil
}

// Clamped returns how many basis probabilities have been clamped to zero
// by ProbabilityFloor. Clamping is a numerical correction, not an error.
func (r *Register) Clamped() int {
	return r.clamped
}

// Amplitudes returns a copy of the state vector, or nil once the register
// holds a density matrix.
func (r *Register) Amplitudes() []complex128 {
	if r.rho != nil {
		return nil
	}
	out := make([]complex128, len(r.vec))
	copy(out, r.vec)
	return out
}

// Density returns a copy of the density matrix. On the vector path it
// returns the pure-state projector |ψ⟩⟨ψ|.
func (r *Register) Density() *mat.CDense {
	dim := r.Dim()
	out := mat.NewCDense(dim, dim, nil)
	if r.rho != nil {
		out.Copy(r.rho)
		return out
	}
	for i, a := range r.vec {
		for j, b := range r.vec {
			out.Set(i, j, a*cmplxConj(b))
		}
	}
	return out
}

// Clone returns an independent deep copy of r.
func (r *Register) Clone() *Register {
	out := &Register{n: r.n, clamped: r.clamped}
	if r.rho != nil {
		dim := r.Dim()
		out.rho = mat.NewCDense(dim, dim, nil)
		out.rho.Copy(r.rho)
		return out
	}
	out.vec = make([]complex128, len(r.vec))
	copy(out.vec, r.vec)
	return out
}

// ToDensity converts the register to its density matrix. It is a no-op if
// the register already holds one.
func (r *Register) ToDensity() error {
	if r.rho != nil {
		return nil
	}
	if r.n > MaxDensityQubits {
		return ir.NewDimensionError("density matrix of %d qubits exceeds %d", r.n, MaxDensityQubits)
	}
	r.rho = r.Density()
	r.vec = nil
	return nil
}

// Trace returns Re(tr ρ) on the density path or ‖ψ‖² on the vector path.
func (r *Register) Trace() float64 {
	if r.rho == nil {
		n := cmplxs.Norm(r.vec, 2)
		return n * n
	}
	var tr float64
	for i := 0; i < r.Dim(); i++ {
		tr += real(r.rho.At(i, i))
	}
	return tr
}

// Purity returns tr(ρ²). It is 1 for pure states and 1/2^n for the
// maximally mixed state.
func (r *Register) Purity() float64 {
	if r.rho == nil {
		return r.Trace() * r.Trace()
	}
	raw := r.rho.RawCMatrix()
	var p float64
	// tr(ρ²) = Σ_ij |ρ_ij|² for Hermitian ρ.
	for i := 0; i < raw.Rows; i++ {
		p += sumSquares(raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols])
	}
	return p
}

func sumSquares(s []complex128) float64 {
	n := cmplxs.Norm(s, 2)
	return n * n
}

// ApplyUnitary applies the 2^k×2^k matrix u to the given register qubits,
// big-endian in operand order. On the density path it applies ρ → UρU†.
func (r *Register) ApplyUnitary(u mat.CMatrix, qubits []int) error {
	l, err := r.layout(u, qubits)
	if err != nil {
		return err
	}
	if r.rho == nil {
		l.apply(r.vec, 0, 1, false)
		return r.checkNorm("apply unitary")
	}
	r.conjugate(r.rho, l)
	return r.checkNorm("apply unitary")
}

// ApplyChannel applies a channel given by its Kraus operators to the given
// qubits: ρ → Σ KρK†. The register converts to a density matrix first if
// needed and never converts back.
func (r *Register) ApplyChannel(kraus []*mat.CDense, qubits []int) error {
	if len(kraus) == 0 {
		return ir.NewDimensionError("channel has no Kraus operators")
	}
	layouts := make([]*localLayout, len(kraus))
	for i, k := range kraus {
		l, err := r.layout(k, qubits)
		if err != nil {
			return err
		}
		layouts[i] = l
	}
	if err := r.ToDensity(); err != nil {
		return err
	}

	dim := r.Dim()
	sum := mat.NewCDense(dim, dim, nil)
	sumRaw := sum.RawCMatrix().Data
	term := mat.NewCDense(dim, dim, nil)
	termRaw := term.RawCMatrix().Data
	for _, l := range layouts {
		term.Copy(r.rho)
		r.conjugate(term, l)
		for i := range sumRaw {
			sumRaw[i] += termRaw[i]
		}
	}
	r.rho = sum
	return r.checkNorm("apply channel")
}

// conjugate computes m → U m U† in place on a square dim×dim matrix.
func (r *Register) conjugate(m *mat.CDense, l *localLayout) {
	raw := m.RawCMatrix()
	dim := r.Dim()
	// U acts on the row index of every column.
	for c := 0; c < dim; c++ {
		l.apply(raw.Data, c, raw.Stride, false)
	}
	// U† acts from the right: conj(U) on the column index of every row.
	for row := 0; row < dim; row++ {
		l.apply(raw.Data, row*raw.Stride, 1, true)
	}
}

// Probabilities returns the marginal distribution over qubits, indexed by
// the big-endian local outcome. Entries within ProbabilityFloor of zero are
// clamped to zero; anything more negative is a NumericalInstabilityError.
func (r *Register) Probabilities(qubits []int) ([]float64, error) {
	t, err := r.indices(qubits)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(t.offsets))
	for g := 0; g < r.Dim(); g++ {
		probs[t.local(g)] += r.basisProbability(g)
	}
	for i, p := range probs {
		switch {
		case p < -ProbabilityFloor:
			return nil, ir.NewNumericalInstabilityError("outcome %d has negative probability %g", i, p)
		case p != 0 && math.Abs(p) < ProbabilityFloor:
			probs[i] = 0
			r.clamped++
		}
	}
	return probs, nil
}

func (r *Register) basisProbability(g int) float64 {
	if r.rho != nil {
		return real(r.rho.At(g, g))
	}
	a := r.vec[g]
	return real(a)*real(a) + imag(a)*imag(a)
}

// Sample draws one joint outcome for qubits from their marginal
// distribution, then collapses the register onto that outcome and
// renormalizes. The returned bits are in operand order.
func (r *Register) Sample(rng *rand.Rand, qubits []int) ([]int, error) {
	probs, err := r.Probabilities(qubits)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, p := range probs {
		total += p
	}
	if total <= 0 || math.IsNaN(total) {
		return nil, ir.NewNumericalInstabilityError("measurement distribution has no mass (total %g)", total)
	}

	outcome := len(probs) - 1
	u := rng.Float64() * total
	for i, p := range probs {
		if u < p {
			outcome = i
			break
		}
		u -= p
	}
	for probs[outcome] == 0 {
		// Rounding can leave u past the last nonzero entry.
		outcome--
	}

	if err := r.collapse(qubits, outcome, probs[outcome]); err != nil {
		return nil, err
	}

	bits := make([]int, len(qubits))
	for j := range bits {
		bits[j] = (outcome >> (len(qubits) - 1 - j)) & 1
	}
	return bits, nil
}

// collapse projects onto local outcome and divides by its probability p.
func (r *Register) collapse(qubits []int, outcome int, p float64) error {
	t, err := r.indices(qubits)
	if err != nil {
		return err
	}
	keep := func(g int) bool { return t.local(g) == outcome }

	if r.rho == nil {
		for g := range r.vec {
			if !keep(g) {
				r.vec[g] = 0
			}
		}
		cmplxs.ScaleReal(1/math.Sqrt(p), r.vec)
		return r.checkNorm("collapse")
	}

	raw := r.rho.RawCMatrix()
	dim := r.Dim()
	for i := 0; i < dim; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+dim]
		if !keep(i) {
			clear(row)
			continue
		}
		for j := 0; j < dim; j++ {
			if !keep(j) {
				row[j] = 0
			}
		}
		cmplxs.ScaleReal(1/p, row)
	}
	return r.checkNorm("collapse")
}

func (r *Register) checkNorm(stage string) error {
	tr := r.Trace()
	if math.IsNaN(tr) || math.Abs(tr-1) > NormTolerance {
		kind := "vector norm"
		if r.rho != nil {
			kind = "density trace"
		}
		return ir.NewNumericalInstabilityError("%s: %s drifted to %.9f", stage, kind, tr)
	}
	return nil
}

func cmplxConj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}
