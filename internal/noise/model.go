package noise

import (
	"math"
	"strconv"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Model injects noise channels into a circuit.
type Model interface {
	Apply(c ir.Circuit) (ir.Circuit, error)
}

// Depolarizing places a depolarizing channel of probability P on every
// qubit touched by the unitary operations of each non-measurement moment,
// in a new moment right after it.
type Depolarizing struct {
	P float64
}

// Depolarize returns a depolarizing noise model.
func Depolarize(p float64) Depolarizing {
	return Depolarizing{P: p}
}

// Apply implements Model. P == 0 returns c unchanged.
func (d Depolarizing) Apply(c ir.Circuit) (ir.Circuit, error) {
	if math.IsNaN(d.P) || d.P < 0 || d.P > 1 {
		return ir.Circuit{}, ir.NewInvalidArgument("depolarizing probability must be in [0, 1], got %v", d.P)
	}
	if d.P == 0 {
		return c, nil
	}

	var out []ir.Moment
	for _, m := range c.Moments() {
		out = append(out, m)
		if m.HasMeasurement() {
			continue
		}
		var channels []ir.Operation
		for _, op := range m.Operations() {
			if !op.IsUnitary() {
				continue
			}
			for _, q := range op.Qubits {
				channels = append(channels, ir.Depolarize(d.P, q))
			}
		}
		if len(channels) == 0 {
			continue
		}
		noisy, err := ir.NewMoment(channels...)
		if err != nil {
			return ir.Circuit{}, err
		}
		out = append(out, noisy)
	}
	return ir.FromMoments(out...).WithQubits(c.DeclaredQubits()...), nil
}

// String renders the model for logs and journals.
func (d Depolarizing) String() string {
	return "depolarize(" + strconv.FormatFloat(d.P, 'g', -1, 64) + ")"
}
