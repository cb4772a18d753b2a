package noise

import (
	"fmt"
	"math"
	"slices"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/gates"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Strategy amplifies the noise of a circuit by a scale factor.
type Strategy interface {
	// Name identifies the strategy in logs and journals.
	Name() string

	// Fold returns a new circuit with noise scaled by scale. scale == 1
	// returns c unchanged.
	Fold(c ir.Circuit, scale float64) (ir.Circuit, error)
}

// Strategy names accepted by StrategyByName.
const (
	StrategyMoment  = "moment"
	StrategyUnitary = "unitary"
)

// StrategyByName returns the named folding strategy. The empty name selects
// MomentFold.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategyMoment:
		return MomentFold{}, nil
	case StrategyUnitary:
		return UnitaryFold{}, nil
	}
	return nil, ir.NewInvalidArgument("unknown fold strategy %q (want %q or %q)", name, StrategyMoment, StrategyUnitary)
}

// Fold applies the default MomentFold strategy.
func Fold(c ir.Circuit, scale float64) (ir.Circuit, error) {
	return MomentFold{}.Fold(c, scale)
}

// ValidateScale rejects scale factors below 1 and non-finite values.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return ir.NewInvalidArgument("scale factor must be finite, got %v", scale)
	}
	if scale < 1 {
		return ir.NewInvalidArgument("scale factor must be >= 1, got %v", scale)
	}
	return nil
}

// MomentFold emits every non-measurement moment followed by
// floor((scale-1)*2) pairs of (a moment of its unitary operations, a moment
// of their inverses).
type MomentFold struct{}

// Name implements Strategy.
func (MomentFold) Name() string { return StrategyMoment }

// Folds returns the number of fold pairs inserted after each moment.
func (MomentFold) Folds(scale float64) int {
	return int(math.Floor((scale - 1) * 2))
}

// Fold implements Strategy.
func (f MomentFold) Fold(c ir.Circuit, scale float64) (ir.Circuit, error) {
	if err := ValidateScale(scale); err != nil {
		return ir.Circuit{}, err
	}
	n := f.Folds(scale)
	if n == 0 {
		return c, nil
	}

	var out []ir.Moment
	for i, m := range c.Moments() {
		out = append(out, m)
		if m.HasMeasurement() {
			continue
		}
		fwd, inv, err := foldPair(m)
		if err != nil {
			return ir.Circuit{}, fmt.Errorf("moment %d: %w", i, err)
		}
		if fwd.Len() == 0 {
			continue
		}
		for range n {
			out = append(out, fwd, inv)
		}
	}
	return ir.FromMoments(out...).WithQubits(c.DeclaredQubits()...), nil
}

// foldPair returns a moment of m's unitary operations and a moment of their
// inverses. Both are disjoint because m is.
func foldPair(m ir.Moment) (ir.Moment, ir.Moment, error) {
	var fwd, inv []ir.Operation
	for _, op := range m.Operations() {
		if !op.IsUnitary() {
			continue
		}
		i, err := gates.Inverse(op)
		if err != nil {
			return ir.Moment{}, ir.Moment{}, err
		}
		fwd = append(fwd, op)
		inv = append(inv, i)
	}
	f, err := ir.NewMoment(fwd...)
	if err != nil {
		return ir.Moment{}, ir.Moment{}, err
	}
	r, err := ir.NewMoment(inv...)
	if err != nil {
		return ir.Moment{}, ir.Moment{}, err
	}
	return f, r, nil
}

// UnitaryFold replaces the body U ahead of the first measurement moment with
// U (U† U)^m, m = round((scale-1)/2). The realized scale is the odd integer
// 2m+1 nearest to scale.
type UnitaryFold struct{}

// Name implements Strategy.
func (UnitaryFold) Name() string { return StrategyUnitary }

// Folds returns m for the given scale.
func (UnitaryFold) Folds(scale float64) int {
	return int(math.Round((scale - 1) / 2))
}

// Fold implements Strategy.
func (f UnitaryFold) Fold(c ir.Circuit, scale float64) (ir.Circuit, error) {
	if err := ValidateScale(scale); err != nil {
		return ir.Circuit{}, err
	}
	n := f.Folds(scale)
	if n == 0 {
		return c, nil
	}

	moments := c.Moments()
	body := slices.IndexFunc(moments, ir.Moment.HasMeasurement)
	if body < 0 {
		body = len(moments)
	}

	var forward, inverse []ir.Moment
	for i, m := range moments[:body] {
		fwd, inv, err := foldPair(m)
		if err != nil {
			return ir.Circuit{}, fmt.Errorf("moment %d: %w", i, err)
		}
		if fwd.Len() == 0 {
			continue
		}
		forward = append(forward, fwd)
		inverse = append(inverse, inv)
	}
	slices.Reverse(inverse)

	out := slices.Clone(moments[:body])
	for range n {
		out = append(out, inverse...)
		out = append(out, forward...)
	}
	out = append(out, moments[body:]...)
	return ir.FromMoments(out...).WithQubits(c.DeclaredQubits()...), nil
}
