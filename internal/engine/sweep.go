package engine

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Linspace returns n bindings for symbol, evenly spaced over [start, stop]
// inclusive. Other symbols from base are carried into every binding.
func Linspace(symbol string, start, stop float64, n int, base ir.Bindings) ([]ir.Bindings, error) {
	if n < 1 {
		return nil, ir.NewInvalidArgument("sweep needs at least 1 point, got %d", n)
	}
	values := []float64{start}
	if n > 1 {
		values = floats.Span(make([]float64, n), start, stop)
	}
	sweep := make([]ir.Bindings, n)
	for i, v := range values {
		b := base.Clone()
		if b == nil {
			b = ir.Bindings{}
		}
		b[symbol] = v
		sweep[i] = b
	}
	return sweep, nil
}

// RunSweep runs c once per binding set, in order, with consecutive clock
// values.
func (s *Simulator) RunSweep(ctx context.Context, c ir.Circuit, repetitions int, sweep []ir.Bindings) ([]*Results, error) {
	if len(sweep) == 0 {
		return nil, ir.NewInvalidArgument("empty parameter sweep")
	}
	out := make([]*Results, len(sweep))
	for i, b := range sweep {
		r, err := s.Run(ctx, c, repetitions, b)
		if err != nil {
			return nil, fmt.Errorf("sweep point %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
