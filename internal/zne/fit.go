package zne

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Fit is an ordinary least-squares line value = Intercept + Slope*scale.
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
}

// At evaluates the line at scale.
func (f Fit) At(scale float64) float64 {
	return f.Intercept + f.Slope*scale
}

// Extrapolate fits a line through (scales[i], values[i]). At least two
// distinct scales are required.
func Extrapolate(scales, values []float64) (Fit, error) {
	if len(scales) != len(values) {
		return Fit{}, ir.NewInvalidArgument("got %d scales and %d values", len(scales), len(values))
	}
	if n := distinct(scales); n < 2 {
		return Fit{}, ir.NewInsufficientDataError("linear extrapolation needs at least 2 distinct scale factors, got %d", n)
	}
	if floats.HasNaN(values) || hasInf(values) {
		return Fit{}, ir.NewInvalidArgument("values must be finite")
	}

	alpha, beta := stat.LinearRegression(scales, values, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return Fit{}, ir.NewNumericalInstabilityError("regression produced a non-finite line (intercept %v, slope %v)", alpha, beta)
	}

	r2 := stat.RSquared(scales, values, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant values are fit exactly by a flat line.
		r2 = 1
	}
	return Fit{Intercept: alpha, Slope: beta, RSquared: r2}, nil
}

func distinct(xs []float64) int {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return len(slices.Compact(sorted))
}

func hasInf(xs []float64) bool {
	return slices.ContainsFunc(xs, func(x float64) bool { return math.IsInf(x, 0) })
}
