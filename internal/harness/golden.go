package harness

import (
	"fmt"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Snapshot renders a result as canonical JSON for golden comparison.
// Probabilities and estimates are rounded to six decimals so snapshots are
// stable across platforms; sampled histograms are exact counts.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	obj := ir.Object{
		"scenario":   ir.Str(scenarioName),
		"circuit":    ir.Str(result.Circuit),
		"moments":    ir.Int(result.Moments),
		"operations": ir.Int(result.Operations),
	}
	if result.Distribution != nil {
		obj["distribution"] = distributionValue(*result.Distribution)
	}
	if result.Run != nil {
		hists := ir.Object{}
		for _, key := range result.Run.Keys() {
			h := ir.Object{}
			for outcome, n := range result.Run.Histogram(key) {
				h[outcome] = ir.Int(n)
			}
			hists[key] = h
		}
		obj["histograms"] = hists
	}
	if len(result.Sweep) > 0 {
		points := make(ir.Array, len(result.Sweep))
		for i, p := range result.Sweep {
			points[i] = ir.Object{
				"value":        fixed(p.Value),
				"distribution": distributionValue(p.Distribution),
			}
		}
		obj["sweep"] = points
	}
	if est := result.Estimate; est != nil {
		points := make(ir.Array, len(est.Points))
		for i, p := range est.Points {
			points[i] = ir.Object{
				"scale": fixed(p.Scale),
				"value": fixed(p.Value),
			}
		}
		e := ir.Object{
			"mitigated": fixed(est.Mitigated),
			"slope":     fixed(est.Fit.Slope),
			"r_squared": fixed(est.Fit.RSquared),
			"strategy":  ir.Str(est.Strategy),
			"points":    points,
		}
		if est.Noise != "" {
			e["noise"] = ir.Str(est.Noise)
		}
		obj["estimate"] = e
	}
	return ir.MarshalCanonical(obj)
}

func distributionValue(d engine.Distribution) ir.Object {
	probs := ir.Object{}
	for outcome, p := range d.Probabilities {
		probs[outcome] = fixed(p)
	}
	return ir.Object{
		"qubits":        ir.Qubits(d.Qubits),
		"probabilities": probs,
	}
}

// fixed formats v with six decimals, folding negative zero into zero.
func fixed(v float64) ir.Str {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0
	}
	return ir.Str(fmt.Sprintf("%.6f", r))
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
