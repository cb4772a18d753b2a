package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// TestGoldenScenarios compares deterministic scenario snapshots against
// testdata/golden. Only scenarios whose snapshot does not depend on sampling
// noise are listed.
//
// To regenerate:
//
//	go test ./internal/harness -run TestGoldenScenarios -update
func TestGoldenScenarios(t *testing.T) {
	for _, name := range []string{
		"bell_exact",
		"half_adder_one_plus_one",
		"interferometer_sweep",
	} {
		t.Run(name, func(t *testing.T) {
			path, err := filepath.Abs(filepath.Join("../../testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			scenario, err := LoadScenarioWithBasePath(path, projectRoot())
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_Estimate(t *testing.T) {
	r := NewResult()
	r.Circuit = "bell"
	r.Moments = 3
	r.Operations = 4
	r.Distribution = &engine.Distribution{
		Qubits:        []ir.Qubit{"q"},
		Probabilities: map[string]float64{"0": 0.4999999999999999, "1": 0.5000000000000001},
	}
	r.Estimate = &zne.Estimate{
		Mitigated: 1.0000004,
		Fit:       zne.Fit{Intercept: 1.0000004, Slope: -0.0000001, RSquared: 1},
		Points:    []zne.Point{{Scale: 1, Value: 0.9, RunID: "ignored"}},
		Strategy:  "moment",
		Noise:     "depolarize(0.02)",
	}

	data, err := Snapshot("s", r)
	require.NoError(t, err)

	want := `{"circuit":"bell",` +
		`"distribution":{"probabilities":{"0":"0.500000","1":"0.500000"},"qubits":["q"]},` +
		`"estimate":{"mitigated":"1.000000","noise":"depolarize(0.02)",` +
		`"points":[{"scale":"1.000000","value":"0.900000"}],` +
		`"r_squared":"1.000000","slope":"0.000000","strategy":"moment"},` +
		`"moments":3,"operations":4,"scenario":"s"}`
	assert.Equal(t, want, string(data))
}

func TestFixed_NegativeZero(t *testing.T) {
	assert.Equal(t, ir.Str("0.000000"), fixed(-1e-12))
	assert.Equal(t, ir.Str("-0.000001"), fixed(-0.000001))
	assert.Equal(t, ir.Str("3.141593"), fixed(3.14159265))
}
