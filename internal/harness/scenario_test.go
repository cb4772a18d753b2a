package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCircuits = `
circuit: coin: {
	qubits: ["q"]
	ops: [
		{gate: "H", on: ["q"]},
		{gate: "MEASURE", on: ["q"], key: "m"},
	]
}

circuit: pair: {
	qubits: ["q0", "q1"]
	ops: [
		{gate: "H", on: ["q0"]},
		{gate: "CNOT", on: ["q0", "q1"]},
		{gate: "MEASURE", on: ["q0"], key: "q0"},
		{gate: "MEASURE", on: ["q1"], key: "q1"},
	]
}

circuit: flip: {
	qubits: ["q"]
	ops: [
		{gate: "X", on: ["q"]},
		{gate: "MEASURE", on: ["q"], key: "m"},
	]
}

circuit: collapse: {
	qubits: ["q"]
	ops: [
		{gate: "H", on: ["q"]},
		{gate: "MEASURE", on: ["q"], key: "first"},
		{gate: "H", on: ["q"]},
		{gate: "MEASURE", on: ["q"], key: "second"},
	]
}

circuit: phase: {
	qubits: ["q"]
	params: theta: 0
	ops: [
		{gate: "H", on: ["q"]},
		{gate: "RZ", on: ["q"], symbol: "theta"},
		{gate: "H", on: ["q"]},
		{gate: "MEASURE", on: ["q"], key: "m"},
	]
}

circuit: broken: {
	qubits: ["q"]
	ops: [{gate: "SWAP", on: ["q"]}]
}
`

// createTestSource writes the shared CUE circuits into dir.
func createTestSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "circuits.cue")
	require.NoError(t, os.WriteFile(path, []byte(testCircuits), 0o644))
	return path
}

// writeScenario writes content to dir/test.yaml and returns the path.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	createTestSource(t, dir)

	content := `
name: coin_flip
description: "A fair coin"
sources:
  - circuits.cue
circuit: coin
seed: 11
repetitions: 500
bindings:
  theta: 0.25
assertions:
  - type: frequency
    key: m
    outcome: "1"
    min: 0.4
    max: 0.6
`
	scenario, err := LoadScenario(writeScenario(t, dir, content))
	require.NoError(t, err)

	assert.Equal(t, "coin_flip", scenario.Name)
	assert.Equal(t, "A fair coin", scenario.Description)
	assert.Equal(t, []string{filepath.Join(dir, "circuits.cue")}, scenario.Sources)
	assert.Equal(t, "coin", scenario.Circuit)
	assert.Equal(t, uint64(11), scenario.Seed)
	assert.Equal(t, 500, scenario.Repetitions)
	assert.Equal(t, 0.25, scenario.Bindings["theta"])
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertFrequency, scenario.Assertions[0].Type)
	assert.InDelta(t, 0.4, *scenario.Assertions[0].Min, 0)
}

func TestLoadScenario_ZNESection(t *testing.T) {
	dir := t.TempDir()
	createTestSource(t, dir)

	content := `
name: pair_zne
description: "mitigation"
sources: [circuits.cue]
circuit: pair
repetitions: 100
noise: 0.01
zne:
  scales: [1, 1.5, 2]
  strategy: unitary
  parallel: true
  reduction:
    type: keys_agree
    keys: [q0, q1]
assertions:
  - type: mitigated
    min: 0.5
`
	scenario, err := LoadScenario(writeScenario(t, dir, content))
	require.NoError(t, err)

	require.NotNil(t, scenario.ZNE)
	assert.Equal(t, []float64{1, 1.5, 2}, scenario.ZNE.Scales)
	assert.Equal(t, "unitary", scenario.ZNE.Strategy)
	assert.True(t, scenario.ZNE.Parallel)
	assert.Equal(t, ReduceKeysAgree, scenario.ZNE.Reduction.Type)
	assert.InDelta(t, 0.01, scenario.Noise, 0)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	createTestSource(t, dir)

	content := `
name: typo
description: "typo in assertions"
sources: [circuits.cue]
circuit: coin
assertion:
  - type: reproducible
`
	_, err := LoadScenario(writeScenario(t, dir, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_SourceNotFound(t *testing.T) {
	dir := t.TempDir()

	content := `
name: missing
description: "no source"
sources: [nowhere.cue]
circuit: coin
repetitions: 1
assertions:
  - type: reproducible
`
	_, err := LoadScenario(writeScenario(t, dir, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file not found")
}

func TestLoadScenario_Invalid(t *testing.T) {
	header := "description: d\nsources: [circuits.cue]\n"

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: header + "circuit: coin\nassertions: [{type: reproducible}]\nrepetitions: 1\n",
			wantErr: "name is required",
		},
		{
			name:    "missing circuit",
			content: "name: n\n" + header + "assertions: [{type: reproducible}]\nrepetitions: 1\n",
			wantErr: "circuit is required",
		},
		{
			name:    "no assertions",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: 1\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "negative repetitions",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: -1\nassertions: [{type: reproducible}]\n",
			wantErr: "repetitions must be non-negative",
		},
		{
			name:    "noise out of range",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: 1\nnoise: 1.5\nassertions: [{type: reproducible}]\n",
			wantErr: "noise must be in [0, 1]",
		},
		{
			name:    "unknown assertion type",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: 1\nassertions: [{type: vibes}]\n",
			wantErr: `assertions[0]: unknown assertion type "vibes"`,
		},
		{
			name:    "distribution without probability",
			content: "name: n\n" + header + "circuit: coin\nassertions: [{type: distribution, outcome: \"0\"}]\n",
			wantErr: "assertions[0]: probability is required",
		},
		{
			name:    "frequency without repetitions",
			content: "name: n\n" + header + "circuit: coin\nassertions: [{type: frequency, key: m, outcome: \"1\", min: 0.1}]\n",
			wantErr: "assertions[0]: frequency needs repetitions",
		},
		{
			name:    "count without count",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: 1\nassertions: [{type: count, key: m, outcome: \"1\"}]\n",
			wantErr: "assertions[0]: count must be non-negative",
		},
		{
			name:    "mitigated without zne",
			content: "name: n\n" + header + "circuit: coin\nrepetitions: 1\nassertions: [{type: mitigated, min: 0}]\n",
			wantErr: "assertions[0]: mitigated needs a zne section",
		},
		{
			name:    "zne unknown strategy",
			content: "name: n\n" + header + "circuit: pair\nrepetitions: 1\nzne: {scales: [2], strategy: random, reduction: {type: keys_agree, keys: [q0, q1]}}\nassertions: [{type: mitigated, min: 0}]\n",
			wantErr: "zne:",
		},
		{
			name:    "zne bad reduction",
			content: "name: n\n" + header + "circuit: pair\nrepetitions: 1\nzne: {scales: [2], reduction: {type: keys_agree, keys: [q0]}}\nassertions: [{type: mitigated, min: 0}]\n",
			wantErr: "keys_agree needs exactly 2 keys",
		},
		{
			name:    "sweep without points",
			content: "name: n\n" + header + "circuit: coin\nsweep: {symbol: theta, start: 0, stop: 1}\nassertions: [{type: distribution, outcome: \"0\", probability: 0.5}]\n",
			wantErr: "sweep: points must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createTestSource(t, dir)

			_, err := LoadScenario(writeScenario(t, dir, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	root := t.TempDir()
	createTestSource(t, root)
	scenarioDir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarioDir, 0o755))

	content := `
name: based
description: "sources resolve against the base path"
sources: [circuits.cue]
circuit: coin
repetitions: 1
assertions:
  - type: reproducible
`
	path := writeScenario(t, scenarioDir, content)

	_, err := LoadScenario(path)
	require.Error(t, err, "relative to the scenario file the source does not exist")

	scenario, err := LoadScenarioWithBasePath(path, root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "circuits.cue"), scenario.Sources[0])
}
