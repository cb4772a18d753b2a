package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/noise"
)

// Scenario defines one circuit experiment and the checks on its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sources lists CUE files defining circuits.
	// Paths are relative to the scenario file location.
	Sources []string `yaml:"sources"`

	// Circuit names the program under circuit: to run.
	Circuit string `yaml:"circuit"`

	// Seed seeds the simulator.
	Seed uint64 `yaml:"seed"`

	// Repetitions is the number of sampled repetitions. Zero skips
	// sampling; only the exact distribution is computed.
	Repetitions int `yaml:"repetitions"`

	// Backend forces a simulator back end: auto, state_vector or
	// density_matrix.
	Backend string `yaml:"backend,omitempty"`

	// Bindings override the program's default parameters.
	Bindings map[string]float64 `yaml:"bindings,omitempty"`

	// Noise is a depolarizing probability applied after every moment.
	Noise float64 `yaml:"noise,omitempty"`

	// Sweep runs the circuit over a linear range of one parameter.
	Sweep *SweepSpec `yaml:"sweep,omitempty"`

	// ZNE runs zero-noise extrapolation on the circuit.
	ZNE *ZNESpec `yaml:"zne,omitempty"`

	// Assertions validate the run.
	Assertions []Assertion `yaml:"assertions"`
}

// SweepSpec is a linear parameter sweep.
type SweepSpec struct {
	Symbol string  `yaml:"symbol"`
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Points int     `yaml:"points"`
}

// ZNESpec configures zero-noise extrapolation.
type ZNESpec struct {
	Scales    []float64     `yaml:"scales"`
	Strategy  string        `yaml:"strategy,omitempty"`
	Parallel  bool          `yaml:"parallel,omitempty"`
	Reduction ReductionSpec `yaml:"reduction"`
}

// ReductionSpec selects how each ZNE run is reduced to a value.
type ReductionSpec struct {
	// Type is keys_agree, outcome_fraction, success_rate or expectation_z.
	Type     string   `yaml:"type"`
	Keys     []string `yaml:"keys,omitempty"`
	Outcomes []string `yaml:"outcomes,omitempty"`
}

// Reduction type constants.
const (
	ReduceKeysAgree       = "keys_agree"
	ReduceOutcomeFraction = "outcome_fraction"
	ReduceSuccessRate     = "success_rate"
	ReduceExpectationZ    = "expectation_z"
)

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "distribution": exact probability of Outcome
	// - "frequency": sampled fraction of Outcome under Key in [Min, Max]
	// - "count": repetitions recording Outcome under Key equal Count
	// - "mitigated": ZNE estimate in [Min, Max]
	// - "reproducible": journaled run replays exactly
	Type string `yaml:"type"`

	// Key is the measurement key (frequency, count).
	Key string `yaml:"key,omitempty"`

	// Outcome is a bitstring such as "01" (distribution, frequency, count).
	Outcome string `yaml:"outcome,omitempty"`

	// Probability is the expected exact probability (distribution).
	Probability *float64 `yaml:"probability,omitempty"`

	// Tolerance bounds |actual - Probability|. Default 1e-9.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Min and Max bound a sampled or mitigated value (frequency, mitigated).
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Count is the expected number of occurrences (count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertDistribution = "distribution"
	AssertFrequency    = "frequency"
	AssertCount        = "count"
	AssertMitigated    = "mitigated"
	AssertReproducible = "reproducible"
)

// LoadScenario reads and parses a scenario YAML file.
// Source paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving source paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve source paths relative to base path BEFORE validation
	for i, src := range scenario.Sources {
		if !filepath.IsAbs(src) && basePath != "" {
			scenario.Sources[i] = filepath.Join(basePath, src)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Sources) == 0 {
		return fmt.Errorf("sources list is required and must be non-empty")
	}

	if s.Circuit == "" {
		return fmt.Errorf("circuit is required")
	}

	if s.Repetitions < 0 {
		return fmt.Errorf("repetitions must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, src := range s.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("source file not found: %s", src)
		}
	}

	if s.Noise < 0 || s.Noise > 1 {
		return fmt.Errorf("noise must be in [0, 1]")
	}

	if s.Sweep != nil {
		if s.Sweep.Symbol == "" {
			return fmt.Errorf("sweep: symbol is required")
		}
		if s.Sweep.Points < 1 {
			return fmt.Errorf("sweep: points must be >= 1")
		}
	}

	if s.ZNE != nil {
		if err := validateZNE(s); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, s, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateZNE(s *Scenario) error {
	z := s.ZNE
	if s.Repetitions < 1 {
		return fmt.Errorf("zne: repetitions must be >= 1")
	}
	if len(z.Scales) == 0 {
		return fmt.Errorf("zne: scales are required")
	}
	if _, err := noise.StrategyByName(z.Strategy); err != nil {
		return fmt.Errorf("zne: %w", err)
	}
	r := z.Reduction
	switch r.Type {
	case ReduceKeysAgree:
		if len(r.Keys) != 2 {
			return fmt.Errorf("zne.reduction: keys_agree needs exactly 2 keys")
		}
	case ReduceOutcomeFraction:
		if len(r.Keys) != 1 || len(r.Outcomes) == 0 {
			return fmt.Errorf("zne.reduction: outcome_fraction needs 1 key and at least 1 outcome")
		}
	case ReduceSuccessRate:
		if len(r.Keys) == 0 || len(r.Outcomes) == 0 {
			return fmt.Errorf("zne.reduction: success_rate needs keys and outcomes")
		}
	case ReduceExpectationZ:
		if len(r.Keys) != 1 {
			return fmt.Errorf("zne.reduction: expectation_z needs 1 key")
		}
	default:
		return fmt.Errorf("zne.reduction: unknown type %q", r.Type)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, s *Scenario, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertDistribution:
		if a.Probability == nil {
			return fmt.Errorf("assertions[%d]: probability is required for distribution", index)
		}
	case AssertFrequency:
		if a.Key == "" || a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: key and outcome are required for frequency", index)
		}
		if a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: min or max is required for frequency", index)
		}
		if s.Repetitions < 1 {
			return fmt.Errorf("assertions[%d]: frequency needs repetitions >= 1", index)
		}
	case AssertCount:
		if a.Key == "" || a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: key and outcome are required for count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
		if s.Repetitions < 1 {
			return fmt.Errorf("assertions[%d]: count needs repetitions >= 1", index)
		}
	case AssertMitigated:
		if s.ZNE == nil {
			return fmt.Errorf("assertions[%d]: mitigated needs a zne section", index)
		}
		if a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: min or max is required for mitigated", index)
		}
	case AssertReproducible:
		if s.Repetitions < 1 {
			return fmt.Errorf("assertions[%d]: reproducible needs repetitions >= 1", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
