package harness

import (
	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// SweepPoint is the exact distribution at one value of a swept parameter.
type SweepPoint struct {
	Value        float64             `json:"value"`
	Distribution engine.Distribution `json:"distribution"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Circuit is the name of the program that ran.
	Circuit string `json:"circuit"`

	// Moments and Operations describe the executed circuit after noise.
	Moments    int `json:"moments"`
	Operations int `json:"operations"`

	// Distribution is the exact outcome distribution. Nil when the circuit
	// measures mid-circuit.
	Distribution *engine.Distribution `json:"distribution,omitempty"`

	// Run is the sampled run. Nil when the scenario has zero repetitions.
	Run *engine.Results `json:"-"`

	// Sweep holds one exact distribution per swept value.
	Sweep []SweepPoint `json:"sweep,omitempty"`

	// Estimate is the zero-noise estimate, when requested.
	Estimate *zne.Estimate `json:"estimate,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
