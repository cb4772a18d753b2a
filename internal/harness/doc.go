// Package harness runs circuit experiments described in YAML scenarios and
// checks their outcomes.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	sources:
//	  - path/to/circuits.cue
//	circuit: bell
//	seed: 7
//	repetitions: 1000
//	bindings: { theta: 0.5 }
//	noise: 0.01
//	sweep: { symbol: theta, start: 0, stop: 6.283185307179586, points: 5 }
//	zne:
//	  scales: [1, 2, 3]
//	  strategy: moment
//	  reduction: { type: keys_agree, keys: [q0, q1] }
//	assertions:
//	  - type: distribution
//	    outcome: "00"
//	    probability: 0.5
//	  - type: frequency
//	    key: q0
//	    outcome: "1"
//	    min: 0.4
//	    max: 0.6
//
// # Assertion Types
//
//   - distribution: exact probability of an outcome over the measured qubits
//   - frequency: sampled fraction of an outcome under a key, within [min, max]
//   - count: exact number of repetitions recording an outcome under a key
//   - mitigated: zero-noise estimate within [min, max]
//   - reproducible: the journaled run replays to identical outcomes
//
// # Deterministic Testing
//
// Every scenario runs with its own seed, sequential run IDs derived from the
// scenario name and a fresh in-memory journal, so a scenario produces the
// same Snapshot on every execution. Exact distributions are rendered with a
// fixed six-decimal format for golden comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/bell.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
