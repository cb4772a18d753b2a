package engine

import (
	"fmt"
	"slices"
	"strings"
)

// Outcome is one measurement's bits for one repetition, one bit per
// measured qubit in declared order.
type Outcome []int

// String renders o as a bitstring such as "011".
func (o Outcome) String() string {
	var b strings.Builder
	for _, bit := range o {
		b.WriteByte('0' + byte(bit))
	}
	return b.String()
}

// Int returns o read as a big-endian binary number.
func (o Outcome) Int() int {
	n := 0
	for _, bit := range o {
		n = n<<1 | bit
	}
	return n
}

// ParseOutcome parses a bitstring such as "011".
func ParseOutcome(s string) (Outcome, error) {
	o := make(Outcome, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			o[i] = 1
		default:
			return nil, fmt.Errorf("invalid bit %q in outcome %q", c, s)
		}
	}
	return o, nil
}

// RunInfo identifies a run and everything needed to replay it.
type RunInfo struct {
	RunID       string  `json:"run_id"`
	Seq         int64   `json:"seq"`
	Seed        uint64  `json:"seed"`
	Backend     Backend `json:"backend"`
	Repetitions int     `json:"repetitions"`
}

// Results holds the outcomes of one run: for every measurement key, one
// Outcome per repetition. Results are immutable; accessors return copies.
type Results struct {
	RunInfo

	keys    []string
	records map[string][]Outcome
}

func newResults(info RunInfo, keys []string) *Results {
	r := &Results{
		RunInfo: info,
		keys:    slices.Clone(keys),
		records: make(map[string][]Outcome, len(keys)),
	}
	for _, k := range keys {
		r.records[k] = make([]Outcome, 0, info.Repetitions)
	}
	return r
}

// NewResults rebuilds Results from stored records. Every key must hold
// exactly info.Repetitions outcomes of equal width.
func NewResults(info RunInfo, keys []string, records map[string][]Outcome) (*Results, error) {
	r := newResults(info, keys)
	for _, k := range keys {
		outcomes := records[k]
		if len(outcomes) != info.Repetitions {
			return nil, fmt.Errorf("key %q has %d outcomes, want %d", k, len(outcomes), info.Repetitions)
		}
		for i, o := range outcomes {
			if len(o) != len(outcomes[0]) {
				return nil, fmt.Errorf("key %q repetition %d has width %d, want %d", k, i, len(o), len(outcomes[0]))
			}
			r.records[k] = append(r.records[k], slices.Clone(o))
		}
	}
	if len(records) != len(keys) {
		return nil, fmt.Errorf("records hold %d keys, want %d", len(records), len(keys))
	}
	return r, nil
}

// Get returns the outcomes recorded under key, one per repetition.
func (r *Results) Get(key string) ([]Outcome, bool) {
	outcomes, ok := r.records[key]
	if !ok {
		return nil, false
	}
	out := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		out[i] = slices.Clone(o)
	}
	return out, true
}

// Keys returns the measurement keys in first-appearance order.
func (r *Results) Keys() []string {
	return slices.Clone(r.keys)
}

// Histogram counts the bitstrings recorded under key.
func (r *Results) Histogram(key string) map[string]int {
	hist := make(map[string]int)
	for _, o := range r.records[key] {
		hist[o.String()]++
	}
	return hist
}

// Equal reports whether r and other recorded identical outcomes under the
// same keys. Run metadata is not compared.
func (r *Results) Equal(other *Results) bool {
	if !slices.Equal(r.keys, other.keys) {
		return false
	}
	for _, k := range r.keys {
		if !slices.EqualFunc(r.records[k], other.records[k], func(a, b Outcome) bool {
			return slices.Equal(a, b)
		}) {
			return false
		}
	}
	return true
}

// record appends one repetition's outcomes.
func (r *Results) record(rep map[string]Outcome) {
	for _, k := range r.keys {
		r.records[k] = append(r.records[k], rep[k])
	}
}
