package zne

import (
	"slices"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Reduction maps the Results of one run to a scalar expectation value.
type Reduction func(*engine.Results) (float64, error)

// KeysAgree is the fraction of repetitions in which keys a and b recorded
// the same bits.
func KeysAgree(a, b string) Reduction {
	return func(r *engine.Results) (float64, error) {
		as, err := outcomes(r, a)
		if err != nil {
			return 0, err
		}
		bs, err := outcomes(r, b)
		if err != nil {
			return 0, err
		}
		if len(as[0]) != len(bs[0]) {
			return 0, ir.NewInvalidArgument("keys %q and %q have widths %d and %d", a, b, len(as[0]), len(bs[0]))
		}
		agree := 0
		for i := range as {
			if slices.Equal(as[i], bs[i]) {
				agree++
			}
		}
		return float64(agree) / float64(len(as)), nil
	}
}

// OutcomeFraction is the fraction of repetitions in which key recorded one
// of the given bitstrings.
func OutcomeFraction(key string, want ...string) Reduction {
	return SuccessRate([]string{key}, want...)
}

// SuccessRate is the fraction of repetitions whose bits, concatenated over
// keys in order, form one of the expected bitstrings. One minus the
// success rate is the error rate.
func SuccessRate(keys []string, expected ...string) Reduction {
	return func(r *engine.Results) (float64, error) {
		if len(keys) == 0 {
			return 0, ir.NewInvalidArgument("success rate needs at least one key")
		}
		if len(expected) == 0 {
			return 0, ir.NewInvalidArgument("success rate needs at least one expected outcome")
		}
		per := make([][]engine.Outcome, len(keys))
		for i, k := range keys {
			o, err := outcomes(r, k)
			if err != nil {
				return 0, err
			}
			per[i] = o
		}

		hits := 0
		reps := len(per[0])
		for rep := 0; rep < reps; rep++ {
			var joined engine.Outcome
			for i := range keys {
				joined = append(joined, per[i][rep]...)
			}
			if slices.Contains(expected, joined.String()) {
				hits++
			}
		}
		return float64(hits) / float64(reps), nil
	}
}

// ExpectationZ is the mean of (-1)^parity over the bits recorded under key,
// the expectation of the product of Z observables on the measured qubits.
func ExpectationZ(key string) Reduction {
	return func(r *engine.Results) (float64, error) {
		os, err := outcomes(r, key)
		if err != nil {
			return 0, err
		}
		sum := 0
		for _, o := range os {
			parity := 0
			for _, bit := range o {
				parity ^= bit
			}
			sum += 1 - 2*parity
		}
		return float64(sum) / float64(len(os)), nil
	}
}

func outcomes(r *engine.Results, key string) ([]engine.Outcome, error) {
	o, ok := r.Get(key)
	if !ok {
		return nil, ir.NewInvalidArgument("no measurement under key %q", key)
	}
	if len(o) == 0 {
		return nil, ir.NewInsufficientDataError("no repetitions recorded under key %q", key)
	}
	return o, nil
}
