package harness

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/engine"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/store"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/testutil"
)

// defaultTolerance bounds distribution assertions that set no tolerance.
const defaultTolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Context  []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Context) > 0 {
		fmt.Fprintf(&buf, "\nContext:\n")
		for _, line := range e.Context {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// assertDistribution checks the exact probability of an outcome.
func assertDistribution(result *Result, a Assertion) error {
	if result.Distribution == nil {
		return fmt.Errorf("distribution: no exact distribution (mid-circuit measurement)")
	}
	tol := a.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	want := *a.Probability
	got, ok := result.Distribution.Probabilities[a.Outcome]
	if !ok {
		return &AssertionError{
			Type:     AssertDistribution,
			Expected: fmt.Sprintf("outcome %q over %v", a.Outcome, result.Distribution.Qubits),
			Actual:   fmt.Sprintf("no such outcome; outcomes are %v", result.Distribution.Outcomes()),
		}
	}
	if math.Abs(got-want) > tol {
		return &AssertionError{
			Type:     AssertDistribution,
			Expected: fmt.Sprintf("P(%s) = %g within %g", a.Outcome, want, tol),
			Actual:   fmt.Sprintf("P(%s) = %g", a.Outcome, got),
			Context:  distributionLines(result.Distribution),
		}
	}
	return nil
}

// assertFrequency checks the sampled fraction of an outcome under a key.
func assertFrequency(result *Result, a Assertion) error {
	hist, total, err := histogram(result, a.Key)
	if err != nil {
		return err
	}
	frac := float64(hist[a.Outcome]) / float64(total)
	if (a.Min != nil && frac < *a.Min) || (a.Max != nil && frac > *a.Max) {
		return &AssertionError{
			Type:     AssertFrequency,
			Expected: fmt.Sprintf("fraction of %s=%s in %s", a.Key, a.Outcome, bounds(a.Min, a.Max)),
			Actual:   fmt.Sprintf("%g (%d of %d)", frac, hist[a.Outcome], total),
			Context:  histogramLines(hist),
		}
	}
	return nil
}

// assertCount checks the exact number of repetitions recording an outcome.
func assertCount(result *Result, a Assertion) error {
	hist, _, err := histogram(result, a.Key)
	if err != nil {
		return err
	}
	if hist[a.Outcome] != *a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d occurrences of %s=%s", *a.Count, a.Key, a.Outcome),
			Actual:   fmt.Sprintf("%d occurrences", hist[a.Outcome]),
			Context:  histogramLines(hist),
		}
	}
	return nil
}

// assertMitigated checks the zero-noise estimate against bounds.
func assertMitigated(result *Result, a Assertion) error {
	if result.Estimate == nil {
		return fmt.Errorf("mitigated: no zero-noise estimate")
	}
	got := result.Estimate.Mitigated
	if (a.Min != nil && got < *a.Min) || (a.Max != nil && got > *a.Max) {
		var lines []string
		for _, p := range result.Estimate.Points {
			lines = append(lines, fmt.Sprintf("scale %g: %g", p.Scale, p.Value))
		}
		return &AssertionError{
			Type:     AssertMitigated,
			Expected: fmt.Sprintf("mitigated value in %s", bounds(a.Min, a.Max)),
			Actual:   fmt.Sprintf("%g (unmitigated %g)", got, result.Estimate.Unmitigated()),
			Context:  lines,
		}
	}
	return nil
}

// assertReproducible replays the journaled run and compares outcomes.
func assertReproducible(actx *AssertionContext, result *Result) error {
	if result.Run == nil {
		return fmt.Errorf("reproducible: no sampled run")
	}
	ctx, logger := actx.Ctx, actx.Logger
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = testutil.DiscardLogger()
	}
	rr, err := actx.Store.Replay(ctx, result.Run.RunID, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("reproducible: %w", err)
	}
	if !rr.Reproduced {
		return &AssertionError{
			Type:     AssertReproducible,
			Expected: fmt.Sprintf("run %s replays to identical outcomes", result.Run.RunID),
			Actual:   "replayed outcomes differ",
		}
	}
	return nil
}

func histogram(result *Result, key string) (map[string]int, int, error) {
	if result.Run == nil {
		return nil, 0, fmt.Errorf("no sampled run")
	}
	if _, ok := result.Run.Get(key); !ok {
		return nil, 0, fmt.Errorf("unknown measurement key %q; keys are %v", key, result.Run.Keys())
	}
	return result.Run.Histogram(key), result.Run.Repetitions, nil
}

func bounds(lo, hi *float64) string {
	l, h := "-inf", "+inf"
	if lo != nil {
		l = fmt.Sprintf("%g", *lo)
	}
	if hi != nil {
		h = fmt.Sprintf("%g", *hi)
	}
	return "[" + l + ", " + h + "]"
}

func distributionLines(d *engine.Distribution) []string {
	var lines []string
	for _, o := range d.Outcomes() {
		lines = append(lines, fmt.Sprintf("%s: %g", o, d.Prob(o)))
	}
	return lines
}

func histogramLines(hist map[string]int) []string {
	var lines []string
	for _, o := range slices.Sorted(maps.Keys(hist)) {
		lines = append(lines, fmt.Sprintf("%s: %d", o, hist[o]))
	}
	return lines
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store  *store.Store
	Ctx    context.Context
	Logger *slog.Logger // replay logs; nil discards
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides journal access for reproducible assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertDistribution:
			err = assertDistribution(result, assertion)
		case AssertFrequency:
			err = assertFrequency(result, assertion)
		case AssertCount:
			err = assertCount(result, assertion)
		case AssertMitigated:
			err = assertMitigated(result, assertion)
		case AssertReproducible:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("reproducible requires journal context")
			} else {
				err = assertReproducible(actx, result)
			}
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s", i, err.Error()))
		}
	}

	return errors
}
