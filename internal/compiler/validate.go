package compiler

import (
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedType = "E200" // unsupported value type for validation

	// Program errors (E201-E209)
	ErrEmptyCircuit    = "E201" // circuit has no operations
	ErrDuplicateQubit  = "E202" // qubit declared twice
	ErrInvalidQubit    = "E203" // empty or malformed qubit label
	ErrUnknownGate     = "E204" // gate kind not in the catalog
	ErrArity           = "E205" // wrong operand count
	ErrRepeatedOperand = "E206" // qubit used twice by one operation
	ErrUndeclaredQubit = "E207" // operand not in the declared qubits
	ErrProbability     = "E208" // depolarizing probability outside [0, 1]
	ErrInvalidParam    = "E209" // non-finite angle or bad parameter name
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled program or circuit.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch p := v.(type) {
	case *Program:
		return validateProgram(p)
	case Program:
		return validateProgram(&p)
	case ir.Circuit:
		return validateCircuit(p, 0)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

func validateProgram(p *Program) []ValidationError {
	line := 0
	if p.Pos.IsValid() {
		line = p.Pos.Line()
	}
	errs := validateCircuit(p.Circuit, line)
	for _, name := range slices.Sorted(maps.Keys(p.Params)) {
		v := p.Params[name]
		if !identPattern.MatchString(name) {
			errs = append(errs, ValidationError{
				Field:   "params." + name,
				Message: fmt.Sprintf("parameter name %q is not an identifier", name),
				Code:    ErrInvalidParam,
				Line:    line,
			})
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{
				Field:   "params." + name,
				Message: "parameter value must be finite",
				Code:    ErrInvalidParam,
				Line:    line,
			})
		}
	}
	return errs
}

func validateCircuit(c ir.Circuit, line int) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
			Line:    line,
		})
	}

	// E201: at least one operation
	if c.NumOperations() == 0 {
		add("ops", ErrEmptyCircuit, "circuit has no operations")
	}

	declared := make(map[ir.Qubit]bool)
	for i, q := range c.DeclaredQubits() {
		// E203: labels must be non-empty
		if q == "" {
			add(fmt.Sprintf("qubits[%d]", i), ErrInvalidQubit, "qubit label is empty")
		}
		// E202: duplicate declaration
		if declared[q] {
			add(fmt.Sprintf("qubits[%d]", i), ErrDuplicateQubit, "qubit %q declared twice", q)
		}
		declared[q] = true
	}

	for mi, m := range c.Moments() {
		for oi, op := range m.Operations() {
			field := fmt.Sprintf("moments[%d][%d]", mi, oi)

			// E204: closed gate catalog
			if !op.Gate.Known() {
				add(field+".gate", ErrUnknownGate, "unknown gate %q", op.Gate)
				continue
			}

			// E205: operand count
			if arity := op.Gate.Arity(); arity > 0 && len(op.Qubits) != arity {
				add(field+".on", ErrArity, "%s takes %d qubit(s), got %d", op.Gate, arity, len(op.Qubits))
			} else if len(op.Qubits) == 0 {
				add(field+".on", ErrArity, "%s needs at least one qubit", op.Gate)
			}

			seen := make(map[ir.Qubit]bool, len(op.Qubits))
			for _, q := range op.Qubits {
				switch {
				case q == "":
					add(field+".on", ErrInvalidQubit, "qubit label is empty")
				case seen[q]:
					// E206: distinct operands
					add(field+".on", ErrRepeatedOperand, "%s uses qubit %q twice", op.Gate, q)
				case len(declared) > 0 && !declared[q]:
					// E207: declared qubits only
					add(field+".on", ErrUndeclaredQubit, "qubit %q is not declared", q)
				}
				seen[q] = true
			}

			switch op.Gate {
			case ir.GateDepolarize:
				// E208: probability range
				if p := op.Param.Value; math.IsNaN(p) || p < 0 || p > 1 {
					add(field+".p", ErrProbability, "depolarizing probability %v outside [0, 1]", p)
				}
			case ir.GateRZ:
				// E209: finite angle, identifier symbol
				if op.Param.IsSymbolic() {
					if !identPattern.MatchString(op.Param.Symbol) {
						add(field+".symbol", ErrInvalidParam, "symbol %q is not an identifier", op.Param.Symbol)
					}
				} else if math.IsNaN(op.Param.Value) || math.IsInf(op.Param.Value, 0) {
					add(field+".angle", ErrInvalidParam, "angle must be finite")
				}
			}
		}
	}
	return errs
}
