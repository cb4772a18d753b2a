package ir

import (
	"math"
	"strings"
)

// GateKind identifies an entry of the closed gate and channel catalog.
type GateKind string

const (
	// GateH is the Hadamard gate.
	GateH GateKind = "H"

	// GateX is the Pauli-X (bit flip) gate.
	GateX GateKind = "X"

	// GateCNOT flips its target iff its control is 1. Operands: control, target.
	GateCNOT GateKind = "CNOT"

	// GateCCNOT is the Toffoli gate. Operands: control, control, target.
	GateCCNOT GateKind = "CCNOT"

	// GateRZ is the parametrized Z rotation diag(1, e^{iθ}).
	GateRZ GateKind = "RZ"

	// GateDepolarize is the single-qubit depolarizing channel.
	GateDepolarize GateKind = "DEPOLARIZE"

	// GateMeasure is a projective measurement in the computational basis.
	GateMeasure GateKind = "MEASURE"
)

// Kinds lists the catalog in a fixed order.
var Kinds = []GateKind{GateH, GateX, GateCNOT, GateCCNOT, GateRZ, GateDepolarize, GateMeasure}

var kindAliases = map[string]GateKind{
	"H":            GateH,
	"HADAMARD":     GateH,
	"X":            GateX,
	"NOT":          GateX,
	"CNOT":         GateCNOT,
	"CX":           GateCNOT,
	"CCNOT":        GateCCNOT,
	"CCX":          GateCCNOT,
	"TOFFOLI":      GateCCNOT,
	"RZ":           GateRZ,
	"DEPOLARIZE":   GateDepolarize,
	"DEPOLARIZING": GateDepolarize,
	"MEASURE":      GateMeasure,
	"M":            GateMeasure,
}

// ParseGateKind resolves a gate name (case-insensitive, common aliases
// accepted) to a catalog kind.
func ParseGateKind(name string) (GateKind, error) {
	if k, ok := kindAliases[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return "", NewUnknownGateError(GateKind(name))
}

// Known reports whether k is in the catalog.
func (k GateKind) Known() bool {
	switch k {
	case GateH, GateX, GateCNOT, GateCCNOT, GateRZ, GateDepolarize, GateMeasure:
		return true
	}
	return false
}

// Arity returns the fixed operand count for k. Measurement accepts any
// positive number of operands and reports 0. Unknown kinds report -1.
func (k GateKind) Arity() int {
	switch k {
	case GateH, GateX, GateRZ, GateDepolarize:
		return 1
	case GateCNOT:
		return 2
	case GateCCNOT:
		return 3
	case GateMeasure:
		return 0
	}
	return -1
}

// IsUnitary reports whether k is a unitary gate.
func (k GateKind) IsUnitary() bool {
	switch k {
	case GateH, GateX, GateCNOT, GateCCNOT, GateRZ:
		return true
	}
	return false
}

// IsChannel reports whether k is a noise channel.
func (k GateKind) IsChannel() bool {
	return k == GateDepolarize
}

// Parametrized reports whether k carries a Param.
func (k GateKind) Parametrized() bool {
	return k == GateRZ || k == GateDepolarize
}

// Bindings maps parameter symbols to values, resolved at run time.
type Bindings map[string]float64

// Clone returns a copy of b.
func (b Bindings) Clone() Bindings {
	if b == nil {
		return nil
	}
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Param is a gate parameter: either a literal Value or a Symbol looked up
// in Bindings when the circuit runs. Negated flips the resolved sign.
type Param struct {
	Value   float64
	Symbol  string
	Negated bool
}

// Literal returns a literal parameter.
func Literal(v float64) Param {
	return Param{Value: v}
}

// Symbol returns a parameter resolved from bindings under name.
func Symbol(name string) Param {
	return Param{Symbol: name}
}

// IsSymbolic reports whether p must be resolved from bindings.
func (p Param) IsSymbolic() bool {
	return p.Symbol != ""
}

// Resolve returns the numeric value of p under bindings. A symbol missing
// from bindings, or a non-finite value, is an INVALID_ARGUMENT error.
func (p Param) Resolve(bindings Bindings) (float64, error) {
	v := p.Value
	if p.IsSymbolic() {
		bound, ok := bindings[p.Symbol]
		if !ok {
			return 0, NewInvalidArgument("unbound parameter %q", p.Symbol)
		}
		v = bound
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewInvalidArgument("parameter %s is not finite", p)
	}
	if p.Negated {
		v = -v
	}
	return v, nil
}

// Negate returns the parameter with the opposite sign.
func (p Param) Negate() Param {
	if p.IsSymbolic() {
		p.Negated = !p.Negated
		return p
	}
	p.Value = -p.Value
	return p
}

// String renders p as a literal or as "theta" / "-theta".
func (p Param) String() string {
	if p.IsSymbolic() {
		if p.Negated {
			return "-" + p.Symbol
		}
		return p.Symbol
	}
	return formatFloat(p.Value)
}
