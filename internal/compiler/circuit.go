package compiler

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Program is a compiled circuit program.
type Program struct {
	// Name is the label under circuit: in the source.
	Name string

	// Circuit holds the operations in program order.
	Circuit ir.Circuit

	// Params are default bindings for symbolic parameters.
	Params ir.Bindings

	// Pos locates the program in its source.
	Pos token.Pos
}

// Bindings returns the program's default parameters overlaid with
// overrides.
func (p *Program) Bindings(overrides ir.Bindings) ir.Bindings {
	out := p.Params.Clone()
	if out == nil {
		out = ir.Bindings{}
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// CompileCircuit parses a CUE value into a Program.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the circuit struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`circuit: bell: { qubits: ["q0", "q1"], ops: [...] }`)
//	prog, err := CompileCircuit(v.LookupPath(cue.ParsePath("circuit.bell")))
//
// Structural problems (wrong CUE types, missing fields) fail immediately with
// a CompileError. Semantic problems such as unknown gates or undeclared
// qubits are left in the circuit for Validate to report.
func CompileCircuit(v cue.Value) (*Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	prog := &Program{Pos: v.Pos()}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		prog.Name = labels[len(labels)-1].String()
	}

	declared, err := parseQubits(v)
	if err != nil {
		return nil, err
	}
	c := ir.NewCircuit(declared...)

	opsVal := v.LookupPath(cue.ParsePath("ops"))
	momentsVal := v.LookupPath(cue.ParsePath("moments"))
	switch {
	case opsVal.Exists() && momentsVal.Exists():
		return nil, &CompileError{
			Field:   "ops",
			Message: "ops and moments are mutually exclusive",
			Pos:     opsVal.Pos(),
		}
	case opsVal.Exists():
		ops, err := parseOps(opsVal, "ops")
		if err != nil {
			return nil, err
		}
		c = c.Append(ops...)
	case momentsVal.Exists():
		iter, err := momentsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			field := fmt.Sprintf("moments[%d]", i)
			ops, err := parseOps(iter.Value(), field)
			if err != nil {
				return nil, err
			}
			m, err := ir.NewMoment(ops...)
			if err != nil {
				return nil, &CompileError{Field: field, Message: err.Error(), Pos: iter.Value().Pos()}
			}
			c = c.AppendMoment(m)
		}
	default:
		return nil, &CompileError{
			Field:   "ops",
			Message: "circuit needs ops or moments",
			Pos:     v.Pos(),
		}
	}
	prog.Circuit = c

	prog.Params, err = parseParams(v)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// parseQubits reads the optional qubits field: a list of labels, or a
// count n meaning q0..q(n-1).
func parseQubits(v cue.Value) ([]ir.Qubit, error) {
	qv := v.LookupPath(cue.ParsePath("qubits"))
	if !qv.Exists() {
		return nil, nil
	}
	switch qv.IncompleteKind() {
	case cue.IntKind:
		n, err := qv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n < 0 {
			return nil, &CompileError{Field: "qubits", Message: fmt.Sprintf("qubit count must be >= 0, got %d", n), Pos: qv.Pos()}
		}
		return ir.LineQubits(int(n)), nil
	case cue.ListKind:
		labels, err := parseStrings(qv, "qubits")
		if err != nil {
			return nil, err
		}
		qs := make([]ir.Qubit, len(labels))
		for i, l := range labels {
			qs[i] = ir.NamedQubit(l)
		}
		return qs, nil
	}
	return nil, &CompileError{
		Field:   "qubits",
		Message: fmt.Sprintf("qubits must be a list of labels or a count, got %v", qv.IncompleteKind()),
		Pos:     qv.Pos(),
	}
}

func parseOps(v cue.Value, field string) ([]ir.Operation, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var ops []ir.Operation
	for i := 0; iter.Next(); i++ {
		op, err := parseOp(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// parseOp reads {gate, on, angle | symbol, p, key}. An unrecognized gate
// name is kept verbatim for Validate to report.
func parseOp(v cue.Value, field string) (ir.Operation, error) {
	gateVal := v.LookupPath(cue.ParsePath("gate"))
	if !gateVal.Exists() {
		return ir.Operation{}, &CompileError{Field: field + ".gate", Message: "gate is required", Pos: v.Pos()}
	}
	name, err := gateVal.String()
	if err != nil {
		return ir.Operation{}, formatCUEError(err)
	}
	kind, err := ir.ParseGateKind(name)
	if err != nil {
		kind = ir.GateKind(strings.ToUpper(name))
	}

	onVal := v.LookupPath(cue.ParsePath("on"))
	if !onVal.Exists() {
		return ir.Operation{}, &CompileError{Field: field + ".on", Message: "on is required", Pos: v.Pos()}
	}
	labels, err := parseStrings(onVal, field+".on")
	if err != nil {
		return ir.Operation{}, err
	}
	qs := make([]ir.Qubit, len(labels))
	for i, l := range labels {
		qs[i] = ir.NamedQubit(l)
	}

	op := ir.Operation{Gate: kind, Qubits: qs}

	angleVal := v.LookupPath(cue.ParsePath("angle"))
	symbolVal := v.LookupPath(cue.ParsePath("symbol"))
	pVal := v.LookupPath(cue.ParsePath("p"))
	switch kind {
	case ir.GateRZ:
		switch {
		case angleVal.Exists() && symbolVal.Exists():
			return ir.Operation{}, &CompileError{Field: field + ".angle", Message: "angle and symbol are mutually exclusive", Pos: angleVal.Pos()}
		case angleVal.Exists():
			theta, err := angleVal.Float64()
			if err != nil {
				return ir.Operation{}, formatCUEError(err)
			}
			op.Param = ir.Literal(theta)
		case symbolVal.Exists():
			sym, err := symbolVal.String()
			if err != nil {
				return ir.Operation{}, formatCUEError(err)
			}
			if sym == "" {
				return ir.Operation{}, &CompileError{Field: field + ".symbol", Message: "symbol must be non-empty", Pos: symbolVal.Pos()}
			}
			op.Param = ir.Symbol(sym)
		default:
			return ir.Operation{}, &CompileError{Field: field + ".angle", Message: "RZ needs angle or symbol", Pos: v.Pos()}
		}
	case ir.GateDepolarize:
		if !pVal.Exists() {
			return ir.Operation{}, &CompileError{Field: field + ".p", Message: "DEPOLARIZE needs p", Pos: v.Pos()}
		}
		p, err := pVal.Float64()
		if err != nil {
			return ir.Operation{}, formatCUEError(err)
		}
		op.Param = ir.Literal(p)
	}

	if kind == ir.GateMeasure {
		keyVal := v.LookupPath(cue.ParsePath("key"))
		if keyVal.Exists() {
			if op.Key, err = keyVal.String(); err != nil {
				return ir.Operation{}, formatCUEError(err)
			}
		}
		if op.Key == "" {
			op = ir.Measure("", qs...)
		}
	}
	return op, nil
}

func parseParams(v cue.Value) (ir.Bindings, error) {
	pv := v.LookupPath(cue.ParsePath("params"))
	if !pv.Exists() {
		return nil, nil
	}
	iter, err := pv.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	params := ir.Bindings{}
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, &CompileError{Field: "params." + iter.Label(), Message: err.Error(), Pos: iter.Value().Pos()}
		}
		params[iter.Label()] = f
	}
	return params, nil
}

func parseStrings(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a list of strings", Pos: v.Pos()}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileAll compiles every program under the circuit: field of v. It
// collects one error per failing program.
func CompileAll(v cue.Value) ([]*Program, []error) {
	circuits := v.LookupPath(cue.ParsePath("circuit"))
	if !circuits.Exists() {
		return nil, nil
	}
	iter, err := circuits.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}
	var progs []*Program
	var errs []error
	for iter.Next() {
		prog, err := CompileCircuit(iter.Value())
		if err != nil {
			errs = append(errs, fmt.Errorf("circuit.%s: %w", iter.Label(), err))
			continue
		}
		progs = append(progs, prog)
	}
	return progs, errs
}

// BuildValue reads the given CUE files and unifies them into one value.
func BuildValue(paths ...string) (cue.Value, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString("")
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("read %s: %w", path, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		value = value.Unify(v)
	}
	if err := value.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

// CompileFiles reads and unifies the given CUE files and compiles every
// program they define.
func CompileFiles(paths ...string) ([]*Program, error) {
	value, err := BuildValue(paths...)
	if err != nil {
		return nil, err
	}
	progs, errs := CompileAll(value)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return progs, nil
}

// Find returns the program named name.
func Find(progs []*Program, name string) (*Program, bool) {
	for _, p := range progs {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
