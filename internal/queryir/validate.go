package queryir

import (
	"errors"
	"fmt"
	"slices"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Schema lists the columns of every queryable table.
type Schema map[string][]string

// Validate checks q against schema: the table and every referenced column
// must exist, columns must be explicit, and literals must be scalars.
// Table and column names are interpolated into SQL, so queries must be
// validated before they are compiled.
//
// All problems are reported, joined with errors.Join.
func Validate(q Query, schema Schema) error {
	v := &validator{schema: schema}
	v.validateQuery(q)
	return errors.Join(v.errs...)
}

type validator struct {
	schema  Schema
	columns []string
	errs    []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addError("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addError("nil query")
			return
		}
		v.validateSelect(*query)
	default:
		v.addError("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	cols, ok := v.schema[sel.From]
	if !ok {
		v.addError("unknown table %q", sel.From)
		return
	}
	v.columns = cols

	if len(sel.Columns) == 0 {
		v.addError("%s: columns must be explicit", sel.From)
	}
	for _, c := range sel.Columns {
		v.checkColumn(c)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) checkColumn(name string) {
	if !slices.Contains(v.columns, name) {
		v.addError("unknown column %q", name)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.checkColumn(pred.Field)
		v.checkScalar(pred.Field, pred.Value)
	case AtLeast:
		v.checkColumn(pred.Field)
		v.checkScalar(pred.Field, pred.Value)
	case Prefix:
		v.checkColumn(pred.Field)
		if pred.Value == "" {
			v.addError("%s: empty prefix", pred.Field)
		}
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case nil:
		v.addError("nil predicate")
	default:
		v.addError("unknown predicate type %T", p)
	}
}

func (v *validator) checkScalar(field string, val ir.Value) {
	switch val.(type) {
	case ir.Str, ir.Int, ir.Bool:
	case nil:
		v.addError("%s: missing value", field)
	default:
		v.addError("%s: %T is not a scalar", field, val)
	}
}
