package ir

import (
	"slices"
	"strconv"
)

// Moment is a set of operations applied simultaneously. No qubit appears in
// more than one operation of a moment. A Moment is immutable once built.
type Moment struct {
	ops []Operation
}

// NewMoment builds a moment from ops. Operations sharing a qubit are a
// QUBIT_INDEX error.
func NewMoment(ops ...Operation) (Moment, error) {
	seen := make(map[Qubit]bool)
	cloned := make([]Operation, len(ops))
	for i, op := range ops {
		for _, q := range op.Qubits {
			if seen[q] {
				return Moment{}, NewQubitIndexError(q, "qubit %s appears twice in one moment", q)
			}
			seen[q] = true
		}
		cloned[i] = op.Clone()
	}
	return Moment{ops: cloned}, nil
}

// MustMoment is like NewMoment but panics on error.
// Use only in tests or when operands are known to be disjoint.
func MustMoment(ops ...Operation) Moment {
	m, err := NewMoment(ops...)
	if err != nil {
		panic(err)
	}
	return m
}

// Operations returns a copy of the moment's operations in insertion order.
func (m Moment) Operations() []Operation {
	out := make([]Operation, len(m.ops))
	for i, op := range m.ops {
		out[i] = op.Clone()
	}
	return out
}

// Len returns the number of operations in the moment.
func (m Moment) Len() int {
	return len(m.ops)
}

// HasMeasurement reports whether any operation in m is a measurement.
func (m Moment) HasMeasurement() bool {
	return slices.ContainsFunc(m.ops, Operation.IsMeasurement)
}

// Touches reports whether any operation in m acts on q.
func (m Moment) Touches(q Qubit) bool {
	for _, op := range m.ops {
		if slices.Contains(op.Qubits, q) {
			return true
		}
	}
	return false
}

// Equal reports whether m and other hold identical operations in the same order.
func (m Moment) Equal(other Moment) bool {
	return slices.EqualFunc(m.ops, other.ops, Operation.Equal)
}

func (m Moment) disjoint(op Operation) bool {
	for _, q := range op.Qubits {
		if m.Touches(q) {
			return false
		}
	}
	return true
}

func (m Moment) with(op Operation) Moment {
	ops := make([]Operation, len(m.ops), len(m.ops)+1)
	copy(ops, m.ops)
	return Moment{ops: append(ops, op.Clone())}
}

// Circuit is an immutable ordered sequence of moments over an optional
// declared qubit set. The zero value is an empty circuit with no declared
// qubits.
type Circuit struct {
	declared []Qubit
	moments  []Moment
}

// NewCircuit returns an empty circuit. When declared is non-empty, every
// operation must reference only those qubits (checked by Validate) and the
// register is laid out in declared order.
func NewCircuit(declared ...Qubit) Circuit {
	return Circuit{declared: slices.Clone(declared)}
}

// FromMoments returns a circuit holding the given moments in order.
func FromMoments(moments ...Moment) Circuit {
	return Circuit{moments: slices.Clone(moments)}
}

// WithQubits returns a copy of c with the declared qubit set replaced.
func (c Circuit) WithQubits(declared ...Qubit) Circuit {
	return Circuit{declared: slices.Clone(declared), moments: slices.Clone(c.moments)}
}

// Append returns a new circuit with ops added in order. Each operation joins
// the current last moment when it shares no qubit with it, otherwise it
// starts a new trailing moment.
func (c Circuit) Append(ops ...Operation) Circuit {
	out := Circuit{
		declared: slices.Clone(c.declared),
		moments:  slices.Clone(c.moments),
	}
	for _, op := range ops {
		last := len(out.moments) - 1
		if last >= 0 && out.moments[last].disjoint(op) {
			out.moments[last] = out.moments[last].with(op)
			continue
		}
		out.moments = append(out.moments, Moment{}.with(op))
	}
	return out
}

// AppendMoment returns a new circuit with m added verbatim as the last moment.
func (c Circuit) AppendMoment(m Moment) Circuit {
	moments := make([]Moment, len(c.moments), len(c.moments)+1)
	copy(moments, c.moments)
	return Circuit{declared: slices.Clone(c.declared), moments: append(moments, m)}
}

// Concatenate returns c's moments followed by other's. Declared qubits are
// merged in first-seen order when either side declares any.
func (c Circuit) Concatenate(other Circuit) Circuit {
	moments := make([]Moment, 0, len(c.moments)+len(other.moments))
	moments = append(moments, c.moments...)
	moments = append(moments, other.moments...)

	var declared []Qubit
	if len(c.declared) > 0 || len(other.declared) > 0 {
		declared = slices.Clone(c.declared)
		for _, q := range other.declared {
			if !slices.Contains(declared, q) {
				declared = append(declared, q)
			}
		}
	}
	return Circuit{declared: declared, moments: moments}
}

// Moments returns a copy of the moment sequence.
func (c Circuit) Moments() []Moment {
	return slices.Clone(c.moments)
}

// Moment returns the i-th moment.
func (c Circuit) Moment(i int) Moment {
	return c.moments[i]
}

// Len returns the number of moments.
func (c Circuit) Len() int {
	return len(c.moments)
}

// NumOperations returns the total operation count.
func (c Circuit) NumOperations() int {
	n := 0
	for _, m := range c.moments {
		n += m.Len()
	}
	return n
}

// Operations returns every operation in moment order.
func (c Circuit) Operations() []Operation {
	ops := make([]Operation, 0, c.NumOperations())
	for _, m := range c.moments {
		ops = append(ops, m.Operations()...)
	}
	return ops
}

// DeclaredQubits returns the declared qubit set, or nil if none was declared.
func (c Circuit) DeclaredQubits() []Qubit {
	return slices.Clone(c.declared)
}

// AllQubits returns every qubit referenced by an operation, sorted with
// CompareQubits.
func (c Circuit) AllQubits() []Qubit {
	seen := make(map[Qubit]bool)
	var qs []Qubit
	for _, m := range c.moments {
		for _, op := range m.ops {
			for _, q := range op.Qubits {
				if !seen[q] {
					seen[q] = true
					qs = append(qs, q)
				}
			}
		}
	}
	SortQubits(qs)
	return qs
}

// Qubits returns the register layout: the declared qubits if any were
// declared, otherwise AllQubits.
func (c Circuit) Qubits() []Qubit {
	if len(c.declared) > 0 {
		return slices.Clone(c.declared)
	}
	return c.AllQubits()
}

// HasNoise reports whether any operation is a noise channel.
func (c Circuit) HasNoise() bool {
	for _, m := range c.moments {
		if slices.ContainsFunc(m.ops, Operation.IsChannel) {
			return true
		}
	}
	return false
}

// HasMeasurements reports whether any operation is a measurement.
func (c Circuit) HasMeasurements() bool {
	return slices.ContainsFunc(c.moments, Moment.HasMeasurement)
}

// MeasurementKeys returns measurement keys in first-appearance order.
func (c Circuit) MeasurementKeys() []string {
	var keys []string
	for _, m := range c.moments {
		for _, op := range m.ops {
			if op.IsMeasurement() && !slices.Contains(keys, op.Key) {
				keys = append(keys, op.Key)
			}
		}
	}
	return keys
}

// Equal reports whether c and other are structurally identical: same
// declared qubits and the same moment sequence.
func (c Circuit) Equal(other Circuit) bool {
	return slices.Equal(c.declared, other.declared) &&
		slices.EqualFunc(c.moments, other.moments, Moment.Equal)
}

// Validate checks every operation against the catalog and, when qubits are
// declared, that every operand is one of them.
func (c Circuit) Validate() error {
	declared := make(map[Qubit]bool, len(c.declared))
	for _, q := range c.declared {
		if declared[q] {
			return NewQubitIndexError(q, "qubit %s declared twice", q)
		}
		declared[q] = true
	}
	for i, m := range c.moments {
		for _, op := range m.ops {
			if err := op.Validate(); err != nil {
				return annotate(err, i)
			}
			if len(declared) == 0 {
				continue
			}
			for _, q := range op.Qubits {
				if !declared[q] {
					return annotate(NewQubitIndexError(q, "%s references undeclared qubit %s", op.Gate, q), i)
				}
			}
		}
	}
	return nil
}

func annotate(err error, moment int) error {
	if e, ok := err.(*Error); ok {
		if e.Details == nil {
			e.Details = map[string]string{}
		}
		e.Details["moment"] = strconv.Itoa(moment)
	}
	return err
}
