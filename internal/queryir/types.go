package queryir

import "github.com/padmarajnidagundi/Quantum-Programming/internal/ir"

// Query represents an abstract read in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a row filter in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: field = literal
//   - AtLeast: field >= literal
//   - Prefix: field starts with a string
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select reads Columns from the rows of From that satisfy Filter.
//
// Example:
//
//	Select{
//	  From:    "runs",
//	  Columns: []string{"id", "seq"},
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: "backend", Value: ir.Str("density_matrix")},
//	    AtLeast{Field: "seq", Value: ir.Int(10)},
//	  }},
//	}
//
// Translates to SQL:
//
//	SELECT id, seq FROM runs
//	WHERE backend = ? AND seq >= ?
//	ORDER BY seq ASC, id COLLATE BINARY ASC
type Select struct {
	From    string    // Journal table (e.g., "runs")
	Columns []string  // Columns in result order
	Filter  Predicate // WHERE conditions (nil = every row)
}

func (Select) queryNode() {}

// Equals matches rows whose field equals a literal.
type Equals struct {
	Field string
	Value ir.Value
}

func (Equals) predicateNode() {}

// AtLeast matches rows whose field is >= a literal. Use it on integer
// columns such as seq and repetitions.
type AtLeast struct {
	Field string
	Value ir.Value
}

func (AtLeast) predicateNode() {}

// Prefix matches rows whose text field starts with Value. Circuit hashes
// are printed abbreviated, so filters accept a prefix.
type Prefix struct {
	Field string
	Value string
}

func (Prefix) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty And matches every row.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// All combines preds into one predicate, dropping nils. It returns nil when
// nothing is left and the single predicate when only one is.
func All(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return And{Predicates: kept}
}
