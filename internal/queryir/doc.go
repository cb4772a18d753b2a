// Package queryir provides a small query intermediate representation for
// reading the run journal.
//
// Callers describe which journal rows they want (runs of one circuit, runs
// on one back end, estimates after a sequence number) without writing SQL.
// The store validates a query against the journal schema and hands it to
// querysql, which compiles it to parameterized SQLite:
//
//	[CLI filters] → [Query IR] → [querysql] → SQLite
//
// SUPPORTED FRAGMENT:
//
//   - Select(from, columns, filter): one table, explicit columns
//   - Predicates: Equals, AtLeast, Prefix, And
//
// Not supported: joins, OR, NULL comparisons, aggregation, SELECT *.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so compilers can switch
// over every case.
//
// VALUES:
//
// Literal values are ir.Value (Str, Int, Bool). Journal seeds are stored as
// decimal text so the full uint64 range survives SQLite's signed integers;
// compare them with ir.Str.
package queryir
