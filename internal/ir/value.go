package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the values allowed in canonical JSON.
// Only Str, Int, Bool, Array and Object implement it. There is no float
// variant; real numbers are carried as decimal strings.
type Value interface {
	canonicalValue()
}

// Str is a string value.
type Str string

func (Str) canonicalValue() {}

// Int is an integer value.
type Int int64

func (Int) canonicalValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) canonicalValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) canonicalValue() {}

// Object maps string keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) canonicalValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's string comparison uses UTF-8 bytes, which orders some keys differently.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Float returns v as a canonical decimal string value.
func Float(v float64) Str {
	return Str(formatFloat(v))
}

// Qubits converts a qubit list to an Array of Str.
func Qubits(qs []Qubit) Array {
	arr := make(Array, len(qs))
	for i, q := range qs {
		arr[i] = Str(q)
	}
	return arr
}
