package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Qubit is an opaque qubit label. It never carries state; the register maps
// labels to positions at run time.
type Qubit string

// LineQubit returns the label for the i-th qubit on a line ("q0", "q1", ...).
func LineQubit(i int) Qubit {
	return Qubit(fmt.Sprintf("q%d", i))
}

// LineQubits returns LineQubit(0) through LineQubit(n-1).
func LineQubits(n int) []Qubit {
	qs := make([]Qubit, n)
	for i := range qs {
		qs[i] = LineQubit(i)
	}
	return qs
}

// NamedQubit returns a qubit identified by an arbitrary name.
func NamedQubit(name string) Qubit {
	return Qubit(name)
}

// String implements fmt.Stringer.
func (q Qubit) String() string {
	return string(q)
}

// CompareQubits orders qubits naturally: by non-numeric prefix, then by the
// numeric suffix if both have one, so q2 sorts before q10.
func CompareQubits(a, b Qubit) int {
	ap, an, aok := splitNumericSuffix(string(a))
	bp, bn, bok := splitNumericSuffix(string(b))
	if c := strings.Compare(ap, bp); c != 0 {
		return c
	}
	if aok && bok && an != bn {
		if an < bn {
			return -1
		}
		return 1
	}
	return strings.Compare(string(a), string(b))
}

// SortQubits sorts qs in place using CompareQubits.
func SortQubits(qs []Qubit) {
	slices.SortFunc(qs, CompareQubits)
}

func splitNumericSuffix(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}

// joinQubits renders operands as "a,b,c".
func joinQubits(qs []Qubit) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = string(q)
	}
	return strings.Join(parts, ",")
}
