package engine

import (
	"errors"
	"fmt"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// Default qubit quotas. A state vector of n qubits holds 2^n amplitudes; a
// density matrix holds 4^n entries.
const (
	DefaultMaxQubits        = 16
	DefaultMaxDensityQubits = 8
)

// QubitLimitError is returned when a circuit needs more qubits than the
// simulator's quota for the selected back end.
//
// It unwraps to a DIMENSION error, so ir.IsDimensionError matches it.
type QubitLimitError struct {
	Qubits  int     // Qubits the circuit needs
	Limit   int     // Quota for the back end
	Backend Backend // Back end the quota applies to
}

// Error implements the error interface.
func (e *QubitLimitError) Error() string {
	return fmt.Sprintf("circuit needs %d qubits, %s back end allows %d", e.Qubits, e.Backend, e.Limit)
}

// Unwrap exposes the underlying DIMENSION error.
func (e *QubitLimitError) Unwrap() error {
	return ir.NewDimensionError("%s", e.Error())
}

// IsQubitLimitError reports whether err is a QubitLimitError.
// Uses errors.As to handle wrapped errors.
func IsQubitLimitError(err error) bool {
	var le *QubitLimitError
	return errors.As(err, &le)
}

// checkQuota enforces the qubit limit for backend.
func (s *Simulator) checkQuota(n int, backend Backend) error {
	limit := s.maxQubits
	if backend == BackendDensityMatrix {
		limit = s.maxDensityQubits
	}
	if n > limit {
		return &QubitLimitError{Qubits: n, Limit: limit, Backend: backend}
	}
	return nil
}
