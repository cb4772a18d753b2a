package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CircuitValue converts c to its canonical value tree.
func CircuitValue(c Circuit) Object {
	moments := make(Array, len(c.moments))
	for i, m := range c.moments {
		ops := make(Array, len(m.ops))
		for j, op := range m.ops {
			ops[j] = operationValue(op)
		}
		moments[i] = ops
	}
	return Object{
		"version": Str(EncodingVersion),
		"qubits":  Qubits(c.declared),
		"moments": moments,
	}
}

func operationValue(op Operation) Object {
	obj := Object{
		"gate":   Str(op.Gate),
		"qubits": Qubits(op.Qubits),
	}
	if op.Gate.Parametrized() {
		param := Object{}
		if op.Param.IsSymbolic() {
			param["symbol"] = Str(op.Param.Symbol)
		} else {
			param["value"] = Float(op.Param.Value)
		}
		if op.Param.Negated {
			param["negated"] = Bool(true)
		}
		obj["param"] = param
	}
	if op.IsMeasurement() {
		obj["key"] = Str(op.Key)
	}
	return obj
}

// EncodeCircuit returns the canonical JSON encoding of c.
func EncodeCircuit(c Circuit) ([]byte, error) {
	return MarshalCanonical(CircuitValue(c))
}

type circuitDTO struct {
	Version string           `json:"version"`
	Qubits  []string         `json:"qubits"`
	Moments [][]operationDTO `json:"moments"`
}

type operationDTO struct {
	Gate   string    `json:"gate"`
	Qubits []string  `json:"qubits"`
	Param  *paramDTO `json:"param,omitempty"`
	Key    string    `json:"key,omitempty"`
}

type paramDTO struct {
	Value   string `json:"value,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Negated bool   `json:"negated,omitempty"`
}

// DecodeCircuit parses a circuit produced by EncodeCircuit.
func DecodeCircuit(data []byte) (Circuit, error) {
	var dto circuitDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return Circuit{}, fmt.Errorf("decode circuit: %w", err)
	}
	if dto.Version != EncodingVersion {
		return Circuit{}, fmt.Errorf("decode circuit: unsupported encoding version %q", dto.Version)
	}

	c := NewCircuit(toQubits(dto.Qubits)...)
	for i, mdto := range dto.Moments {
		ops := make([]Operation, len(mdto))
		for j, odto := range mdto {
			op, err := odto.operation()
			if err != nil {
				return Circuit{}, fmt.Errorf("decode circuit: moment %d op %d: %w", i, j, err)
			}
			ops[j] = op
		}
		m, err := NewMoment(ops...)
		if err != nil {
			return Circuit{}, fmt.Errorf("decode circuit: moment %d: %w", i, err)
		}
		c.moments = append(c.moments, m)
	}
	return c, nil
}

func (d operationDTO) operation() (Operation, error) {
	kind, err := ParseGateKind(d.Gate)
	if err != nil {
		return Operation{}, err
	}
	op := Operation{Gate: kind, Qubits: toQubits(d.Qubits), Key: d.Key}
	if d.Param != nil {
		op.Param.Symbol = d.Param.Symbol
		op.Param.Negated = d.Param.Negated
		if d.Param.Value != "" {
			v, err := strconv.ParseFloat(d.Param.Value, 64)
			if err != nil {
				return Operation{}, fmt.Errorf("param value %q: %w", d.Param.Value, err)
			}
			op.Param.Value = v
		}
	}
	return op, nil
}

func toQubits(names []string) []Qubit {
	if len(names) == 0 {
		return nil
	}
	qs := make([]Qubit, len(names))
	for i, n := range names {
		qs[i] = Qubit(n)
	}
	return qs
}

// EncodeBindings returns the canonical JSON encoding of b, with values as
// decimal strings.
func EncodeBindings(b Bindings) ([]byte, error) {
	obj := make(Object, len(b))
	for k, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, NewInvalidArgument("binding %q is not finite", k)
		}
		obj[k] = Float(v)
	}
	return MarshalCanonical(obj)
}

// DecodeBindings parses bindings produced by EncodeBindings.
func DecodeBindings(data []byte) (Bindings, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode bindings: %w", err)
	}
	b := make(Bindings, len(raw))
	for k, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("decode bindings: %q: %w", k, err)
		}
		b[k] = v
	}
	return b, nil
}
