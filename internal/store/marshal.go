package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/zne"
)

// marshalKeys encodes measurement keys as a canonical JSON array.
func marshalKeys(keys []string) (string, error) {
	arr := make(ir.Array, len(keys))
	for i, k := range keys {
		arr[i] = ir.Str(k)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal keys: %w", err)
	}
	return string(data), nil
}

func unmarshalKeys(data string) ([]string, error) {
	var keys []string
	if err := json.Unmarshal([]byte(data), &keys); err != nil {
		return nil, fmt.Errorf("unmarshal keys: %w", err)
	}
	return keys, nil
}

// marshalPoints encodes scale points as canonical JSON with decimal-string
// numbers.
func marshalPoints(points []zne.Point) (string, error) {
	arr := make(ir.Array, len(points))
	for i, p := range points {
		obj := ir.Object{
			"scale": ir.Float(p.Scale),
			"value": ir.Float(p.Value),
		}
		if p.RunID != "" {
			obj["run_id"] = ir.Str(p.RunID)
		}
		arr[i] = obj
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal points: %w", err)
	}
	return string(data), nil
}

type pointDTO struct {
	Scale string `json:"scale"`
	Value string `json:"value"`
	RunID string `json:"run_id"`
}

func unmarshalPoints(data string) ([]zne.Point, error) {
	var raw []pointDTO
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal points: %w", err)
	}
	points := make([]zne.Point, len(raw))
	for i, r := range raw {
		scale, err := strconv.ParseFloat(r.Scale, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal points: scale: %w", err)
		}
		value, err := strconv.ParseFloat(r.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal points: value: %w", err)
		}
		points[i] = zne.Point{Scale: scale, Value: value, RunID: r.RunID}
	}
	return points, nil
}

// Seeds are full-range uint64, which SQLite INTEGER cannot hold, so they
// are stored as decimal text.
func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func parseSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}
