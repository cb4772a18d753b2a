package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/queryir"
)

func TestCompile_Select(t *testing.T) {
	tests := []struct {
		name       string
		query      queryir.Query
		wantSQL    string
		wantParams []any
	}{
		{
			name:    "no filter",
			query:   queryir.Select{From: "runs", Columns: []string{"id", "seq"}},
			wantSQL: "SELECT id, seq FROM runs ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
		{
			name: "equals string",
			query: queryir.Select{
				From:    "runs",
				Columns: []string{"id"},
				Filter:  queryir.Equals{Field: "backend", Value: ir.Str("density_matrix")},
			},
			wantSQL:    "SELECT id FROM runs WHERE backend = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			wantParams: []any{"density_matrix"},
		},
		{
			name: "at least int",
			query: &queryir.Select{
				From:    "estimates",
				Columns: []string{"id"},
				Filter:  queryir.AtLeast{Field: "seq", Value: ir.Int(5)},
			},
			wantSQL:    "SELECT id FROM estimates WHERE seq >= ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			wantParams: []any{int64(5)},
		},
		{
			name: "prefix",
			query: queryir.Select{
				From:    "runs",
				Columns: []string{"id"},
				Filter:  queryir.Prefix{Field: "circuit_hash", Value: "ab%_"},
			},
			wantSQL:    "SELECT id FROM runs WHERE substr(circuit_hash, 1, ?) = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			wantParams: []any{4, "ab%_"},
		},
		{
			name: "conjunction keeps parameter order",
			query: queryir.Select{
				From:    "runs",
				Columns: []string{"id"},
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.Equals{Field: "backend", Value: ir.Str("state_vector")},
					queryir.And{Predicates: []queryir.Predicate{
						queryir.AtLeast{Field: "seq", Value: ir.Int(2)},
						queryir.Equals{Field: "seed", Value: ir.Str("7")},
					}},
				}},
			},
			wantSQL:    "SELECT id FROM runs WHERE backend = ? AND seq >= ? AND seed = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			wantParams: []any{"state_vector", int64(2), "7"},
		},
		{
			name: "empty and is vacuously true",
			query: queryir.Select{
				From:    "runs",
				Columns: []string{"id"},
				Filter:  queryir.And{},
			},
			wantSQL: "SELECT id FROM runs WHERE 1 = 1 ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestCompile_ValuesAreNeverInterpolated(t *testing.T) {
	evil := "x' OR '1'='1"
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{
		From:    "runs",
		Columns: []string{"id"},
		Filter:  queryir.Equals{Field: "backend", Value: ir.Str(evil)},
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, evil)
	assert.Equal(t, []any{evil}, params)
}

func TestCompile_CustomOrder(t *testing.T) {
	c := &SQLCompiler{OrderBy: []string{"id COLLATE BINARY ASC"}}
	sql, _, err := c.Compile(queryir.Select{From: "runs", Columns: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM runs ORDER BY id COLLATE BINARY ASC", sql)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		compiler *SQLCompiler
		query    queryir.Query
		wantErr  string
	}{
		{"nil query", NewSQLCompiler(), nil, "nil query"},
		{"nil pointer", NewSQLCompiler(), (*queryir.Select)(nil), "nil query"},
		{"no columns", NewSQLCompiler(), queryir.Select{From: "runs"}, "no columns"},
		{"no order", &SQLCompiler{}, queryir.Select{From: "runs", Columns: []string{"id"}}, "no ORDER BY"},
		{
			"array literal",
			NewSQLCompiler(),
			queryir.Select{From: "runs", Columns: []string{"id"}, Filter: queryir.Equals{Field: "seed", Value: ir.Array{}}},
			"ir.Array cannot be used as SQL parameter",
		},
		{
			"missing literal",
			NewSQLCompiler(),
			queryir.Select{From: "runs", Columns: []string{"id"}, Filter: queryir.AtLeast{Field: "seq"}},
			"seq: missing value",
		},
		{
			"nil predicate",
			NewSQLCompiler(),
			queryir.Select{From: "runs", Columns: []string{"id"}, Filter: queryir.And{Predicates: []queryir.Predicate{nil}}},
			"unsupported predicate type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.compiler.Compile(tt.query)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
