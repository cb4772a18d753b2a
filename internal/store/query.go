package store

import (
	"context"
	"database/sql"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/queryir"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/querysql"
)

// Schema lists the journal columns that listings may select and filter on.
// Circuit and bindings JSON are only read back by ReadRun.
var Schema = queryir.Schema{
	"runs": {
		"id", "seq", "circuit_hash", "repetitions", "seed", "backend",
		"engine_version", "encoding_version",
	},
	"estimates": {
		"id", "seq", "circuit_hash", "strategy", "noise", "repetitions",
		"mitigated", "slope", "r_squared", "points",
	},
}

// query validates sel against Schema and runs it in logical-clock order.
func (s *Store) query(ctx context.Context, sel queryir.Select) (*sql.Rows, error) {
	if err := queryir.Validate(sel, Schema); err != nil {
		return nil, err
	}
	stmt, params, err := querysql.NewSQLCompiler().Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.db.QueryContext(ctx, stmt, params...)
}
