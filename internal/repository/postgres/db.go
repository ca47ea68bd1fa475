package postgres

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql the ride and user stores issue
// queries through. Both *sql.DB and *sql.Tx satisfy it, so a store can
// run inside a caller-owned transaction without a second code path.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
