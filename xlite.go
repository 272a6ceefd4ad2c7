package xlite

import (
	"context"
	"database/sql"
)

// Preparer is implemented by *DB, *sql.DB, *sql.Conn and *sql.Tx.
// It compiles SQL text into a statement.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Execer is implemented by *DB, *sql.DB, *sql.Conn and *sql.Tx.
// It runs SQL that returns no rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Conn is the full surface the materializer and the handbook helpers need.
type Conn interface {
	Preparer
	Execer
}

var (
	_ Conn = (*DB)(nil)
	_ Conn = (*sql.DB)(nil)
	_ Conn = (*sql.Conn)(nil)
	_ Conn = (*sql.Tx)(nil)
)
