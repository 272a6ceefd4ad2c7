package xlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/go-mizu/xlite/internal/logger"
)

// MemoryPath opens a private in-memory database that lives as long as the DB.
const MemoryPath = ":memory:"

const driverName = "sqlite"

// DB owns exactly one engine connection. It is released by Close; every use
// after Close, or of a nil *DB, fails with ErrClosed.
//
// A DB is not meant to be shared between goroutines without external locking
// around each logical operation: statements run one after another on the
// single connection, but multi-statement helpers such as a check followed by
// an insert are not atomic.
type DB struct {
	path string
	pool *sql.DB
	conn *sql.Conn
}

type pragma struct{ name, value string }

type options struct {
	pragmas []pragma
}

// Option configures Open.
type Option func(*options)

// WithPragma runs "PRAGMA name = value" right after the connection opens.
// Both parts are trusted text and are not escaped.
func WithPragma(name, value string) Option {
	return func(o *options) { o.pragmas = append(o.pragmas, pragma{name: name, value: value}) }
}

// WithForeignKeys enables foreign key enforcement.
func WithForeignKeys() Option { return WithPragma("foreign_keys", "ON") }

// Open opens the database at path, or a private in-memory database for
// MemoryPath. On failure it returns a nil *DB and an error matching ErrOpen;
// no partially opened handle is ever returned.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, newError(ErrOpen, "", errors.New("empty database path"))
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := sql.Open(driverName, path)
	if err != nil {
		return nil, newError(ErrOpen, "", err)
	}
	// One connection: an in-memory database exists per connection.
	pool.SetMaxOpenConns(1)

	conn, err := pool.Conn(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, newError(ErrOpen, "", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = pool.Close()
		return nil, newError(ErrOpen, "", err)
	}
	for _, p := range o.pragmas {
		q := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := conn.ExecContext(ctx, q); err != nil {
			_ = conn.Close()
			_ = pool.Close()
			return nil, newError(ErrOpen, q, err)
		}
	}

	logger.Info("open %s", path)
	return &DB{path: path, pool: pool, conn: conn}, nil
}

// Path returns the target the DB was opened on.
func (d *DB) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Close releases the connection. Closing a nil or already closed DB is a no-op.
func (d *DB) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	err := errors.Join(d.conn.Close(), d.pool.Close())
	d.conn, d.pool = nil, nil
	if err != nil {
		logger.Warn("close %s: %v", d.path, err)
		return err
	}
	logger.Info("close %s", d.path)
	return nil
}

// PrepareContext implements Preparer on the pinned connection.
func (d *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	if d == nil || d.conn == nil {
		return nil, ErrClosed
	}
	return d.conn.PrepareContext(ctx, query)
}

// ExecContext implements Execer on the pinned connection.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if d == nil || d.conn == nil {
		return nil, ErrClosed
	}
	return d.conn.ExecContext(ctx, query, args...)
}
