package xlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// openMemory opens a fresh in-memory database closed at test end.
func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- Minimal in-test driver for engine failures SQLite cannot produce on demand ---

type DBHandler func(query string, args []driver.Value) (cols []string, rows [][]driver.Value, err error)

type testConnector struct {
	h       DBHandler
	nextErr error // returned by Rows.Next once the handler rows are consumed
}

func (c *testConnector) Connect(context.Context) (driver.Conn, error) { return &testConn{c: c}, nil }
func (c *testConnector) Driver() driver.Driver                        { return testDriver{} }

type testDriver struct{}

func (testDriver) Open(name string) (driver.Conn, error) {
	return nil, errors.New("testDriver.Open should not be called; use sql.OpenDB with connector")
}

type testConn struct{ c *testConnector }

func (c *testConn) Prepare(query string) (driver.Stmt, error) {
	return &testStmt{c: c.c, query: query}, nil
}
func (c *testConn) Close() error              { return nil }
func (c *testConn) Begin() (driver.Tx, error) { return nil, driver.ErrSkip }

type testStmt struct {
	c     *testConnector
	query string
}

func (s *testStmt) Close() error  { return nil }
func (s *testStmt) NumInput() int { return -1 }

func (s *testStmt) Exec(args []driver.Value) (driver.Result, error) {
	_, rows, err := s.c.h(s.query, args)
	if err != nil {
		return nil, err
	}
	return driver.RowsAffected(len(rows)), nil
}

func (s *testStmt) Query(args []driver.Value) (driver.Rows, error) {
	if strings.HasPrefix(s.query, "EXPLAIN ") {
		return &testRows{}, nil
	}
	cols, data, err := s.c.h(s.query, args)
	if err != nil {
		return nil, err
	}
	return &testRows{cols: cols, data: data, nextErr: s.c.nextErr}, nil
}

type testRows struct {
	cols    []string
	data    [][]driver.Value
	nextErr error
	i       int
}

func (r *testRows) Columns() []string { return append([]string(nil), r.cols...) }
func (r *testRows) Close() error      { return nil }
func (r *testRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		if r.nextErr != nil {
			return r.nextErr
		}
		return io.EOF
	}
	row := r.data[r.i]
	for i := range dest {
		if i < len(row) {
			dest[i] = row[i]
		} else {
			dest[i] = nil
		}
	}
	r.i++
	return nil
}

// newTestDB creates a *sql.DB backed by the in-test driver.
func newTestDB(t *testing.T, h DBHandler, nextErr error) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&testConnector{h: h, nextErr: nextErr})
	t.Cleanup(func() { _ = db.Close() })
	return db
}
