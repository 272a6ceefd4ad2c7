package xlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-mizu/xlite/internal/logger"
)

// stmtState tracks a statement through Prepared → Bound → Executing → Finalized.
type stmtState uint8

const (
	statePrepared stmtState = iota
	stateBound
	stateExecuting
	stateFinalized
)

func (s stmtState) String() string {
	switch s {
	case statePrepared:
		return "prepared"
	case stateBound:
		return "bound"
	case stateExecuting:
		return "executing"
	default:
		return "finalized"
	}
}

// Stmt is one compiled SQL statement plus its bound parameters. It is owned by
// the caller that prepared it and must be released with Close, normally via
// defer right after Prepare.
type Stmt struct {
	sql   string
	st    *sql.Stmt
	info  sqlInfo
	args  []any
	state stmtState
	cur   *Cursor
}

// Result reports the effect of a statement executed with Stmt.Exec.
type Result struct {
	// LastInsertID is the rowid of the most recent successful INSERT on the connection.
	LastInsertID int64
	// RowsAffected is the number of rows changed by the statement.
	RowsAffected int64
}

// Prepare compiles a single SQL statement. Compilation errors (syntax, unknown
// table or column, trailing second statement) return an *Error matching
// ErrPrepare that carries the engine message and the SQL text.
//
// Compilation is checked with an EXPLAIN of the same text on p. When p is a
// pooled *sql.DB every connection in the pool must see the same schema; an
// in-memory database needs a *DB or a *sql.Conn.
func Prepare(ctx context.Context, p Preparer, query string) (*Stmt, error) {
	if p == nil {
		return nil, newError(ErrPrepare, query, ErrClosed)
	}
	info, err := scanSQL(query)
	if err != nil {
		return nil, newError(ErrPrepare, query, err)
	}
	if info.empty {
		return nil, newError(ErrPrepare, query, errors.New("empty statement"))
	}
	if info.tail {
		return nil, newError(ErrPrepare, query, errors.New("more than one statement"))
	}

	logger.Debug("prepare: %s", query)
	st, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, newError(ErrPrepare, query, err)
	}
	if err := compile(ctx, p, query, info); err != nil {
		_ = st.Close()
		return nil, newError(ErrPrepare, query, err)
	}
	return &Stmt{sql: query, st: st, info: info}, nil
}

// compile forces the engine to compile query without running it. Some drivers,
// the pure Go SQLite driver among them, defer compilation to the first step,
// which would report a bad statement as a step failure.
func compile(ctx context.Context, p Preparer, query string, info sqlInfo) error {
	if leadingKeyword(query) == "EXPLAIN" {
		return nil
	}
	probe, err := p.PrepareContext(ctx, "EXPLAIN "+query)
	if err != nil {
		return err
	}
	defer func() { _ = probe.Close() }()

	rows, err := probe.QueryContext(ctx, info.args(make([]any, info.params))...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
	}
	return rows.Err()
}

// SQL returns the statement text.
func (s *Stmt) SQL() string {
	if s == nil {
		return ""
	}
	return s.sql
}

// NumParams reports the number of parameter slots in the statement.
func (s *Stmt) NumParams() int {
	if s == nil {
		return 0
	}
	return s.info.params
}

// Bind attaches values to the placeholders in order, starting at position 1.
// Each value must convert to a Value (see ValueOf), and the count must equal
// NumParams exactly. Binding again replaces the previous set.
func (s *Stmt) Bind(values ...any) error {
	if s == nil || s.state == stateFinalized {
		return newError(ErrBind, s.SQL(), ErrClosed)
	}
	if len(values) != s.info.params {
		return newError(ErrBind, s.sql,
			fmt.Errorf("statement has %d parameters, %d values supplied", s.info.params, len(values)))
	}
	args := make([]any, len(values))
	for i, x := range values {
		v, err := ValueOf(x)
		if err != nil {
			return newError(ErrBind, s.sql, fmt.Errorf("parameter %d: %w", i+1, err))
		}
		args[i] = v.driverArg()
	}
	s.closeCursor()
	s.args = s.info.args(args)
	s.state = stateBound
	logger.Debug("bind: %d values", len(args))
	return nil
}

func (s *Stmt) ready() error {
	if s == nil || s.state == stateFinalized {
		return ErrClosed
	}
	if s.info.params > 0 && s.state == statePrepared {
		return fmt.Errorf("statement has %d parameters, none bound", s.info.params)
	}
	return nil
}

// Exec runs the statement once; use it for INSERT, UPDATE, DELETE and DDL.
// Any engine failure returns an *Error matching ErrStep.
func (s *Stmt) Exec(ctx context.Context) (Result, error) {
	if err := s.ready(); err != nil {
		kind := ErrStep
		if !errors.Is(err, ErrClosed) {
			kind = ErrBind
		}
		return Result{}, newError(kind, s.SQL(), err)
	}
	s.closeCursor()
	s.state = stateExecuting

	logger.Debug("step: %s", s.sql)
	res, err := s.st.ExecContext(ctx, s.args...)
	if err != nil {
		return Result{}, newError(ErrStep, s.sql, err)
	}
	var out Result
	if out.LastInsertID, err = res.LastInsertId(); err != nil {
		return Result{}, newError(ErrStep, s.sql, err)
	}
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return Result{}, newError(ErrStep, s.sql, err)
	}
	return out, nil
}

// Query starts row iteration, converting each row to shape. A statement has at
// most one live Cursor: calling Query again closes the previous one.
func (s *Stmt) Query(ctx context.Context, shape Shape) (*Cursor, error) {
	if err := s.ready(); err != nil {
		kind := ErrStep
		if !errors.Is(err, ErrClosed) {
			kind = ErrBind
		}
		return nil, newError(kind, s.SQL(), err)
	}
	if err := shape.validate(); err != nil {
		return nil, newError(ErrStep, s.sql, err)
	}
	s.closeCursor()
	s.state = stateExecuting

	logger.Debug("step: %s", s.sql)
	rows, err := s.st.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, newError(ErrStep, s.sql, err)
	}
	s.cur = &Cursor{sql: s.sql, rows: rows, shape: shape}
	return s.cur, nil
}

// Close finalizes the statement and any live Cursor. It is safe to call more
// than once and on a nil *Stmt.
func (s *Stmt) Close() error {
	if s == nil || s.state == stateFinalized {
		return nil
	}
	cerr := s.closeCursor()
	err := s.st.Close()
	s.state = stateFinalized
	logger.Debug("finalize: %s", s.sql)
	if err := errors.Join(cerr, err); err != nil {
		logger.Warn("finalize %s: %v", s.sql, err)
		return err
	}
	return nil
}

func (s *Stmt) closeCursor() error {
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur = nil
	return err
}

// Cursor walks the rows of one execution. It cannot be restarted.
type Cursor struct {
	sql   string
	rows  *sql.Rows
	shape Shape
	row   Row
	err   error
	ncols int
	done  bool
}

// Next advances to the next row. It returns false when rows are exhausted or
// an error occurred; check Err afterwards.
func (c *Cursor) Next() bool {
	if c == nil || c.done {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = newError(ErrStep, c.sql, err)
		}
		c.finish()
		return false
	}
	row, err := c.scan()
	if err != nil {
		c.err = newError(ErrStep, c.sql, err)
		c.finish()
		return false
	}
	c.row = row
	return true
}

func (c *Cursor) scan() (Row, error) {
	if c.ncols == 0 {
		cols, err := c.rows.Columns()
		if err != nil {
			return nil, err
		}
		if len(cols) < len(c.shape) {
			return nil, fmt.Errorf("%w: shape has %d slots, query returns %d columns",
				ErrType, len(c.shape), len(cols))
		}
		c.ncols = len(cols)
	}
	raw := make([]any, c.ncols)
	dests := make([]any, c.ncols)
	for i := range raw {
		dests[i] = &raw[i]
	}
	if err := c.rows.Scan(dests...); err != nil {
		return nil, err
	}
	row := make(Row, len(c.shape))
	for i, k := range c.shape {
		v, err := convert(k, raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

// Row returns the current row. It is valid until the next call to Next.
func (c *Cursor) Row() Row { return c.row }

// Err returns the error, if any, that stopped iteration.
func (c *Cursor) Err() error { return c.err }

// Close releases the result set. It is idempotent.
func (c *Cursor) Close() error {
	if c == nil || c.done {
		return nil
	}
	return c.finish()
}

func (c *Cursor) finish() error {
	c.done = true
	c.row = nil
	return c.rows.Close()
}
