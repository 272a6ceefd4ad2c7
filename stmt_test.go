package xlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCountry(t *testing.T) *DB {
	t.Helper()
	db := openMemory(t)
	require.NoError(t, Exec(context.Background(), db,
		"CREATE TABLE country(id INTEGER NOT NULL PRIMARY KEY, name TEXT NOT NULL DEFAULT '');"))
	return db
}

func TestPrepare_SyntaxError(t *testing.T) {
	db := openMemory(t)

	st, err := Prepare(context.Background(), db, "SELEC 1")
	assert.Nil(t, st)
	require.ErrorIs(t, err, ErrPrepare)

	var xe *Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, "SELEC 1", xe.SQL)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, err.Error(), "SQL command: SELEC 1")
}

func TestPrepare_UnknownTable(t *testing.T) {
	db := openMemory(t)

	_, err := Prepare(context.Background(), db, "SELECT id FROM nowhere WHERE name=?")
	require.ErrorIs(t, err, ErrPrepare)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestPrepare_UnknownColumn(t *testing.T) {
	db := setupCountry(t)

	_, err := Prepare(context.Background(), db, "INSERT INTO country(title) VALUES(?)")
	assert.ErrorIs(t, err, ErrPrepare)
}

func TestPrepare_EmptyAndMultiple(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := Prepare(ctx, db, "  -- nothing\n")
	assert.ErrorIs(t, err, ErrPrepare)

	_, err = Prepare(ctx, db, "SELECT 1; SELECT 2")
	assert.ErrorIs(t, err, ErrPrepare)

	_, err = Prepare(ctx, db, "SELECT 'open")
	assert.ErrorIs(t, err, ErrPrepare)
}

func TestPrepare_Explain(t *testing.T) {
	db := openMemory(t)

	st, err := Prepare(context.Background(), db, "EXPLAIN SELECT 1")
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestStmt_BindExecReuse(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	st, err := Prepare(ctx, db, "INSERT INTO country(name) VALUES(?)")
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, 1, st.NumParams())
	assert.Equal(t, "INSERT INTO country(name) VALUES(?)", st.SQL())

	var ids []int64
	for _, name := range []string{"The North", "The Crownlands"} {
		require.NoError(t, st.Bind(name))
		res, err := st.Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.RowsAffected)
		ids = append(ids, res.LastInsertID)
	}
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestStmt_Bind_CountMismatch(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	st, err := Prepare(ctx, db, "SELECT id FROM country WHERE id=? AND name=?")
	require.NoError(t, err)
	defer st.Close()

	assert.ErrorIs(t, st.Bind(int64(1)), ErrBind)
	assert.ErrorIs(t, st.Bind(int64(1), "a", "b"), ErrBind)
	require.NoError(t, st.Bind(int64(1), "a"))
}

func TestStmt_Bind_UnsupportedType(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	st, err := Prepare(ctx, db, "SELECT id FROM country WHERE id=?")
	require.NoError(t, err)
	defer st.Close()

	err = st.Bind(true)
	assert.ErrorIs(t, err, ErrBind)
	assert.ErrorIs(t, err, ErrType)
	assert.Contains(t, err.Error(), "parameter 1")
}

func TestStmt_ExecWithoutBind(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	st, err := Prepare(ctx, db, "INSERT INTO country(name) VALUES(?)")
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Exec(ctx)
	assert.ErrorIs(t, err, ErrBind)

	_, err = st.Query(ctx, Shape{KindInt64})
	assert.ErrorIs(t, err, ErrBind)
}

func TestStmt_Exec_ConstraintIsStepError(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	_, err := PrepareBindStep(ctx, db, "INSERT INTO country(id, name) VALUES(?, ?)", int64(1), "a")
	require.NoError(t, err)

	_, err = PrepareBindStep(ctx, db, "INSERT INTO country(id, name) VALUES(?, ?)", int64(1), "b")
	require.ErrorIs(t, err, ErrStep)
	assert.Contains(t, err.Error(), "SQL command: INSERT INTO country")
}

func TestStmt_Closed(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)

	st, err := Prepare(ctx, db, "SELECT id FROM country")
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	err = st.Bind()
	assert.ErrorIs(t, err, ErrBind)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = st.Exec(ctx)
	assert.ErrorIs(t, err, ErrStep)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = st.Query(ctx, Shape{KindInt64})
	assert.ErrorIs(t, err, ErrClosed)

	var nilStmt *Stmt
	assert.NoError(t, nilStmt.Close())
	assert.Equal(t, 0, nilStmt.NumParams())
}

func TestStmt_Cursor(t *testing.T) {
	ctx := context.Background()
	db := setupCountry(t)
	require.NoError(t, Exec(ctx, db, "INSERT INTO country(name) VALUES('a'), ('b'), ('c');"))

	st, err := Prepare(ctx, db, "SELECT id, name FROM country WHERE id >= ? ORDER BY id")
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Bind(int64(2)))

	cur, err := st.Query(ctx, Shape{KindInt64, KindText})
	require.NoError(t, err)
	require.True(t, cur.Next())
	assert.Equal(t, Row{Int64(2), Text("b")}, cur.Row())

	// A second Query supersedes the first cursor and restarts from the top.
	again, err := st.Query(ctx, Shape{KindInt32})
	require.NoError(t, err)
	assert.False(t, cur.Next())

	var got []int32
	for again.Next() {
		got = append(got, again.Row()[0].Int32())
	}
	require.NoError(t, again.Err())
	assert.Equal(t, []int32{2, 3}, got)
	assert.False(t, again.Next(), "exhausted cursor stays exhausted")
	assert.NoError(t, again.Close())
}

func TestStmt_Query_InvalidShape(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	st, err := Prepare(ctx, db, "SELECT 1")
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Query(ctx, Shape{})
	assert.ErrorIs(t, err, ErrType)
	_, err = st.Query(ctx, Shape{Kind(99)})
	assert.ErrorIs(t, err, ErrType)
}

func TestStmtState_String(t *testing.T) {
	assert.Equal(t, "prepared", statePrepared.String())
	assert.Equal(t, "bound", stateBound.String())
	assert.Equal(t, "executing", stateExecuting.String())
	assert.Equal(t, "finalized", stateFinalized.String())
}

func TestPrepare_ChecksOnGivenConnection(t *testing.T) {
	ctx := context.Background()
	pool, err := sql.Open(driverName, MemoryPath)
	require.NoError(t, err)
	defer pool.Close()

	// Each pooled connection to :memory: is its own database.
	a, err := pool.Conn(ctx)
	require.NoError(t, err)
	defer a.Close()
	b, err := pool.Conn(ctx)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, Exec(ctx, a, "CREATE TABLE t(x INTEGER)"))

	_, err = PrepareBindStep(ctx, a, "INSERT INTO t(x) VALUES(:x)", 5)
	require.NoError(t, err)
	x, err := Get[int64](ctx, a, 0, "SELECT x FROM t")
	require.NoError(t, err)
	assert.Equal(t, int64(5), x)

	_, err = Prepare(ctx, b, "INSERT INTO t(x) VALUES(?)")
	require.ErrorIs(t, err, ErrPrepare)
	assert.Contains(t, err.Error(), "no such table")
}
