package xlite

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_Script(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	err := Exec(ctx, db, `
		CREATE TABLE IF NOT EXISTS student(
			student_id         INTEGER NOT NULL PRIMARY KEY,
			student_first_name TEXT,
			country_id         INTEGER);
		CREATE TABLE IF NOT EXISTS country(id INTEGER NOT NULL PRIMARY KEY, name TEXT NOT NULL DEFAULT '');`)
	require.NoError(t, err)

	// Idempotent DDL.
	require.NoError(t, Exec(ctx, db, "CREATE TABLE IF NOT EXISTS country(id INTEGER NOT NULL PRIMARY KEY, name TEXT NOT NULL DEFAULT '');"))

	n, err := Get[int64](ctx, db, 0, "SELECT count(*) FROM sqlite_master WHERE type='table'")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExec_Error(t *testing.T) {
	err := Exec(context.Background(), openMemory(t), "CREATE TABLE (")
	require.ErrorIs(t, err, ErrStep)

	var xe *Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, "CREATE TABLE (", xe.SQL)
}

func TestPrepareBindStep(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	require.NoError(t, Exec(ctx, db,
		"CREATE TABLE student(student_id INTEGER NOT NULL PRIMARY KEY, first TEXT, last TEXT, country_id INTEGER, course_id INTEGER);"))

	q, err := Format("INSERT INTO {0}(first, last, country_id, course_id) VALUES(?, ?, ?, ?);", "student")
	require.NoError(t, err)

	res, err := PrepareBindStep(ctx, db, q, "Jon", "Snow", int64(1), int32(3))
	require.NoError(t, err)
	assert.Equal(t, Result{LastInsertID: 1, RowsAffected: 1}, res)

	_, err = PrepareBindStep(ctx, db, q, "Jon", "Snow")
	assert.ErrorIs(t, err, ErrBind)

	_, err = PrepareBindStep(ctx, db, "INSERT INTO missing VALUES(?)", 1)
	assert.ErrorIs(t, err, ErrPrepare)
}

func TestPrepareBindStep_DriverError(t *testing.T) {
	boom := errors.New("disk I/O error")
	db := newTestDB(t, func(string, []driver.Value) ([]string, [][]driver.Value, error) {
		return nil, nil, boom
	}, nil)

	_, err := PrepareBindStep(context.Background(), db, "UPDATE t SET a=?", "x")
	assert.ErrorIs(t, err, ErrStep)
	assert.ErrorIs(t, err, boom)
}
