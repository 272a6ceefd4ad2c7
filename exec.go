package xlite

import (
	"context"
)

// Exec runs a parameterless SQL script, which may hold several statements
// separated by semicolons (schema setup, DDL batches). Failures return an
// *Error matching ErrStep that carries the script.
//
// Example:
//
//	err := xlite.Exec(ctx, db, `CREATE TABLE IF NOT EXISTS student(
//	    student_id INTEGER NOT NULL PRIMARY KEY,
//	    student_first_name TEXT);`)
func Exec(ctx context.Context, e Execer, script string) error {
	if e == nil {
		return newError(ErrStep, script, ErrClosed)
	}
	if _, err := e.ExecContext(ctx, script); err != nil {
		return newError(ErrStep, script, err)
	}
	return nil
}

// PrepareBindStep prepares query, binds args and executes it once, then
// finalizes the statement on every path. It is the one-call form for
// INSERT and UPDATE with parameters.
//
// Example:
//
//	res, err := xlite.PrepareBindStep(ctx, db,
//	    `INSERT INTO student(student_first_name, country_id) VALUES(?, ?)`, "Jon", int64(1))
//	if err != nil {
//	    return err
//	}
//	id := res.LastInsertID
func PrepareBindStep(ctx context.Context, p Preparer, query string, args ...any) (_ Result, err error) {
	st, err := Prepare(ctx, p, query)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = newError(ErrStep, query, cerr)
		}
	}()

	if err := st.Bind(args...); err != nil {
		return Result{}, err
	}
	return st.Exec(ctx)
}
