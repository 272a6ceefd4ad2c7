package xlite

import (
	"context"
	"fmt"
	"reflect"
)

// SingleRow returns the first row of the query, or def unchanged when the
// query yields no rows. The shape is taken from def, so def must hold valid
// values of the wanted kinds (Shape.Zero builds one).
//
// An empty result and a fallback are indistinguishable to the caller; pick a
// def that cannot be confused with real data.
func SingleRow(ctx context.Context, p Preparer, def Row, query string, args ...any) (Row, error) {
	shape := make(Shape, len(def))
	for i, v := range def {
		shape[i] = v.Kind()
	}
	rows, err := Rows(ctx, p, shape, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return def, nil
	}
	return rows[0], nil
}

// SingleField returns the first column of the first row converted to
// def's kind, or def when the query yields no rows.
func SingleField(ctx context.Context, p Preparer, def Value, query string, args ...any) (Value, error) {
	if !def.IsValid() {
		return Value{}, newError(ErrStep, query, fmt.Errorf("%w: invalid default", ErrType))
	}
	row, err := SingleRow(ctx, p, Row{def}, query, args...)
	if err != nil {
		return Value{}, err
	}
	return row[0], nil
}

// Get is the typed form of SingleRow and SingleField: it fills T from the
// first row, or returns def when there is none. A scalar T reads the first
// column only.
//
// Example:
//
//	id, err := xlite.Get[int64](ctx, db, 0, `SELECT id FROM country WHERE name=? LIMIT 1`, "The North")
//	if err != nil {
//	    return err
//	}
//	if id == 0 {
//	    // not found
//	}
func Get[T any](ctx context.Context, p Preparer, def T, query string, args ...any) (T, error) {
	pl, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return def, newError(ErrStep, query, err)
	}
	rows, err := Rows(ctx, p, pl.shape, query, args...)
	if err != nil {
		return def, err
	}
	if len(rows) == 0 {
		return def, nil
	}
	return decode[T](pl, rows[0]), nil
}

// Lookup is Get with an explicit absent marker instead of a fallback value.
func Lookup[T any](ctx context.Context, p Preparer, query string, args ...any) (T, bool, error) {
	var zero T
	pl, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, false, newError(ErrStep, query, err)
	}
	rows, err := Rows(ctx, p, pl.shape, query, args...)
	if err != nil {
		return zero, false, err
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	return decode[T](pl, rows[0]), true, nil
}
