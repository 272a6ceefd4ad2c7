package xlite

import (
	"context"
	"reflect"
)

// Rows prepares query, binds args, and collects every result row converted to
// shape. Columns beyond the shape are ignored. The statement is finalized
// before Rows returns, including when iteration fails part way.
//
// Example:
//
//	rows, err := xlite.Rows(ctx, db, xlite.Shape{xlite.KindInt64, xlite.KindText},
//	    `SELECT id, name FROM country ORDER BY name`)
//	for _, r := range rows {
//	    fmt.Println(r[0].Int64(), r[1].Text())
//	}
func Rows(ctx context.Context, p Preparer, shape Shape, query string, args ...any) (out []Row, err error) {
	st, err := Prepare(ctx, p, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = newError(ErrStep, query, cerr)
		}
	}()

	if err := st.Bind(args...); err != nil {
		return nil, err
	}
	cur, err := st.Query(ctx, shape)
	if err != nil {
		return nil, err
	}
	for cur.Next() {
		out = append(out, cur.Row())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Query is the typed form of Rows: the shape comes from T (see ShapeOf) and
// each row fills T's slots in column order.
//
// Example:
//
//	type Entry struct {
//	    ID   int64
//	    Name string
//	}
//	list, err := xlite.Query[Entry](ctx, db, `SELECT id, name FROM course ORDER BY name`)
func Query[T any](ctx context.Context, p Preparer, query string, args ...any) ([]T, error) {
	pl, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, newError(ErrStep, query, err)
	}
	rows, err := Rows(ctx, p, pl.shape, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = decode[T](pl, r)
	}
	return out, nil
}
