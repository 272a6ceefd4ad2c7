package xlite

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Shape lists, in column order, the kind each result slot is converted to.
type Shape []Kind

// Row is one materialized result row, shaped like the Shape that produced it.
type Row []Value

// Zero returns a row of zero values of the shape's kinds.
func (s Shape) Zero() Row {
	row := make(Row, len(s))
	for i, k := range s {
		switch k {
		case KindInt32:
			row[i] = Int32(0)
		case KindInt64:
			row[i] = Int64(0)
		case KindFloat:
			row[i] = Float(0)
		case KindText:
			row[i] = Text("")
		}
	}
	return row
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Shape) validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty shape", ErrType)
	}
	for i, k := range s {
		if k < KindInt32 || k > KindText {
			return fmt.Errorf("%w: slot %d has kind %s", ErrType, i, k)
		}
	}
	return nil
}

// ShapeOf derives the shape of T. T is either one of the scalar kinds (any
// type whose underlying type is int32, int64, int, float32 or string) or a
// struct whose exported fields, in declaration order, are all such scalars.
// Embedded structs are flattened in place and fields tagged `db:"-"` are
// skipped. Anything else reports ErrType.
func ShapeOf[T any]() (Shape, error) {
	p, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.shape), nil
}

// ---------------- Planning & cache ----------------

// plan maps shape slots onto the fields of a Go type.
type plan struct {
	rt       reflect.Type
	shape    Shape
	paths    [][]int // per slot, field index path; nil for a scalar T
	isStruct bool
}

var plans sync.Map // reflect.Type -> *plan

func planFor(rt reflect.Type) (*plan, error) {
	if v, ok := plans.Load(rt); ok {
		return v.(*plan), nil
	}
	p := &plan{rt: rt}
	if rt.Kind() == reflect.Struct {
		p.isStruct = true
		if err := p.walk(rt, nil); err != nil {
			return nil, err
		}
		if len(p.shape) == 0 {
			return nil, fmt.Errorf("%w: %s has no exported fields", ErrType, rt)
		}
	} else {
		k, ok := kindOf(rt)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrType, rt)
		}
		p.shape = Shape{k}
	}
	v, _ := plans.LoadOrStore(rt, p)
	return v.(*plan), nil
}

func (p *plan) walk(t reflect.Type, base []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous { // unexported, non-anonymous
			continue
		}
		if sf.Tag.Get("db") == "-" {
			continue
		}
		path := append(append([]int(nil), base...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if err := p.walk(sf.Type, path); err != nil {
				return err
			}
			continue
		}
		if sf.PkgPath != "" {
			continue
		}
		k, ok := kindOf(sf.Type)
		if !ok {
			return fmt.Errorf("%w: field %s.%s has type %s", ErrType, p.rt, sf.Name, sf.Type)
		}
		p.shape = append(p.shape, k)
		p.paths = append(p.paths, path)
	}
	return nil
}

func kindOf(t reflect.Type) (Kind, bool) {
	switch t.Kind() {
	case reflect.Int32:
		return KindInt32, true
	case reflect.Int64, reflect.Int:
		return KindInt64, true
	case reflect.Float32:
		return KindFloat, true
	case reflect.String:
		return KindText, true
	}
	return KindInvalid, false
}

// decode builds a T from a row produced with p.shape.
func decode[T any](p *plan, row Row) T {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if !p.isStruct {
		set(rv, row[0])
		return out
	}
	for i, path := range p.paths {
		set(rv.FieldByIndex(path), row[i])
	}
	return out
}

func set(dst reflect.Value, v Value) {
	switch v.Kind() {
	case KindInt32, KindInt64:
		dst.SetInt(v.Int64())
	case KindFloat:
		dst.SetFloat(float64(v.Float()))
	case KindText:
		dst.SetString(v.Text())
	}
}
