package xlite

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// timeFormat renders time values the SQLite driver hands back for DATE and
// DATETIME columns.
const timeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Kind identifies one of the scalar types a parameter or a column slot may hold.
type Kind uint8

// Supported kinds. KindInvalid is the kind of the zero Value.
const (
	KindInvalid Kind = iota
	KindInt32        // int32
	KindInt64        // int64
	KindFloat        // float32
	KindText         // string
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat:
		return "float32"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Value is a tagged scalar: exactly one of int32, int64, float32 or text,
// selected by Kind. The zero Value is invalid and cannot be bound.
type Value struct {
	kind Kind
	i    int64
	f    float32
	d    float64 // bound form of f; wider when the Value came from a float64
	s    string
}

// Int32 returns a KindInt32 Value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 returns a KindInt64 Value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float returns a KindFloat Value.
func Float(v float32) Value { return Value{kind: KindFloat, f: v, d: float64(v)} }

// Text returns a KindText Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// float64Value keeps the full precision of v for binding while Float reports
// it as float32.
func float64Value(v float64) Value { return Value{kind: KindFloat, f: float32(v), d: v} }

// Kind reports which scalar v holds.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a scalar, i.e. is not the zero Value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Int32 returns the value for KindInt32; 0 otherwise.
func (v Value) Int32() int32 {
	if v.kind != KindInt32 {
		return 0
	}
	return int32(v.i)
}

// Int64 returns the value for KindInt64 or KindInt32; 0 otherwise.
func (v Value) Int64() int64 {
	if v.kind != KindInt64 && v.kind != KindInt32 {
		return 0
	}
	return v.i
}

// Float returns the value for KindFloat; 0 otherwise.
func (v Value) Float() float32 {
	if v.kind != KindFloat {
		return 0
	}
	return v.f
}

// Text returns the value for KindText; "" otherwise.
func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return v.s
}

// Any returns the Go value held: int32, int64, float32 or string. nil when invalid.
func (v Value) Any() any {
	switch v.kind {
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindText:
		return v.s
	}
	return "<invalid>"
}

// driverArg is the form handed to database/sql.
func (v Value) driverArg() any {
	switch v.kind {
	case KindInt32, KindInt64:
		return v.i
	case KindFloat:
		return v.d
	case KindText:
		return v.s
	}
	return nil
}

// ValueOf converts a Go value into a Value. int32 maps to KindInt32 and every
// other integer type to KindInt64. float32 and float64 map to KindFloat; a
// float64 is bound at full precision and only reads back as float32 through
// Float. string and []byte map to KindText. Anything else reports ErrType.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		if !v.IsValid() {
			return Value{}, fmt.Errorf("%w: invalid Value", ErrType)
		}
		return v, nil
	case int32:
		return Int32(v), nil
	case int64:
		return Int64(v), nil
	case int:
		return Int64(int64(v)), nil
	case int8:
		return Int64(int64(v)), nil
	case int16:
		return Int64(int64(v)), nil
	case uint8:
		return Int64(int64(v)), nil
	case uint16:
		return Int64(int64(v)), nil
	case uint32:
		return Int64(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrType, v)
		}
		return Int64(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrType, v)
		}
		return Int64(int64(v)), nil
	case float32:
		return Float(v), nil
	case float64:
		return float64Value(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Text(string(v)), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrType, x)
}

// convert coerces a raw driver value into kind k. NULL becomes the kind's zero.
func convert(k Kind, src any) (Value, error) {
	switch k {
	case KindInt32:
		n, err := toInt(src)
		if err != nil {
			return Value{}, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Value{}, fmt.Errorf("%w: %d overflows int32", ErrType, n)
		}
		return Int32(int32(n)), nil
	case KindInt64:
		n, err := toInt(src)
		if err != nil {
			return Value{}, err
		}
		return Int64(n), nil
	case KindFloat:
		switch s := src.(type) {
		case nil:
			return Float(0), nil
		case int64:
			return Float(float32(s)), nil
		case float64:
			return narrow(s)
		case []byte:
			return parseFloat(string(s))
		case string:
			return parseFloat(s)
		}
	case KindText:
		switch s := src.(type) {
		case nil:
			return Text(""), nil
		case int64:
			return Text(strconv.FormatInt(s, 10)), nil
		case float64:
			return Text(strconv.FormatFloat(s, 'g', -1, 64)), nil
		case []byte:
			return Text(string(s)), nil
		case string:
			return Text(s), nil
		case bool:
			if s {
				return Text("1"), nil
			}
			return Text("0"), nil
		case time.Time:
			return Text(s.Format(timeFormat)), nil
		}
	default:
		return Value{}, fmt.Errorf("%w: kind %s", ErrType, k)
	}
	return Value{}, fmt.Errorf("%w: cannot convert %T to %s", ErrType, src, k)
}

func toInt(src any) (int64, error) {
	switch s := src.(type) {
	case nil:
		return 0, nil
	case int64:
		return s, nil
	case float64:
		return int64(s), nil
	case bool:
		if s {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseInt(string(s))
	case string:
		return parseInt(s)
	}
	return 0, fmt.Errorf("%w: cannot convert %T to integer", ErrType, src)
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrType, s)
	}
	return n, nil
}

func parseFloat(s string) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a number", ErrType, s)
	}
	return narrow(f)
}

// narrow converts f to float32, failing when a finite f overflows it.
func narrow(f float64) (Value, error) {
	n := float32(f)
	if math.IsInf(float64(n), 0) && !math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %g overflows float32", ErrType, f)
	}
	return Float(n), nil
}
