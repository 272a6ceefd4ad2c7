package xlite

import (
	"errors"
	"strings"
)

// Error categories. Every error returned by this package matches exactly one
// of ErrOpen, ErrPrepare, ErrBind or ErrStep, or one of the usage errors
// ErrClosed and ErrFormat, via errors.Is.
var (
	// ErrOpen is returned when a connection cannot be established.
	ErrOpen = errors.New("xlite: open")

	// ErrPrepare is returned when the engine fails to compile SQL text.
	ErrPrepare = errors.New("xlite: prepare")

	// ErrBind is returned when parameters cannot be attached to a statement:
	// wrong count, unsupported Go type, or out-of-range value.
	ErrBind = errors.New("xlite: bind")

	// ErrStep is returned when executing or fetching from a statement fails,
	// including failures to convert a fetched column into its shape slot.
	ErrStep = errors.New("xlite: step")

	// ErrClosed is returned when a nil or already closed DB or Stmt is used.
	ErrClosed = errors.New("xlite: use of closed handle")

	// ErrFormat is returned by Format for a malformed template.
	ErrFormat = errors.New("xlite: format")

	// ErrType marks a value or column outside the supported kinds
	// {int32, int64, float32, text}. It is always wrapped by ErrBind or ErrStep.
	ErrType = errors.New("xlite: unsupported type")
)

// Error carries the engine diagnostic and the SQL text that caused it.
type Error struct {
	Kind error  // one of ErrOpen, ErrPrepare, ErrBind, ErrStep
	SQL  string // offending SQL text, empty for ErrOpen
	Err  error  // engine or conversion cause
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.SQL != "" {
		b.WriteString("\nSQL command: ")
		b.WriteString(e.SQL)
	}
	return b.String()
}

// Unwrap exposes both the category and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, sql string, err error) *Error {
	return &Error{Kind: kind, SQL: sql, Err: err}
}
