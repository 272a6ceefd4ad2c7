/*
Package xlite is a thin, typed layer over an embedded SQLite database
(modernc.org/sqlite through database/sql). It removes the repetitive part of
talking to the engine: preparing statements, binding parameters, pulling rows
into typed values and releasing everything afterwards. You still write plain
SQL.

# Overview

Work flows top-down through three pieces:

  - DB owns one engine connection and releases it on Close.
  - Format fills table and column names into a SQL template; Prepare compiles
    the text into a Stmt; Stmt.Bind attaches parameters by position.
  - Rows, SingleRow, SingleField, Query and Get run a statement and convert
    each row into a fixed shape of typed values.

Every helper prepares its own statement and finalizes it before returning, on
success and on error alike. Nothing is kept between calls.

# Values and shapes

The supported scalar kinds form a closed set: int32, int64, float32 and text.
A Value holds exactly one of them. Parameters are converted to Values at bind
time (int32 stays int32, every other integer widens to int64, float32 and
float64 become floats, string and []byte become text); any other Go type is
rejected with ErrBind. A float64 parameter reaches the engine at full
precision; only result slots are single precision.

Parameters are positional. Named slots (":name", "@name", "$name") are filled
in order of first appearance, so "SELECT :a, :b, :a" takes two values. A Shape lists the kind of each result slot in column order; ShapeOf
derives one from a scalar or struct type for the generic helpers.

Columns are converted to their slot kind the way SQLite's own column accessors
would: NULL becomes the zero value, numbers format as text, numeric text parses
as a number. A conversion that cannot succeed (text that is not a number, an
int32 overflow) fails the fetch with ErrStep.

# Error handling

  - Open failures match ErrOpen and return a nil *DB.
  - Compilation failures match ErrPrepare and carry the engine message and SQL.
  - Wrong parameter counts and unsupported parameter types match ErrBind.
  - Execution and fetch failures match ErrStep.

Errors are never retried or swallowed. Use errors.As with *Error to read the
offending SQL text.

# Templates are not escaping

Format inserts its arguments verbatim. It is meant for identifiers chosen by
the program, never for user data: pass data through Bind.

# Concurrency

A DB pins a single connection. Statements on it run one at a time, but
helpers that issue several statements (a lookup followed by an insert) are not
atomic. Callers sharing a DB across goroutines must serialize each logical
operation themselves. No timeouts or retries are added: a busy or locked
database surfaces as an error immediately.
*/
package xlite
