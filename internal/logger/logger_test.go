package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetOutput(prev)
		SetVerbose(false)
	})
	return &buf
}

func TestLogger_Quiet(t *testing.T) {
	buf := capture(t, false)

	Debug("prepare %s", "SELECT 1")
	Info("x")
	Warn("y")
	Section("z")

	assert.Empty(t, buf.String())
}

func TestLogger_Verbose(t *testing.T) {
	buf := capture(t, true)

	Debug("prepare %s", "SELECT 1")
	Info("open %q", ":memory:")
	Warn("slow")
	Section("handbook")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] prepare SELECT 1\n")
	assert.Contains(t, out, "[INFO] open \":memory:\"\n")
	assert.Contains(t, out, "[WARN] slow\n")
	assert.Contains(t, out, "\n=== handbook ===\n")
}
