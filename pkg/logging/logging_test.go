package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInit_TextIncludesSubsystem(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, FormatText, &buf)

	Info("Resolver", "resolved %d executors", 2)
	Error("Invoke", errors.New("boom"), "call failed")

	out := buf.String()
	assert.Contains(t, out, "subsystem=Resolver")
	assert.Contains(t, out, "resolved 2 executors")
	assert.Contains(t, out, "error=boom")
}

func TestInit_JSONFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, FormatJSON, &buf)

	Debug("Schema", "hidden")
	Warn("Schema", "shown")
	Attrs(LevelWarn, "InvocationLog", "entry", slog.String("ability_id", "a1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"ability_id":"a1"`)
}
