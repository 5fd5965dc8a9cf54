package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "ERROR", want: LevelError},
		{in: "warn", want: LevelWarn},
		{in: "Warning", want: LevelWarn},
		{in: "INFO", want: LevelInfo},
		{in: " debug ", want: LevelDebug},
		{in: "", want: LevelInfo},
		{in: "TRACE", want: LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buf := captureLog(t)
	l := New(LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	assert.Equal(t, "[WARN] warn 3\n[ERROR] error 4\n", buf.String())

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	assert.Equal(t, "[DEBUG] now visible\n", buf.String())
}

func TestDefaultLogger(t *testing.T) {
	buf := captureLog(t)
	prev := Default().Level()
	t.Cleanup(func() { SetLevel(prev) })

	SetLevel(LevelError)
	Info("hidden")
	Error("shown")
	assert.Equal(t, "[ERROR] shown\n", buf.String())
}
