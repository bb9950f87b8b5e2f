package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel}, // unrecognized falls back to info
	}
	for _, c := range cases {
		log, err := New(c.level)
		if err != nil {
			t.Fatalf("New(%q): %v", c.level, err)
		}
		if got := log.Level(); got != c.want {
			t.Errorf("New(%q): level %v, want %v", c.level, got, c.want)
		}
	}
}
