package observability

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.WarnLevel},
	}
	for _, tc := range cases {
		for _, interactive := range []bool{false, true} {
			logger, err := newLogger(tc.level, interactive)
			if err != nil {
				t.Fatalf("newLogger(%q): %v", tc.level, err)
			}
			if !logger.Core().Enabled(tc.want) {
				t.Fatalf("level %q: %s should be enabled", tc.level, tc.want)
			}
			if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
				t.Fatalf("level %q: %s should be disabled", tc.level, tc.want-1)
			}
		}
	}
}
