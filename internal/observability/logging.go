package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// NewLogger builds a zap.Logger writing to stderr so command output on
// stdout stays clean. An interactive stderr gets the console encoder;
// pipes and files get JSON. Unknown levels fall back to warn.
func NewLogger(level string) (*zap.Logger, error) {
	return newLogger(level, term.IsTerminal(int(os.Stderr.Fd())))
}

func newLogger(level string, interactive bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.Set(strings.ToLower(level)); err != nil {
			lvl = zapcore.WarnLevel
		}
	}

	encoding := "json"
	encodeLevel := zapcore.LowercaseLevelEncoder
	if interactive {
		encoding = "console"
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: encoding,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			TimeKey:     "ts",
			EncodeLevel: encodeLevel,
			EncodeTime:  zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}
