package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOptions selects the logger's level and encoding.
type LogOptions struct {
	Level   zapcore.Level
	Console bool
}

// LogOptionsFromEnv reads LOG_LEVEL and LOG_FORMAT. Unknown levels fall back to info.
func LogOptionsFromEnv() LogOptions {
	return LogOptions{
		Level:   levelOrInfo(os.Getenv("LOG_LEVEL")),
		Console: strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "console"),
	}
}

// NewLogger builds the process logger from the environment.
func NewLogger() (*zap.Logger, error) {
	return loggerConfig(LogOptionsFromEnv()).Build()
}

// loggerConfig is JSON with ISO8601 timestamps unless Console is set. Every entry
// carries the service name.
func loggerConfig(opts LogOptions) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	cfg.InitialFields = map[string]any{"service": "krishi-dashboard"}

	enc := &cfg.EncoderConfig
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Console {
		cfg.Encoding = "console"
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

func levelOrInfo(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
