package logger

import (
	"fmt"
	"os"

	"quiz-seed/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Initialize sets up the global logger: JSON in production, console otherwise.
func Initialize(loggerCfg config.LoggerConfig) error {
	l, err := New(loggerCfg, zapcore.AddSync(os.Stdout))
	if err != nil {
		return err
	}
	log = l
	return nil
}

// New builds a logger writing to out.
func New(loggerCfg config.LoggerConfig, out zapcore.WriteSyncer) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel := zapcore.InfoLevel
	if loggerCfg.Level != "" {
		parsed, err := zapcore.ParseLevel(loggerCfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logger.level %q: %w", loggerCfg.Level, err)
		}
		logLevel = parsed
	}

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, out, logLevel)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Get returns the global logger instance
func Get() *zap.Logger {
	return log
}

// Named returns a child of the global logger for a component.
func Named(component string) *zap.Logger {
	return log.Named(component)
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
