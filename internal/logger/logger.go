// Package logger builds the zap logger shared by every command.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/bibliz/internal/store"
)

// Config selects level, encoding and destination.
type Config struct {
	Level      string // debug, info, warn, error
	Production bool   // JSON encoding instead of console
	File       string // append to this file instead of stderr
}

// New returns a logger for cfg and a cleanup func that syncs it and
// closes the output file, if any.
func New(cfg Config) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

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

	var encoder zapcore.Encoder
	if cfg.Production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	sink := zapcore.Lock(os.Stderr)
	closeFile := func() {}
	if cfg.File != "" {
		if err := store.EnsureDir(cfg.File); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.Lock(f)
		closeFile = func() { _ = f.Close() }
	}

	log := zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	cleanup := func() {
		_ = log.Sync()
		closeFile()
	}
	return log, cleanup, nil
}

// DefaultFile is where the TUI logs, since the alternate screen owns the
// terminal.
func DefaultFile() (string, error) {
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bibliz.log"), nil
}
