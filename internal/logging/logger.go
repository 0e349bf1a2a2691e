// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger: a zap core exposed through
// slog, writing human-readable lines to the console and, optionally, JSON
// lines to a rotating log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// ShutdownFunc flushes buffered log entries and closes the log file.
type ShutdownFunc func() error

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// New returns a logger writing to stderr and, if cfg.File is set, to a
// rotating file.
func New(cfg types.LogConfig) (*slog.Logger, ShutdownFunc, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with the console output directed to w.
func NewWithWriter(cfg types.LogConfig, w io.Writer) (*slog.Logger, ShutdownFunc, error) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(w)), level),
	}

	closeFile := func() error { return nil }
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), level))
		closeFile = lj.Close
	}

	core := zapcore.NewTee(cores...)
	shutdown := func() error {
		// Sync on a console fd can fail with EINVAL; only the file matters.
		_ = core.Sync()
		return closeFile()
	}
	return slog.New(zapslog.NewHandler(core)), shutdown, nil
}

// ParseLevel maps debug, info, warn, and error to zap levels. Anything else
// is info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
