// Package logutil builds the process logger. Logging is off unless the user
// asks for it: a terminal UI owns stdout and stderr, so log lines go to a
// rotated file.
package logutil

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string
	// Format is "console" or "json".
	Format string
	// Filename is the log file. Empty logs to stderr, which is only
	// sensible for non-interactive commands.
	Filename string
	// MaxSize is the size in megabytes at which the file is rotated.
	MaxSize int
	// MaxDays is how long rotated files are kept (0 = forever).
	MaxDays int
	// MaxBackups is how many rotated files are kept (0 = all).
	MaxBackups int
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}
	return level
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(enc)
	}
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(enc)
}

func (cfg *LogConfig) getSyncer() zapcore.WriteSyncer {
	if cfg.Filename == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	})
}

// New builds a logger from cfg. A nil cfg returns a no-op logger.
func New(cfg *LogConfig) (*zap.Logger, error) {
	if cfg == nil {
		return zap.NewNop(), nil
	}
	if cfg.Format != "" && cfg.Format != "console" && cfg.Format != "json" {
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}
	core := zapcore.NewCore(cfg.getEncoder(), cfg.getSyncer(), cfg.getLevel())
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Setup installs the logger built from cfg as zap's global logger and
// returns it with a sync function for deferred flushing.
func Setup(cfg *LogConfig) (*zap.Logger, func(), error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return logger, func() {
		_ = logger.Sync()
		undo()
	}, nil
}
