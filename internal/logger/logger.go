// Package logger provides structured logging using zap.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until Init runs.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// Options controls where and how log entries are written.
type Options struct {
	Level      string // debug, info, warn or error
	Format     string // console or json
	Console    bool   // Write to stdout
	File       string // Rotated log file; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultOptions returns console logging at level with rotation defaults
// for file output.
func DefaultOptions(level, file string) Options {
	return Options{
		Level:      level,
		Format:     "console",
		Console:    true,
		File:       file,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the logger with the given level and optional file output.
func Init(level string, logFile string) error {
	return InitWithOptions(DefaultOptions(level, logFile))
}

// InitWithOptions builds the global logger from opts.
func InitWithOptions(opts Options) error {
	lvl := parseLevel(opts.Level)

	var cores []zapcore.Core

	if opts.Console {
		cores = append(cores, zapcore.NewCore(
			newEncoder(opts.Format, zapcore.EncoderConfig{
				TimeKey:          "time",
				LevelKey:         "level",
				NameKey:          "logger",
				MessageKey:       "msg",
				CallerKey:        "caller",
				EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
				EncodeLevel:      zapcore.CapitalColorLevelEncoder,
				EncodeCaller:     zapcore.ShortCallerEncoder,
				EncodeDuration:   zapcore.StringDurationEncoder,
				ConsoleSeparator: " ",
			}),
			zapcore.Lock(os.Stdout),
			lvl,
		))
	}

	if opts.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
			LocalTime:  true,
		}

		cores = append(cores, zapcore.NewCore(
			newEncoder(opts.Format, zapcore.EncoderConfig{
				TimeKey:          "time",
				LevelKey:         "level",
				NameKey:          "logger",
				MessageKey:       "msg",
				CallerKey:        "caller",
				EncodeTime:       zapcore.ISO8601TimeEncoder,
				EncodeLevel:      zapcore.CapitalLevelEncoder,
				EncodeCaller:     zapcore.ShortCallerEncoder,
				EncodeDuration:   zapcore.StringDurationEncoder,
				ConsoleSeparator: " ",
			}),
			zapcore.AddSync(fileWriter),
			lvl,
		))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()

	return nil
}

// Named returns a child of the global logger tagged with component.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

func newEncoder(format string, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if format == "json" {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
