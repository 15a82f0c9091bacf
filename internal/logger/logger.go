// Package logger wraps a single shared logrus instance with lumberjack
// log rotation, configurable for JSON or text output to stdout, stderr,
// or a rotated file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/billyprice1/natprobe/internal/config"
)

// Manager owns the configured logrus instance.
type Manager struct {
	logger *logrus.Logger
	config *config.LogConfig
}

// instance is the package-level logger the convenience functions below
// write through. It is nil until Init is called, so rawtcp and other
// packages can log unconditionally from init-order-sensitive code paths
// without crashing before main has wired a config.
var instance *Manager

// Init builds the shared logrus instance from cfg: level, formatter,
// output target (stdout/stderr/file with lumberjack rotation) and
// caller reporting.
func Init(cfg *config.LogConfig) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("log config cannot be nil")
	}

	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		l.Warnf("invalid log level %q, defaulting to info", cfg.Level)
	}
	l.SetLevel(level)

	if err := setFormatter(l, cfg); err != nil {
		return nil, fmt.Errorf("set log formatter: %w", err)
	}
	if err := setOutput(l, cfg); err != nil {
		return nil, fmt.Errorf("set log output: %w", err)
	}
	l.SetReportCaller(cfg.Caller)

	m := &Manager{logger: l, config: cfg}
	instance = m
	return m, nil
}

func setFormatter(l *logrus.Logger, cfg *config.LogConfig) error {
	const timestampFormat = "2006-01-02 15:04:05.000"

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
	return nil
}

func setOutput(l *logrus.Logger, cfg *config.LogConfig) error {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		l.SetOutput(os.Stdout)
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if cfg.FilePath == "" {
			return fmt.Errorf("file path is required when output is file")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		rotated := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if strings.ToLower(cfg.Level) == "debug" {
			l.SetOutput(io.MultiWriter(os.Stdout, rotated))
		} else {
			l.SetOutput(rotated)
		}
	default:
		return fmt.Errorf("unsupported log output: %s", cfg.Output)
	}
	return nil
}

// Logger returns the underlying logrus instance.
func (m *Manager) Logger() *logrus.Logger { return m.logger }

// Convenience package-level functions wrapping the shared logger
// instance. Each is a no-op (Debug/Info/...) or falls back to logrus's
// standard logger (WithField/WithFields) until Init has run, so packages
// that log during early construction never nil-panic.

func Debug(args ...interface{}) {
	if instance != nil {
		instance.logger.Debug(args...)
	}
}

func Info(args ...interface{}) {
	if instance != nil {
		instance.logger.Info(args...)
	}
}

func Warn(args ...interface{}) {
	if instance != nil {
		instance.logger.Warn(args...)
	}
}

func Error(args ...interface{}) {
	if instance != nil {
		instance.logger.Error(args...)
	}
}

func Fatal(args ...interface{}) {
	if instance != nil {
		instance.logger.Fatal(args...)
	}
}

func WithField(key string, value interface{}) *logrus.Entry {
	if instance != nil {
		return instance.logger.WithField(key, value)
	}
	return logrus.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	if instance != nil {
		return instance.logger.WithFields(fields)
	}
	return logrus.WithFields(fields)
}
