package logger

import (
	"io"
	"os"
	"strings"

	"github.com/estecon/estecon-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface shared across packages.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	InfoObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// ZapLogger implements Logger on top of zap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// Init initializes a zap SugaredLogger writing JSON lines to stdout.
func Init(cfg *config.Config) (*ZapLogger, error) {
	return InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter is Init with an explicit sink. Commands that print their
// result on stdout log to stderr instead.
func InitWithWriter(cfg *config.Config, w io.Writer) (*ZapLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLevel(cfg.LogLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar := logger.Sugar().With("app", cfg.AppName)
	S = sugar
	return FromSugared(sugar), nil
}

// FromSugared wraps an existing sugared logger.
func FromSugared(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{sugar: s}
}

// Sugared exposes the underlying logger for libraries that take printf-style loggers.
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }

// ParseLevel maps a config string onto a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// These log the given object as a single structured field named `key`.

func (z *ZapLogger) DebugObj(msg, key string, obj interface{}) {
	z.sugar.Desugar().Debug(msg, zap.Any(key, obj))
}

func (z *ZapLogger) InfoObj(msg, key string, obj interface{}) {
	z.sugar.Desugar().Info(msg, zap.Any(key, obj))
}

func (z *ZapLogger) WarnObj(msg, key string, obj interface{}) {
	z.sugar.Desugar().Warn(msg, zap.Any(key, obj))
}

func (z *ZapLogger) ErrorObj(msg, key string, obj interface{}) {
	z.sugar.Desugar().Error(msg, zap.Any(key, obj))
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}
