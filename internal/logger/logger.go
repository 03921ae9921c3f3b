package logger

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// Logger defines the logging contract.
// Debug output is diagnostic and only emitted when verbose diagnostics are enabled.
// Implementations must be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// StdLogger wraps Go's standard logger to implement the logging contract.
type StdLogger struct {
	logger *log.Logger
	debug  atomic.Bool
}

// NewStdLogger creates a new StdLogger writing to stdout.
func NewStdLogger(debug bool) *StdLogger {
	l := &StdLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
	}
	l.debug.Store(debug)
	return l
}

// SetDebug turns debug output on or off.
func (l *StdLogger) SetDebug(on bool) {
	l.debug.Store(on)
}

func (l *StdLogger) Info(msg string, args ...any) {
	l.logger.Printf("[INFO] "+msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...any) {
	l.logger.Printf("[WARN] "+msg, args...)
}

func (l *StdLogger) Error(msg string, args ...any) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

func (l *StdLogger) Debug(msg string, args ...any) {
	if !l.debug.Load() {
		return
	}
	l.logger.Printf("[DEBUG] "+msg, args...)
}

// ZapLogger adapts a zap.SugaredLogger to the logging contract.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a JSON logger. Debug level is enabled when debug is true.
func NewZapLogger(debug bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{sugar: z.Sugar()}, nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(z *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: z.Sugar()}
}

func (l *ZapLogger) Info(msg string, args ...any)  { l.sugar.Infof(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.sugar.Warnf(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.sugar.Errorf(msg, args...) }
func (l *ZapLogger) Debug(msg string, args ...any) { l.sugar.Debugf(msg, args...) }

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// New returns a logger for format ("text" or "json").
func New(format string, debug bool) (Logger, error) {
	switch format {
	case "", "text":
		return NewStdLogger(debug), nil
	case "json":
		z, err := NewZapLogger(debug)
		if err != nil {
			return nil, err
		}
		return z, nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// Default provides a global default logger instance using Go's standard logger.
var Default Logger = NewStdLogger(false)
