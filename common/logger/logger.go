// Package logger provides the leveled logging facade shared by every
// component of the retrieval chain.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = newDefault()
)

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap's production config cannot fail to build with these options;
		// fall back to a no-op logger just in case.
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogger replaces the package logger. Intended for hosts that carry their
// own zap instance and for silencing output in tests.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		return
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) { get().Debugf(format, args...) }

// Infof logs an info message.
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Warnf logs a warning message.
func Warnf(format string, args ...any) { get().Warnf(format, args...) }

// Errorf logs an error message.
func Errorf(format string, args ...any) { get().Errorf(format, args...) }
