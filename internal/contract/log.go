package contract

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
)

// InitLogger builds the shared logger. The debug level selects a console logger for humans;
// every other level writes JSON to stderr.
func InitLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return l, nil
}

// SetLogger replaces the shared logger. A nil logger resets it to a no-op.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
