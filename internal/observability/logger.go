package observability

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// The process-wide base logger. Loggers are derived per call from the
// context, never stored in it.
//
//nolint:gochecknoglobals // singleton logger
var (
	baseLogger *zap.Logger
	baseMu     sync.RWMutex
)

// InitLogger installs a production JSON logger. Called once at startup.
func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the base logger. Tests use it to install zap.NewNop or an observer core.
func SetLogger(logger *zap.Logger) {
	baseMu.Lock()
	defer baseMu.Unlock()
	baseLogger = logger
}

func base() *zap.Logger {
	baseMu.RLock()
	logger := baseLogger
	baseMu.RUnlock()

	if logger != nil {
		return logger
	}

	// Not initialized: fall back to a production logger.
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// FromContext returns the base logger annotated with the IDs found in ctx.
func FromContext(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, len(loggedKeys))
	for _, key := range loggedKeys {
		if v := valueOf(ctx, key); v != "" {
			fields = append(fields, zap.String(string(key), v))
		}
	}
	return base().With(fields...)
}
