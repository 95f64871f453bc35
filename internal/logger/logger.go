package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.Logger
)

// Init builds the global JSON logger at the given level ("debug", "info", ...)
// writing to outputPaths, stdout when none are given
func Init(level string, outputPaths ...string) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return err
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}
	if len(config.OutputPaths) == 0 {
		config.OutputPaths = []string{"stdout"}
	}
	// Disable stack traces
	config.EncoderConfig.StacktraceKey = ""

	l, err := config.Build()
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global logger, e.g. with zap.NewNop() in tests
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// GetLogger returns the global logger, creating a production logger when Init was never called
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		l, err := zap.NewProduction(zap.WithCaller(false))
		if err != nil {
			panic(err)
		}
		log = l
	}
	return log
}

// Sync flushes any buffered log entries
func Sync() error {
	return GetLogger().Sync()
}
