package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	zlog *zap.Logger
	once sync.Once
)

// Get returns the process-wide logger, initializing it on first use.
func Get() *zap.Logger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		zlog = l
	})
	return zlog
}

func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

func Sync() {
	_ = Get().Sync()
}
