// File: internal/platform/logger/zap.go
package logger

import (
	"gamehub_backend/internal/config"
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New initializes a new Zap logger based on the application configuration.
// The returned cleanup flushes buffered entries.
func New(cfg *config.Config) (*zap.Logger, func(), error) {
	var zapConfig zap.Config

	if cfg.GinMode == "release" {
		zapConfig = zap.NewProductionConfig()
	} else { // "debug" or "test"
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel))

	// Release mode keeps JSON unless console was asked for explicitly.
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		zapConfig.Encoding = "json"
	case "console":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if cfg.GinMode != "release" {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := logger.Sync(); err != nil && !strings.Contains(err.Error(), "sync /dev/std") {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return logger, cleanup, nil
}

// ParseLevel maps a LOG_LEVEL value onto a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
