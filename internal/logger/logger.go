package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps "debug", "info", "warn", "error" (any case) to a zap level,
// falling back to info.
func ParseLevel(logLevel string) zap.AtomicLevel {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if logLevel == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return level
}

// FileCore is a JSON core writing to a rotated log file.
func FileCore(logPath string, level zap.AtomicLevel) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     30,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level)
}

// NewLogger creates a JSON logger writing only to logPath. An empty path
// gives a no-op logger.
func NewLogger(logPath, logLevel string) *zap.SugaredLogger {
	if logPath == "" {
		return zap.NewNop().Sugar()
	}
	return zap.New(FileCore(logPath, ParseLevel(logLevel)), zap.AddCaller()).Sugar()
}
