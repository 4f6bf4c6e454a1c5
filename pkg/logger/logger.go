// Package logger is a thin package-level wrapper around zap so that
// commands and library code log the same way without passing a logger
// through every call.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapLog = zap.NewNop()

// ParseLevel turns "debug", "info", "warn" or "error" into a level.
// Anything else is info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func InitLogger(level zapcore.Level) error {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000000")
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	config.EncoderConfig = encoderConfig

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zapLog = l
	return nil
}

// To decides where a logger writes. "" throws everything away, "stdout"
// and "stderr" mean what they say, anything else is a file name which
// is appended to. Call done when finished with the logger. It syncs and
// closes the file, if there is one.
func To(where string, level zapcore.Level) (l *zap.Logger, done func(), err error) {
	if where == "" {
		return zap.NewNop(), func() {}, nil
	}
	ws, closeWs, err := zap.Open(where)
	if err != nil {
		return nil, nil, err
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	l = zap.New(zapcore.NewCore(enc, ws, level), zap.AddCaller())
	return l, func() { _ = l.Sync(); closeWs() }, nil
}

// L gives the underlying logger for code that wants .With() or
// to hand it to something else.
func L() *zap.Logger { return zapLog }

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	zapLog.Fatal(message, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return zapLog.Sync()
}
