// Package monitoring provides structured logging helpers shared across the
// recommendation pipeline's infrastructure adapters.
package monitoring

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Format      string // "json" or "console"
	Output      string // "stdout", "stderr", or file path
	ServiceName string
	Environment string
	Version     string
}

// Logger wraps zap logger with request/user correlation support
type Logger struct {
	*zap.Logger
	config LogConfig
}

// NewLogger creates a new structured logger.
func NewLogger(config LogConfig) (*Logger, error) {
	// Parse log level
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	// Configure encoder
	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder

	if config.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.MessageKey = "message"
		encoderConfig.LevelKey = "level"
		encoderConfig.CallerKey = "caller"
		encoderConfig.StacktraceKey = "stacktrace"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	// Configure output
	var writeSyncer zapcore.WriteSyncer
	switch config.Output {
	case "stdout", "":
		writeSyncer = zapcore.AddSync(os.Stdout)
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", config.Output, err)
		}
		writeSyncer = zapcore.AddSync(file)
	}

	// Create core
	core := zapcore.NewCore(encoder, writeSyncer, level)

	// Create logger with caller information
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	// Add global fields
	logger = logger.With(
		zap.String("service", config.ServiceName),
		zap.String("environment", config.Environment),
		zap.String("version", config.Version),
	)

	return &Logger{
		Logger: logger,
		config: config,
	}, nil
}

// WithRequestID adds request ID to logger (if available in context)
func (l *Logger) WithRequestID(ctx context.Context) *zap.Logger {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return l.Logger.With(zap.String("request_id", requestID))
	}
	return l.Logger
}

// WithContext adds all available context fields to logger
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	logger := l.Logger

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With(zap.String("request_id", requestID))
	}

	return logger
}

// AIRequestLogger logs a single C3 LLM completion call, used by the
// circuit-breaker-wrapped LLM client (spec §4.3).
func (l *Logger) AIRequestLogger(ctx context.Context, provider, model, operation string, duration time.Duration, err error) {
	logger := l.WithContext(ctx)

	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	}

	if err != nil {
		logger.Error("AI request failed", append(fields, zap.Error(err))...)
	} else {
		logger.Info("AI request completed", fields...)
	}
}

// PerformanceLogger logs performance metrics
func (l *Logger) PerformanceLogger(ctx context.Context, operation string, duration time.Duration, metadata map[string]interface{}) {
	logger := l.WithContext(ctx)

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", duration),
		zap.Any("metadata", metadata),
	}

	if duration > time.Second {
		logger.Warn("Slow operation detected", fields...)
	} else {
		logger.Debug("Performance measurement", fields...)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFromContext extracts the request ID, if any was attached.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID attaches a request ID to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
