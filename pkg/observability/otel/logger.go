package otel

import (
	"context"
	"errors"
	"io"
	"syscall"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JailtonJunior94/graceful/pkg/observability"
)

// zapLogger implements observability.Logger on top of zap and emits every
// written entry once more as an OTLP log record. Entries logged with a context
// that carries a valid span get trace_id and span_id.
type zapLogger struct {
	logger  *zap.Logger
	otelLog otellog.Logger
	fields  []observability.Field
}

func newZapLogger(logger *zap.Logger, otelLog otellog.Logger) *zapLogger {
	return &zapLogger{logger: logger, otelLog: otelLog}
}

// newZap builds a zap logger writing to output with the given level and
// encoding.
func newZap(level observability.LogLevel, format observability.LogFormat, output io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if format == observability.LogFormatText {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), convertLogLevel(level))
	return zap.New(core, zap.AddStacktrace(zapcore.PanicLevel))
}

func convertLogLevel(level observability.LogLevel) zapcore.Level {
	switch level {
	case observability.LogLevelDebug:
		return zapcore.DebugLevel
	case observability.LogLevelWarn:
		return zapcore.WarnLevel
	case observability.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// syncLogger flushes buffered entries. Terminals and pipes reject fsync on
// most platforms, so those errors are dropped.
func syncLogger(logger *zap.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *zapLogger) log(ctx context.Context, level zapcore.Level, msg string, fields []observability.Field) {
	entry := l.logger.Check(level, msg)
	if entry == nil {
		return
	}

	zapFields := make([]zap.Field, 0, len(fields)+2)
	zapFields = append(zapFields, convertFieldsToZap(fields)...)

	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		zapFields = append(zapFields,
			zap.String("trace_id", spanContext.TraceID().String()),
			zap.String("span_id", spanContext.SpanID().String()),
		)
	}

	entry.Write(zapFields...)

	l.emit(ctx, level, msg, fields)
}

// emit sends the entry to the OTLP pipeline. The SDK takes the trace context
// from ctx.
func (l *zapLogger) emit(ctx context.Context, level zapcore.Level, msg string, fields []observability.Field) {
	if l.otelLog == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetBody(otellog.StringValue(msg))
	record.SetSeverity(convertLevelToSeverity(level))
	record.SetSeverityText(level.CapitalString())
	record.AddAttributes(convertFieldsToLogAttributes(l.fields)...)
	record.AddAttributes(convertFieldsToLogAttributes(fields)...)

	l.otelLog.Emit(ctx, record)
}

func convertLevelToSeverity(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		return otellog.SeverityInfo
	}
}

func (l *zapLogger) With(fields ...observability.Field) observability.Logger {
	combined := make([]observability.Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)

	return &zapLogger{
		logger:  l.logger.With(convertFieldsToZap(fields)...),
		otelLog: l.otelLog,
		fields:  combined,
	}
}
