package otel

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"

	"github.com/JailtonJunior94/graceful/pkg/observability"
)

// convertFieldToAttribute converts an observability.Field to an OpenTelemetry attribute.
// Shared by the tracer and metrics.
func convertFieldToAttribute(field observability.Field) attribute.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return attribute.String(field.Key, v)
	case int:
		return attribute.Int(field.Key, v)
	case int64:
		return attribute.Int64(field.Key, v)
	case float64:
		return attribute.Float64(field.Key, v)
	case bool:
		return attribute.Bool(field.Key, v)
	case []string:
		return attribute.StringSlice(field.Key, v)
	case time.Duration:
		return attribute.String(field.Key, v.String())
	case error:
		return attribute.String(field.Key, v.Error())
	default:
		return attribute.String(field.Key, fmt.Sprintf("%v", v))
	}
}

// convertFieldsToAttributes returns nil for empty input.
func convertFieldsToAttributes(fields []observability.Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	attrs := make([]attribute.KeyValue, len(fields))
	for i, field := range fields {
		attrs[i] = convertFieldToAttribute(field)
	}
	return attrs
}

// convertFieldToLogAttribute converts an observability.Field to an OTLP log
// attribute.
func convertFieldToLogAttribute(field observability.Field) otellog.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return otellog.String(field.Key, v)
	case int:
		return otellog.Int(field.Key, v)
	case int64:
		return otellog.Int64(field.Key, v)
	case float64:
		return otellog.Float64(field.Key, v)
	case bool:
		return otellog.Bool(field.Key, v)
	case []string:
		values := make([]otellog.Value, len(v))
		for i, s := range v {
			values[i] = otellog.StringValue(s)
		}
		return otellog.Slice(field.Key, values...)
	case time.Duration:
		return otellog.String(field.Key, v.String())
	case error:
		return otellog.String(field.Key, v.Error())
	default:
		return otellog.String(field.Key, fmt.Sprintf("%v", v))
	}
}

func convertFieldsToLogAttributes(fields []observability.Field) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, len(fields))
	for i, field := range fields {
		attrs[i] = convertFieldToLogAttribute(field)
	}
	return attrs
}

func convertFieldToZap(field observability.Field) zap.Field {
	switch v := field.Value.(type) {
	case string:
		return zap.String(field.Key, v)
	case int:
		return zap.Int(field.Key, v)
	case int64:
		return zap.Int64(field.Key, v)
	case float64:
		return zap.Float64(field.Key, v)
	case bool:
		return zap.Bool(field.Key, v)
	case []string:
		return zap.Strings(field.Key, v)
	case time.Duration:
		return zap.Duration(field.Key, v)
	case error:
		return zap.NamedError(field.Key, v)
	default:
		return zap.Any(field.Key, v)
	}
}

func convertFieldsToZap(fields []observability.Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = convertFieldToZap(field)
	}
	return zapFields
}
