package observability

import "time"

// Observability groups the three telemetry signals used by the shutdown queue.
// Inject it once from the composition root; providers live in the noop, fake
// and otel subpackages.
type Observability interface {
	Tracer() Tracer
	Logger() Logger
	Metrics() Metrics
}

// Field is a structured key/value pair shared by logs, span attributes and
// metric labels.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration stores the value as a time.Duration; providers render it as text.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Error creates a field under the conventional "error" key.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}
