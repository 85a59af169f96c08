package observability

import "context"

// Tracer starts spans. The returned context carries the new span so that
// children started from it are parented correctly.
type Tracer interface {
	Start(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, Span)
}

// Span represents an active trace span.
type Span interface {
	// End finishes the span. No further calls should be made afterwards.
	End()
	SetAttributes(fields ...Field)
	SetStatus(code StatusCode, description string)
	RecordError(err error, fields ...Field)
	AddEvent(name string, fields ...Field)
}

// StatusCode is the canonical status of a span.
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOK
	StatusCodeError
)

// SpanKind represents the role of a span in a trace.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
)

// SpanOption configures span creation.
type SpanOption func(*SpanConfig)

// SpanConfig is the resolved set of options for a span. Providers read it
// through NewSpanConfig.
type SpanConfig struct {
	Kind       SpanKind
	Attributes []Field
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return func(c *SpanConfig) {
		c.Kind = kind
	}
}

// WithAttributes sets initial attributes on the span.
func WithAttributes(fields ...Field) SpanOption {
	return func(c *SpanConfig) {
		c.Attributes = append(c.Attributes, fields...)
	}
}

// NewSpanConfig resolves opts over the defaults (internal kind, no attributes).
func NewSpanConfig(opts []SpanOption) SpanConfig {
	cfg := SpanConfig{Kind: SpanKindInternal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
