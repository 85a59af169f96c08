package noop

import (
	"context"

	"github.com/JailtonJunior94/graceful/pkg/observability"
)

// Provider discards every log, span and measurement. shutdown.New falls back
// to it when no provider is injected.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Tracer() observability.Tracer {
	return tracer{}
}

func (p *Provider) Logger() observability.Logger {
	return logger{}
}

func (p *Provider) Metrics() observability.Metrics {
	return metrics{}
}

type tracer struct{}

func (tracer) Start(ctx context.Context, _ string, _ ...observability.SpanOption) (context.Context, observability.Span) {
	return ctx, span{}
}

type span struct{}

func (span) End() {}
func (span) SetAttributes(...observability.Field) {}
func (span) SetStatus(observability.StatusCode, string) {}
func (span) RecordError(error, ...observability.Field) {}
func (span) AddEvent(string, ...observability.Field) {}

type logger struct{}

func (logger) Debug(context.Context, string, ...observability.Field) {}
func (logger) Info(context.Context, string, ...observability.Field) {}
func (logger) Warn(context.Context, string, ...observability.Field) {}
func (logger) Error(context.Context, string, ...observability.Field) {}

func (l logger) With(...observability.Field) observability.Logger {
	return l
}

type metrics struct{}

func (metrics) Counter(string, string, string) observability.Counter {
	return counter{}
}

func (metrics) Histogram(string, string, string) observability.Histogram {
	return histogram{}
}

type counter struct{}

func (counter) Add(context.Context, int64, ...observability.Field) {}
func (counter) Increment(context.Context, ...observability.Field) {}

type histogram struct{}

func (histogram) Record(context.Context, float64, ...observability.Field) {}
