package fake_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JailtonJunior94/graceful/pkg/observability"
	"github.com/JailtonJunior94/graceful/pkg/observability/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerCapturesParentage(t *testing.T) {
	provider := fake.NewProvider()
	ctx := context.Background()

	ctx, parent := provider.Tracer().Start(ctx, "shutdown.drain")
	_, child := provider.Tracer().Start(ctx, "shutdown.handler",
		observability.WithAttributes(observability.String("handler.name", "db")))
	child.RecordError(errors.New("boom"))
	child.SetStatus(observability.StatusCodeError, "boom")
	child.End()
	parent.End()

	spans := provider.Spans()
	require.Len(t, spans, 2)
	assert.Nil(t, spans[0].Parent)
	assert.Same(t, spans[0], spans[1].Parent)
	assert.NotNil(t, spans[1].EndTime)
	assert.EqualError(t, spans[1].RecordedErr, "boom")
	assert.Equal(t, observability.StatusCodeError, spans[1].Status)

	name, ok := spans[1].Attribute("handler.name")
	require.True(t, ok)
	assert.Equal(t, "db", name)
}

func TestLoggerWithSharesStorage(t *testing.T) {
	provider := fake.NewProvider()
	ctx := context.Background()

	child := provider.Logger().With(observability.String("drain_id", "01H"))
	provider.Logger().Info(ctx, "root")
	child.Error(ctx, "child", observability.Int("position", 2))

	entries := provider.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, observability.LogLevelInfo, entries[0].Level)
	assert.Equal(t, "child", entries[1].Message)
	assert.Equal(t, observability.LogLevelError, entries[1].Level)

	id, ok := entries[1].Field("drain_id")
	require.True(t, ok)
	assert.Equal(t, "01H", id)

	_, ok = entries[0].Field("drain_id")
	assert.False(t, ok)
}

func TestMetrics(t *testing.T) {
	provider := fake.NewProvider()
	ctx := context.Background()

	counter := provider.Metrics().Counter("shutdown.handlers.executed", "", "1")
	counter.Increment(ctx, observability.String("outcome", "success"))
	counter.Increment(ctx, observability.String("outcome", "failure"))
	counter.Add(ctx, 2, observability.String("outcome", "failure"))

	got := provider.Counter("shutdown.handlers.executed")
	assert.Same(t, counter, got)
	assert.Equal(t, int64(4), got.Sum())
	assert.Equal(t, int64(3), got.Sum(observability.String("outcome", "failure")))

	provider.Metrics().Histogram("shutdown.handler.duration", "", "ms").Record(ctx, 12.5)
	values := provider.Histogram("shutdown.handler.duration").Values()
	require.Len(t, values, 1)
	assert.Equal(t, 12.5, values[0].Value)
}
