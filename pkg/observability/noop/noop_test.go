package noop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JailtonJunior94/graceful/pkg/observability"
	"github.com/JailtonJunior94/graceful/pkg/observability/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	var provider observability.Observability = noop.NewProvider()

	require.NotNil(t, provider.Tracer())
	require.NotNil(t, provider.Logger())
	require.NotNil(t, provider.Metrics())
}

func TestOperationsDoNotPanic(t *testing.T) {
	provider := noop.NewProvider()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		spanCtx, span := provider.Tracer().Start(ctx, "shutdown.drain",
			observability.WithAttributes(observability.Int("pending", 2)))
		assert.Equal(t, ctx, spanCtx)
		span.SetAttributes(observability.String("k", "v"))
		span.AddEvent("handler.settled")
		span.RecordError(errors.New("boom"))
		span.SetStatus(observability.StatusCodeError, "failed")
		span.End()

		logger := provider.Logger().With(observability.String("drain_id", "x"))
		logger.Debug(ctx, "debug")
		logger.Info(ctx, "info")
		logger.Warn(ctx, "warn")
		logger.Error(ctx, "error", observability.Error(errors.New("boom")))

		provider.Metrics().Counter("c", "", "1").Increment(ctx)
		provider.Metrics().Counter("c", "", "1").Add(ctx, 3)
		provider.Metrics().Histogram("h", "", "ms").Record(ctx, 1.5)
	})
}
