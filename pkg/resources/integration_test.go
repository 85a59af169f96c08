//go:build integration

package resources_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JailtonJunior94/graceful/pkg/observability/fake"
	"github.com/JailtonJunior94/graceful/pkg/resources"
	"github.com/JailtonJunior94/graceful/pkg/shutdown"
)

func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("orders"),
		postgres.WithUsername("orders"),
		postgres.WithPassword("orders"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func TestIntegration_PoolReleasedBeforeClose(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, setupPostgres(t))
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)

	queue, err := shutdown.New(fake.NewProvider(), shutdown.WithoutSignals(), shutdown.WithExitFunc(func(int) {}))
	require.NoError(t, err)
	require.NoError(t, queue.RegisterNamed("postgres", resources.PgxPool(pool)))

	released := make(chan struct{})
	go func() {
		time.Sleep(100 * time.Millisecond)
		conn.Release()
		close(released)
	}()

	failures, err := queue.Drain()

	require.NoError(t, err)
	assert.Zero(t, failures)
	select {
	case <-released:
	default:
		t.Fatal("pool closed before the acquired connection was released")
	}
}

func TestIntegration_KafkaWriterFlushesOnDrain(t *testing.T) {
	ctx := context.Background()
	brokers := setupKafka(t)

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "orders",
		AllowAutoTopicCreation: true,
	}
	require.NoError(t, writer.WriteMessages(ctx, kafka.Message{Value: []byte(`{"id":"1"}`)}))

	queue, err := shutdown.New(fake.NewProvider(), shutdown.WithoutSignals(), shutdown.WithExitFunc(func(int) {}))
	require.NoError(t, err)
	require.NoError(t, queue.RegisterNamed("kafka", resources.KafkaWriter(writer)))

	failures, err := queue.Drain()

	require.NoError(t, err)
	assert.Zero(t, failures)
	assert.Empty(t, queue.Errors())
}
