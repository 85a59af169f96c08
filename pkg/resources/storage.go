package resources

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/JailtonJunior94/graceful/pkg/shutdown"
)

// PgxPool closes the pool. Close blocks until every acquired connection is
// released, so it runs off the drain goroutine and is awaited.
func PgxPool(pool *pgxpool.Pool) func() *shutdown.Deferred {
	return func() *shutdown.Deferred {
		return shutdown.Go(func() error {
			pool.Close()
			return nil
		})
	}
}

// SQLDB closes a database/sql handle.
func SQLDB(db *sql.DB) func() error {
	return func() error {
		return db.Close()
	}
}

// RedisClient closes a go-redis client, cluster client or ring.
func RedisClient(client redis.UniversalClient) func() error {
	return func() error {
		return ignoreClosed(client.Close(), redis.ErrClosed)
	}
}

// Telemetry shuts down an observability provider, flushing buffered spans
// and metrics. Register it last so earlier handlers are still reported.
func Telemetry(provider shutdown.Shutdowner, opts ...Option) func(ctx context.Context) error {
	cfg := newConfig(opts)
	return func(ctx context.Context) error {
		ctx, cancel := cfg.context(ctx)
		defer cancel()
		return provider.Shutdown(ctx)
	}
}
