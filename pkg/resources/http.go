package resources

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc"

	"github.com/JailtonJunior94/graceful/pkg/shutdown"
)

// HTTPServer stops accepting connections and waits for in-flight requests.
func HTTPServer(srv *http.Server, opts ...Option) func(ctx context.Context) error {
	cfg := newConfig(opts)
	return func(ctx context.Context) error {
		ctx, cancel := cfg.context(ctx)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// FiberApp gracefully shuts down a fiber application.
func FiberApp(app *fiber.App, opts ...Option) func(ctx context.Context) error {
	cfg := newConfig(opts)
	return func(ctx context.Context) error {
		ctx, cancel := cfg.context(ctx)
		defer cancel()
		return app.ShutdownWithContext(ctx)
	}
}

// GRPCServer drains RPCs with GracefulStop. When the timeout expires first
// the server is stopped hard and the handler fails with the context error.
func GRPCServer(srv *grpc.Server, opts ...Option) func(ctx context.Context) *shutdown.Deferred {
	cfg := newConfig(opts)
	return func(ctx context.Context) *shutdown.Deferred {
		result := shutdown.NewDeferred()
		ctx, cancel := cfg.context(ctx)

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		go func() {
			defer cancel()
			select {
			case <-stopped:
				result.Resolve()
			case <-ctx.Done():
				srv.Stop()
				<-stopped
				result.Reject(ctx.Err())
			}
		}()

		return result
	}
}
