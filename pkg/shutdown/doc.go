// Package shutdown coordinates the ordered cleanup of a process before it
// exits.
//
// Callers register handlers (close a pool, flush a producer, stop a server)
// on a Queue built once in the composition root. When a termination signal
// arrives, or when ExitGracefully is called, the queue runs the handlers one
// at a time in registration order. Handler k+1 never starts before handler k
// has settled. A failing handler never stops the drain. After the last
// handler the process exits with the number of failures as its status, so a
// supervisor can spot a partial shutdown without reading logs.
//
// Accepted handler shapes:
//
//	func()                                  // success unless it panics
//	func() error                            // non-nil error is a failure
//	func() *shutdown.Deferred               // awaited until settled
//	func() shutdown.Awaitable               // awaited until settled
//	func() <-chan error                     // first value or close settles it
//	func(context.Context) ...               // same results, receives Config.BaseContext
//	shutdown.Shutdowner, io.Closer, Close() // method values of clients and servers
//
// Any other function callable without arguments is accepted too; its results
// are inspected for an error or an Awaitable. Everything else is rejected with
// an *InvalidHandlerError.
//
// The queue applies no timeout and never cancels a handler: a result that
// never settles stalls the drain. Each signal is handled once; after its first
// delivery the subscription is released, so sending the same signal again
// gets the default handling and terminates the process.
//
// Basic usage:
//
//	queue, err := shutdown.New(o11y, shutdown.WithServiceName("orders"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = queue.RegisterNamed("http", server)            // Shutdown(ctx) error
//	_ = queue.RegisterNamed("postgres", pool.Close)    // func()
//	_ = queue.RegisterNamed("kafka", shutdown.Async(func(ctx context.Context) error {
//	    return writer.Close()
//	}))
//
//	// SIGINT, SIGTERM or SIGHUP now drains the queue and exits.
package shutdown
