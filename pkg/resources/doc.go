// Package resources adapts infrastructure clients into shutdown handlers.
//
// Each constructor returns a function accepted by shutdown.Queue.Register.
// Closing an already closed client is not a failure. WithTimeout bounds
// adapters whose client supports a deadline; the queue itself never applies
// one.
//
//	_ = queue.RegisterNamed("http", resources.HTTPServer(srv, resources.WithTimeout(10*time.Second)))
//	_ = queue.RegisterNamed("kafka", resources.KafkaWriter(writer))
//	_ = queue.RegisterNamed("postgres", resources.PgxPool(pool))
//	_ = queue.RegisterNamed("telemetry", resources.Telemetry(provider))
package resources
