package shutdown_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/graceful/pkg/shutdown"
)

func TestCollector(t *testing.T) {
	h := newHarness(t)
	collector := shutdown.NewCollector(h.queue, "orders")

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(collector))

	require.NoError(t, h.queue.Register(func() {}))
	require.NoError(t, h.queue.Register(func() {}))

	assert.Equal(t, 3, testutil.CollectAndCount(collector))
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(`
# HELP orders_shutdown_pending_handlers Shutdown handlers waiting to run.
# TYPE orders_shutdown_pending_handlers gauge
orders_shutdown_pending_handlers 2
# HELP orders_shutdown_state Drain state: 0 idle, 1 draining, 2 terminating.
# TYPE orders_shutdown_state gauge
orders_shutdown_state 0
`), "orders_shutdown_pending_handlers", "orders_shutdown_state"))

	require.NoError(t, h.queue.Register(func() error { return errors.New("boom") }))
	_, err := h.queue.Drain()
	require.NoError(t, err)

	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP orders_shutdown_handler_failures_total Shutdown handlers that failed by error, rejection or panic.
# TYPE orders_shutdown_handler_failures_total counter
orders_shutdown_handler_failures_total 1
# HELP orders_shutdown_pending_handlers Shutdown handlers waiting to run.
# TYPE orders_shutdown_pending_handlers gauge
orders_shutdown_pending_handlers 0
# HELP orders_shutdown_state Drain state: 0 idle, 1 draining, 2 terminating.
# TYPE orders_shutdown_state gauge
orders_shutdown_state 2
`)))
}
