package shutdown

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/JailtonJunior94/graceful/pkg/observability"
	"github.com/JailtonJunior94/graceful/pkg/observability/noop"
)

// State is the position of a Queue in its drain lifecycle.
type State int

const (
	// StateIdle means handlers are pending and none is running.
	StateIdle State = iota
	// StateDraining means a handler is running or awaiting settlement.
	StateDraining
	// StateTerminating means nothing is pending; the next drain step exits.
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	default:
		return "terminating"
	}
}

type entry struct {
	name     string
	position int
	invoke   invoker
}

// Queue runs registered cleanup handlers one at a time, in registration
// order, then terminates the process with the number of handlers that
// failed. Build one per process in the composition root and share it.
//
// A Queue assumes a single drain chain. Concurrent triggers are tolerated:
// the first one drains and exits, later ones are logged and ignored.
type Queue struct {
	config *Config
	o11y   observability.Observability
	logger observability.Logger

	executed observability.Counter
	duration observability.Histogram

	mu         sync.Mutex
	pending    []entry
	errs       []error
	registered int
	stopped    bool
	signals    chan os.Signal
	armed      []os.Signal

	wireOnce sync.Once
	stopOnce sync.Once
	stop     chan struct{}

	drainMu  sync.Mutex
	exiting  atomic.Bool
	inFlight atomic.Bool
}

// New builds a Queue. A nil o11y disables logging, tracing and metrics.
func New(o11y observability.Observability, opts ...Option) (*Queue, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shutdown configuration: %w", err)
	}

	if o11y == nil {
		o11y = noop.NewProvider()
	}

	return &Queue{
		config: cfg,
		o11y:   o11y,
		logger: o11y.Logger().With(
			observability.String("service", cfg.ServiceName),
			observability.String("component", "shutdown"),
		),
		executed: o11y.Metrics().Counter(
			"shutdown.handlers.executed",
			"Shutdown handlers run to settlement, by outcome",
			"{handler}",
		),
		duration: o11y.Metrics().Histogram(
			"shutdown.handler.duration",
			"Time from invocation to settlement of a shutdown handler",
			"ms",
		),
		stop: make(chan struct{}),
	}, nil
}

// Register appends handler to the queue. It accepts any value callable
// without arguments; see the package documentation for the recognized
// shapes. The first successful registration subscribes the queue to the
// configured signals.
func (q *Queue) Register(handler any) error {
	return q.register("", handler)
}

// RegisterNamed is Register with a name used in logs, spans and errors.
func (q *Queue) RegisterNamed(name string, handler any) error {
	return q.register(name, handler)
}

func (q *Queue) register(name string, handler any) error {
	invoke, err := normalize(handler)
	if err != nil {
		return err
	}

	q.mu.Lock()
	q.registered++
	position := q.registered
	if name == "" {
		name = fmt.Sprintf("handler-%d", position)
	}
	q.pending = append(q.pending, entry{name: name, position: position, invoke: invoke})
	q.mu.Unlock()

	q.logger.Debug(q.config.BaseContext, "shutdown handler registered",
		observability.String("handler", name),
		observability.Int("position", position),
	)

	q.wireOnce.Do(q.wireSignals)
	return nil
}

// ExitGracefully drains every pending handler and then calls the exit
// function with the number of recorded failures. Under the default
// configuration it does not return. Only the first call drains and exits;
// later calls return immediately.
func (q *Queue) ExitGracefully() {
	ctx := q.config.BaseContext

	if !q.exiting.CompareAndSwap(false, true) {
		q.logger.Warn(ctx, "graceful exit already in progress, ignoring trigger")
		return
	}

	q.drainMu.Lock()
	code := q.drain()
	q.drainMu.Unlock()

	q.logger.Info(ctx, "exiting process", observability.Int("exit_code", code))
	q.config.ExitFunc(code)
}

// Drain runs pending handlers until none is left and returns the number of
// failures recorded over the queue lifetime. It does not terminate the
// process. ErrDrainInProgress is returned when another drain is running.
func (q *Queue) Drain() (int, error) {
	if !q.drainMu.TryLock() {
		return q.failureCount(), ErrDrainInProgress
	}
	defer q.drainMu.Unlock()

	return q.drain(), nil
}

func (q *Queue) drain() int {
	drainID := ulid.Make().String()
	logger := q.logger.With(observability.String("drain_id", drainID))
	pending := q.Pending()

	ctx, span := q.o11y.Tracer().Start(q.config.BaseContext, "shutdown.drain",
		observability.WithAttributes(
			observability.String("drain_id", drainID),
			observability.Int("pending", pending),
		),
	)
	defer span.End()

	logger.Info(ctx, "draining shutdown handlers", observability.Int("pending", pending))

	start := time.Now()
	ran := 0
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		ran++
		q.run(ctx, logger, e)
	}

	failures := q.failureCount()
	span.SetAttributes(
		observability.Int("handlers", ran),
		observability.Int("failures", failures),
	)
	if failures > 0 {
		span.SetStatus(observability.StatusCodeError, fmt.Sprintf("%d shutdown handlers failed", failures))
	} else {
		span.SetStatus(observability.StatusCodeOK, "drained")
	}

	logger.Info(ctx, "shutdown handlers drained",
		observability.Int("handlers", ran),
		observability.Int("failures", failures),
		observability.Duration("elapsed", time.Since(start)),
	)

	return failures
}

// run invokes one handler and blocks until it settles. Failures are recorded,
// never returned.
func (q *Queue) run(ctx context.Context, logger observability.Logger, e entry) {
	fields := []observability.Field{
		observability.String("handler", e.name),
		observability.Int("position", e.position),
	}

	ctx, span := q.o11y.Tracer().Start(ctx, "shutdown.handler", observability.WithAttributes(fields...))
	defer span.End()

	q.inFlight.Store(true)
	defer q.inFlight.Store(false)

	logger.Debug(ctx, "running shutdown handler", fields...)

	start := time.Now()
	err := await(invoke(ctx, e.invoke))
	elapsed := time.Since(start)

	q.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), observability.String("handler", e.name))

	if err != nil {
		q.mu.Lock()
		q.errs = append(q.errs, &HandlerError{Name: e.name, Position: e.position, Err: err})
		q.mu.Unlock()

		q.executed.Increment(ctx, observability.String("outcome", "failure"))
		span.RecordError(err)
		span.SetStatus(observability.StatusCodeError, err.Error())
		logger.Error(ctx, "shutdown handler failed",
			append(fields, observability.Error(err), observability.Duration("elapsed", elapsed))...)
		return
	}

	q.executed.Increment(ctx, observability.String("outcome", "success"))
	span.SetStatus(observability.StatusCodeOK, "settled")
	logger.Debug(ctx, "shutdown handler settled",
		append(fields, observability.Duration("elapsed", elapsed))...)
}

// invoke calls fn synchronously, turning a panic into a failure.
func invoke(ctx context.Context, fn invoker) (result Awaitable, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}

// await blocks until result settles. There is no timeout: a result that
// never settles stalls the drain.
func await(result Awaitable, err error) error {
	if err != nil {
		return err
	}
	if isNil(result) {
		return nil
	}
	<-result.Done()
	return result.Err()
}

func (q *Queue) pop() (entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return entry{}, false
	}

	e := q.pending[0]
	q.pending[0] = entry{}
	q.pending = q.pending[1:]
	return e, true
}

// Errors returns a snapshot of the failures recorded so far, in the order
// they occurred. Each element is a *HandlerError.
func (q *Queue) Errors() []error {
	q.mu.Lock()
	defer q.mu.Unlock()

	errs := make([]error, len(q.errs))
	copy(errs, q.errs)
	return errs
}

// Pending returns the number of handlers not yet started.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// State reports where the queue is in its drain lifecycle.
func (q *Queue) State() State {
	if q.inFlight.Load() {
		return StateDraining
	}
	if q.Pending() == 0 {
		return StateTerminating
	}
	return StateIdle
}

func (q *Queue) failureCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.errs)
}

// wireSignals subscribes once to the configured signals and starts the
// watcher goroutine.
func (q *Queue) wireSignals() {
	if q.config.DisableSignals {
		return
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	ch := make(chan os.Signal, 1)
	q.armed = append([]os.Signal(nil), q.config.Signals...)
	q.config.Notifier.Notify(ch, q.armed...)
	q.signals = ch
	q.mu.Unlock()

	q.logger.Debug(q.config.BaseContext, "termination signals wired",
		observability.Any("signals", signalNames(q.config.Signals)))

	go q.watch(ch)
}

func (q *Queue) watch(ch chan os.Signal) {
	ctx := q.config.BaseContext
	for {
		select {
		case <-q.stop:
			return
		case sig := <-ch:
			q.release(ch, sig)
			if sig == os.Interrupt {
				carriageReturn(q.config.Terminal)
			}
			q.logger.Info(ctx, "signal received, initiating graceful shutdown",
				observability.String("signal", sig.String()))
			go q.ExitGracefully()
		}
	}
}

// release drops the subscription for sig once it has been delivered. A
// repeat of the same signal then gets the default handling, which ends a
// drain stalled on a handler that never settles.
func (q *Queue) release(ch chan os.Signal, sig os.Signal) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return
	}

	remaining := make([]os.Signal, 0, len(q.armed))
	for _, armed := range q.armed {
		if armed != sig {
			remaining = append(remaining, armed)
		}
	}
	q.armed = remaining

	q.config.Notifier.Stop(ch)
	if len(remaining) > 0 {
		q.config.Notifier.Notify(ch, remaining...)
	}
}

// Stop unsubscribes from signals. Handlers stay queued and ExitGracefully
// can still be called directly.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		ch := q.signals
		q.mu.Unlock()

		close(q.stop)
		if ch != nil {
			q.config.Notifier.Stop(ch)
		}
	})
}

func signalNames(signals []os.Signal) []string {
	names := make([]string, len(signals))
	for i, sig := range signals {
		names[i] = sig.String()
	}
	return names
}
