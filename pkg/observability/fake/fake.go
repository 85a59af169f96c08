package fake

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/JailtonJunior94/graceful/pkg/observability"
)

// Provider records every operation so tests can assert on what the shutdown
// queue reported.
type Provider struct {
	tracer  *Tracer
	logger  *Logger
	metrics *Metrics
}

func NewProvider() *Provider {
	return &Provider{
		tracer:  NewTracer(),
		logger:  NewLogger(),
		metrics: NewMetrics(),
	}
}

func (p *Provider) Tracer() observability.Tracer {
	return p.tracer
}

func (p *Provider) Logger() observability.Logger {
	return p.logger
}

func (p *Provider) Metrics() observability.Metrics {
	return p.metrics
}

// Spans is a shortcut for p.Tracer().(*fake.Tracer).Spans().
func (p *Provider) Spans() []*Span {
	return p.tracer.Spans()
}

// Entries is a shortcut for the captured log entries.
func (p *Provider) Entries() []LogEntry {
	return p.logger.Entries()
}

// Counter returns the captured counter registered under name, creating an
// empty one when nothing recorded into it yet.
func (p *Provider) Counter(name string) *Counter {
	return p.metrics.Counter(name, "", "").(*Counter)
}

// Histogram returns the captured histogram registered under name.
func (p *Provider) Histogram(name string) *Histogram {
	return p.metrics.Histogram(name, "", "").(*Histogram)
}

type spanKey struct{}

// Tracer captures started spans in start order.
type Tracer struct {
	mu    sync.RWMutex
	spans []*Span
}

func NewTracer() *Tracer {
	return &Tracer{}
}

func (t *Tracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.NewSpanConfig(opts)

	span := &Span{
		Name:       spanName,
		Kind:       cfg.Kind,
		StartTime:  time.Now(),
		Attributes: cfg.Attributes,
	}
	if parent, ok := ctx.Value(spanKey{}).(*Span); ok {
		span.Parent = parent
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return context.WithValue(ctx, spanKey{}, span), span
}

func (t *Tracer) Spans() []*Span {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]*Span, len(t.spans))
	copy(result, t.spans)
	return result
}

// SpansNamed filters captured spans by name.
func (t *Tracer) SpansNamed(name string) []*Span {
	var result []*Span
	for _, span := range t.Spans() {
		if span.Name == name {
			result = append(result, span)
		}
	}
	return result
}

func (t *Tracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = nil
}

// Span is a captured span. Read fields only after End.
type Span struct {
	mu          sync.Mutex
	Name        string
	Kind        observability.SpanKind
	Parent      *Span
	StartTime   time.Time
	EndTime     *time.Time
	Attributes  []observability.Field
	Events      []Event
	Status      observability.StatusCode
	StatusDesc  string
	RecordedErr error
}

func (s *Span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
}

func (s *Span) SetAttributes(fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes = append(s.Attributes, fields...)
}

func (s *Span) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = code
	s.StatusDesc = description
}

func (s *Span) RecordError(err error, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordedErr = err
	s.Attributes = append(s.Attributes, fields...)
}

func (s *Span) AddEvent(name string, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, Event{Name: name, Timestamp: time.Now(), Fields: fields})
}

// Attribute returns the last value recorded for key.
func (s *Span) Attribute(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Attributes) - 1; i >= 0; i-- {
		if s.Attributes[i].Key == key {
			return s.Attributes[i].Value, true
		}
	}
	return nil, false
}

type Event struct {
	Name      string
	Timestamp time.Time
	Fields    []observability.Field
}

// Logger captures entries. Children created by With share the parent's
// storage.
type Logger struct {
	mu      *sync.RWMutex
	entries *[]LogEntry
	fields  []observability.Field
}

func NewLogger() *Logger {
	return &Logger{
		mu:      &sync.RWMutex{},
		entries: &[]LogEntry{},
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.append(observability.LogLevelDebug, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.append(observability.LogLevelInfo, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.append(observability.LogLevelWarn, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.append(observability.LogLevelError, msg, fields)
}

func (l *Logger) With(fields ...observability.Field) observability.Logger {
	merged := make([]observability.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *Logger) append(level observability.LogLevel, msg string, fields []observability.Field) {
	all := make([]observability.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{
		Level:     level,
		Message:   msg,
		Fields:    all,
		Timestamp: time.Now(),
	})
}

func (l *Logger) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]LogEntry, len(*l.entries))
	copy(result, *l.entries)
	return result
}

func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = nil
}

type LogEntry struct {
	Level     observability.LogLevel
	Message   string
	Fields    []observability.Field
	Timestamp time.Time
}

// Field returns the value of the last field named key.
func (e LogEntry) Field(key string) (any, bool) {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i].Value, true
		}
	}
	return nil, false
}

// Metrics hands out capturing instruments keyed by name.
type Metrics struct {
	mu         sync.Mutex
	counters   map[string]*Counter
	histograms map[string]*Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		counters:   make(map[string]*Counter),
		histograms: make(map[string]*Histogram),
	}
}

func (m *Metrics) Counter(name, description, unit string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c
	}
	c := &Counter{Name: name, Description: description, Unit: unit}
	m.counters[name] = c
	return c
}

func (m *Metrics) Histogram(name, description, unit string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return h
	}
	h := &Histogram{Name: name, Description: description, Unit: unit}
	m.histograms[name] = h
	return h
}

type Counter struct {
	mu          sync.Mutex
	Name        string
	Description string
	Unit        string
	values      []CounterValue
}

func (c *Counter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, CounterValue{Value: value, Fields: fields})
}

func (c *Counter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

func (c *Counter) Values() []CounterValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]CounterValue, len(c.values))
	copy(result, c.values)
	return result
}

// Sum adds up every recorded value whose fields contain all of match.
func (c *Counter) Sum(match ...observability.Field) int64 {
	var total int64
	for _, v := range c.Values() {
		if containsAll(v.Fields, match) {
			total += v.Value
		}
	}
	return total
}

type CounterValue struct {
	Value  int64
	Fields []observability.Field
}

type Histogram struct {
	mu          sync.Mutex
	Name        string
	Description string
	Unit        string
	values      []HistogramValue
}

func (h *Histogram) Record(ctx context.Context, value float64, fields ...observability.Field) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, HistogramValue{Value: value, Fields: fields})
}

func (h *Histogram) Values() []HistogramValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]HistogramValue, len(h.values))
	copy(result, h.values)
	return result
}

type HistogramValue struct {
	Value  float64
	Fields []observability.Field
}

func containsAll(fields, match []observability.Field) bool {
	for _, want := range match {
		found := false
		for _, got := range fields {
			if got.Key == want.Key && reflect.DeepEqual(got.Value, want.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
