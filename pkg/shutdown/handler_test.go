package shutdown

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shutdownerFunc func(ctx context.Context) error

func (f shutdownerFunc) Shutdown(ctx context.Context) error { return f(ctx) }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type plainCloser struct{ closed bool }

func (c *plainCloser) Close() { c.closed = true }

type stopFunc func()

type flushError struct{ topic string }

func (e *flushError) Error() string { return "flush " + e.topic + " failed" }

func TestNormalize(t *testing.T) {
	boom := errors.New("boom")
	flushErr := &flushError{topic: "orders"}

	errChan := func(err error, send bool) <-chan error {
		ch := make(chan error, 1)
		if send {
			ch <- err
		}
		close(ch)
		return ch
	}

	tests := []struct {
		name    string
		handler any
		wantErr error
	}{
		{name: "func", handler: func() {}},
		{name: "func error nil", handler: func() error { return nil }},
		{name: "func error", handler: func() error { return boom }, wantErr: boom},
		{name: "deferred resolved", handler: func() *Deferred { return Resolved() }},
		{name: "deferred rejected", handler: func() *Deferred { return Rejected(boom) }, wantErr: boom},
		{name: "deferred rejected without reason", handler: func() *Deferred { return Rejected(nil) }, wantErr: ErrRejected},
		{name: "nil deferred", handler: func() *Deferred { return nil }},
		{name: "nil awaitable", handler: func() Awaitable { return nil }},
		{name: "awaitable", handler: func() Awaitable { return Rejected(boom) }, wantErr: boom},
		{name: "channel value", handler: func() <-chan error { return errChan(boom, true) }, wantErr: boom},
		{name: "channel nil value", handler: func() <-chan error { return errChan(nil, true) }},
		{name: "channel closed", handler: func() <-chan error { return errChan(nil, false) }},
		{name: "nil channel", handler: func() <-chan error { return nil }},
		{name: "ctx func", handler: func(context.Context) {}},
		{name: "ctx func error", handler: func(context.Context) error { return boom }, wantErr: boom},
		{name: "ctx deferred", handler: func(context.Context) *Deferred { return Rejected(boom) }, wantErr: boom},
		{name: "ctx awaitable", handler: func(context.Context) Awaitable { return Resolved() }},
		{name: "shutdowner", handler: shutdownerFunc(func(context.Context) error { return boom }), wantErr: boom},
		{name: "io closer", handler: closerFunc(func() error { return boom }), wantErr: boom},
		{name: "plain closer", handler: &plainCloser{}},
		{name: "named func type", handler: stopFunc(func() {})},
		{name: "value result", handler: func() string { return "ignored" }},
		{name: "value and error", handler: func() (int, error) { return 0, boom }, wantErr: boom},
		{name: "value and nil error", handler: func() (int, error) { return 1, nil }},
		{name: "value and deferred", handler: func() (string, *Deferred) { return "", Rejected(boom) }, wantErr: boom},
		{name: "bidirectional channel", handler: func() chan error {
			ch := make(chan error, 1)
			ch <- boom
			return ch
		}, wantErr: boom},
		{name: "variadic", handler: func(...string) error { return boom }, wantErr: boom},
		{name: "concrete error", handler: func() *flushError { return flushErr }, wantErr: flushErr},
		{name: "concrete nil error", handler: func() *flushError { return nil }},
		{name: "value and concrete error", handler: func() (int, *os.PathError) {
			return 0, &os.PathError{Op: "close", Path: "/tmp/orders.db", Err: boom}
		}, wantErr: boom},
		{name: "value and concrete nil error", handler: func() (int, *os.PathError) { return 1, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := normalize(tt.handler)
			require.NoError(t, err)

			got := await(invoke(context.Background(), fn))

			if tt.wantErr == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantErr)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	var nilFunc func() error
	var nilCloser *plainCloser

	tests := []struct {
		name     string
		handler  any
		wantType string
	}{
		{name: "nil", handler: nil, wantType: "<nil>"},
		{name: "number", handler: 3, wantType: "int"},
		{name: "map", handler: map[string]int{}, wantType: "map[string]int"},
		{name: "typed nil func", handler: nilFunc, wantType: "func() error"},
		{name: "typed nil closer", handler: nilCloser, wantType: "*shutdown.plainCloser"},
		{name: "func with argument", handler: func(string) {}, wantType: "func(string)"},
		{name: "func with two arguments", handler: func(context.Context, int) error { return nil }, wantType: "func(context.Context, int) error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := normalize(tt.handler)

			assert.Nil(t, fn)
			require.ErrorIs(t, err, ErrInvalidHandler)
			var invalid *InvalidHandlerError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantType, invalid.Type)
			assert.Contains(t, err.Error(), "expected a function for shutdown handler")
		})
	}
}

func TestNormalize_ContextIsPassedThrough(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, 7)

	var got any
	fn, err := normalize(shutdownerFunc(func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, await(invoke(ctx, fn)))
	assert.Equal(t, 7, got)
}

func TestInvoke_RecoversPanics(t *testing.T) {
	fn, err := normalize(func() { panic("disk full") })
	require.NoError(t, err)

	got := await(invoke(context.Background(), fn))

	var panicErr *PanicError
	require.ErrorAs(t, got, &panicErr)
	assert.Equal(t, "disk full", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Nil(t, panicErr.Unwrap())
	assert.EqualError(t, got, "panic: disk full")
}

func TestPlainCloserIsCalled(t *testing.T) {
	closer := &plainCloser{}
	fn, err := normalize(closer)
	require.NoError(t, err)

	require.NoError(t, await(invoke(context.Background(), fn)))
	assert.True(t, closer.closed)
}
