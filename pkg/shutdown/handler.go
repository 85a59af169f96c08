package shutdown

import (
	"context"
	"fmt"
	"io"
	"reflect"
)

// Shutdowner is implemented by components with a context-aware graceful stop,
// such as *http.Server or the otel observability provider.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// invoker is the normalized form of every accepted handler. A nil Awaitable
// with a nil error means the handler already succeeded.
type invoker func(ctx context.Context) (Awaitable, error)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	awaitableType = reflect.TypeOf((*Awaitable)(nil)).Elem()
	errChanType   = reflect.TypeOf((<-chan error)(nil))
)

// normalize turns a registered value into an invoker or reports why it cannot
// be called.
func normalize(handler any) (invoker, error) {
	if isNil(handler) {
		return nil, &InvalidHandlerError{Type: fmt.Sprintf("%T", handler)}
	}

	switch fn := handler.(type) {
	case func():
		return func(context.Context) (Awaitable, error) {
			fn()
			return nil, nil
		}, nil
	case func() error:
		return func(context.Context) (Awaitable, error) {
			return nil, fn()
		}, nil
	case func() *Deferred:
		return func(context.Context) (Awaitable, error) {
			return deferredResult(fn()), nil
		}, nil
	case func() Awaitable:
		return func(context.Context) (Awaitable, error) {
			return fn(), nil
		}, nil
	case func() <-chan error:
		return func(context.Context) (Awaitable, error) {
			return channelResult(fn()), nil
		}, nil
	case func(context.Context):
		return func(ctx context.Context) (Awaitable, error) {
			fn(ctx)
			return nil, nil
		}, nil
	case func(context.Context) error:
		return func(ctx context.Context) (Awaitable, error) {
			return nil, fn(ctx)
		}, nil
	case func(context.Context) *Deferred:
		return func(ctx context.Context) (Awaitable, error) {
			return deferredResult(fn(ctx)), nil
		}, nil
	case func(context.Context) Awaitable:
		return func(ctx context.Context) (Awaitable, error) {
			return fn(ctx), nil
		}, nil
	case Shutdowner:
		return func(ctx context.Context) (Awaitable, error) {
			return nil, fn.Shutdown(ctx)
		}, nil
	case io.Closer:
		return func(context.Context) (Awaitable, error) {
			return nil, fn.Close()
		}, nil
	case interface{ Close() }:
		return func(context.Context) (Awaitable, error) {
			fn.Close()
			return nil, nil
		}, nil
	}

	return reflectInvoker(handler)
}

// reflectInvoker accepts any other function callable without arguments and
// classifies its results: a non-nil error fails, an Awaitable or <-chan error
// is awaited, anything else is a plain value.
func reflectInvoker(handler any) (invoker, error) {
	v := reflect.ValueOf(handler)
	t := v.Type()
	if t.Kind() != reflect.Func || !(t.NumIn() == 0 || (t.NumIn() == 1 && t.IsVariadic())) {
		return nil, &InvalidHandlerError{Type: t.String()}
	}

	return func(context.Context) (Awaitable, error) {
		var pending Awaitable
		for _, out := range v.Call(nil) {
			switch {
			case out.Type().Implements(errorType):
				if !isNil(out.Interface()) {
					return nil, out.Interface().(error)
				}
			case out.Type().Implements(awaitableType):
				if pending == nil && !isNil(out.Interface()) {
					pending = out.Interface().(Awaitable)
				}
			case out.Type().ConvertibleTo(errChanType) && out.Kind() == reflect.Chan:
				if pending == nil && !out.IsNil() {
					pending = fromChannel(out.Convert(errChanType).Interface().(<-chan error))
				}
			}
		}
		return pending, nil
	}, nil
}

func deferredResult(d *Deferred) Awaitable {
	if d == nil {
		return nil
	}
	return d
}

// channelResult treats a nil channel as a plain value rather than a result
// that can never settle.
func channelResult(ch <-chan error) Awaitable {
	if ch == nil {
		return nil
	}
	return fromChannel(ch)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
