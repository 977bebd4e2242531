package loghub

import "fmt"

// Decorator contributes at most one typed value to an entry's attached data.
// A nil value means no contribution. A returned error, or a panic, drops the
// contribution without affecting the write or the other decorators.
//
// Decorators run under the hub lock: they must not write to the hub.
type Decorator interface {
	Decorate(e *Entry) (any, error)
}

// ErrorDecorator is the error-aware variant. It only runs for entries that
// carry an error; handled reports whether the caller recovered from it.
type ErrorDecorator interface {
	DecorateError(e *Entry, err error, handled bool) (any, error)
}

// DecoratorFunc adapter.
type DecoratorFunc func(e *Entry) (any, error)

func (f DecoratorFunc) Decorate(e *Entry) (any, error) { return f(e) }

// ErrorDecoratorFunc adapter.
type ErrorDecoratorFunc func(e *Entry, err error, handled bool) (any, error)

func (f ErrorDecoratorFunc) DecorateError(e *Entry, err error, handled bool) (any, error) {
	return f(e, err, handled)
}

// errorOnly lifts an ErrorDecorator into the pipeline: it contributes
// nothing for entries without an error.
type errorOnly struct{ ErrorDecorator }

func (errorOnly) Decorate(*Entry) (any, error) { return nil, nil }

// ErrorAware wraps d so it can be registered wherever a Decorator is taken.
func ErrorAware(d ErrorDecorator) Decorator {
	if d == nil {
		return nil
	}
	if pd, ok := d.(Decorator); ok {
		return pd
	}
	return errorOnly{d}
}

// decorate runs d with panic isolation. A Decorator that also implements
// ErrorDecorator gets the error-aware call when the entry carries an error.
func decorate(d Decorator, e *Entry) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrDecoratorPanic, r)
		}
	}()
	if ed, ok := d.(ErrorDecorator); ok && e.err != nil {
		return ed.DecorateError(e, e.err, e.handled)
	}
	return d.Decorate(e)
}
