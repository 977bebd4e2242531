package loghub

import (
	"reflect"
	"time"
)

// Entry is one log write. The hub builds it, runs the decorators over it and
// from then on it is read-only: sinks receive it by pointer and must not
// modify the slices it hands out.
type Entry struct {
	level    Level
	logID    string
	template string
	args     []any
	at       time.Time
	seq      uint64
	err      error
	handled  bool

	// attached data in contribution order, at most one value per type
	data []attachment
}

type attachment struct {
	typ reflect.Type
	val any
}

var errorType = reflect.TypeFor[error]()

func (e *Entry) Level() Level     { return e.level }
func (e *Entry) LogID() string    { return e.logID }
func (e *Entry) Template() string { return e.template }
func (e *Entry) Args() []any      { return e.args }
func (e *Entry) Time() time.Time  { return e.at }
func (e *Entry) Seq() uint64      { return e.seq }
func (e *Entry) Err() error       { return e.err }
func (e *Entry) Handled() bool    { return e.handled }

// Message expands the template with the arguments. It does the work on
// every call; sinks that share text should go through their Rendering.
func (e *Entry) Message() string { return Expand(e.template, e.args) }

// Fields returns the caller-bound fields, if any.
func (e *Entry) Fields() Fields {
	f, _ := Attached[Fields](e)
	return f
}

// ErrorInfo returns the portable error representation attached by an
// error-aware decorator, or nil.
func (e *Entry) ErrorInfo() *ErrorInfo {
	if info, ok := Attached[*ErrorInfo](e); ok {
		return info
	}
	if info, ok := Attached[ErrorInfo](e); ok {
		return &info
	}
	return nil
}

// Value returns the attached value registered under t.
func (e *Entry) Value(t reflect.Type) (any, bool) {
	for i := range e.data {
		if e.data[i].typ == t {
			return e.data[i].val, true
		}
	}
	return nil, false
}

// Range calls fn for every attached value in contribution order until fn
// returns false.
func (e *Entry) Range(fn func(t reflect.Type, v any) bool) {
	for i := range e.data {
		if !fn(e.data[i].typ, e.data[i].val) {
			return
		}
	}
}

// AllFields flattens the caller-bound fields, every attached FieldSource and
// the raw error (under "error") into one slice, in that order.
func (e *Entry) AllFields() []Field {
	var out []Field
	for i := range e.data {
		if fs, ok := e.data[i].val.(FieldSource); ok {
			out = append(out, fs.LogFields()...)
		}
	}
	if e.err != nil {
		out = append(out, Err("error", e.err))
	}
	return out
}

// Attached returns the value of type T attached to e.
//
//	if c, ok := loghub.Attached[decorate.CallerInfo](e); ok { ... }
func Attached[T any](e *Entry) (T, bool) {
	var zero T
	v, ok := e.Value(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// attach stores v under its dynamic type; a later value of the same type
// replaces the earlier one.
func (e *Entry) attach(v any) {
	e.attachAs(reflect.TypeOf(v), v)
}

func (e *Entry) attachAs(t reflect.Type, v any) {
	for i := range e.data {
		if e.data[i].typ == t {
			e.data[i].val = v
			return
		}
	}
	e.data = append(e.data, attachment{typ: t, val: v})
}
