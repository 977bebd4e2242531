package loghub

import (
	"fmt"
	"reflect"
)

// Sink consumes entries. Handle is called synchronously by the writer that
// produced the entry (or by AddSink during replay) while the hub lock is
// held: a slow sink slows writers, and a sink must never write back into
// the hub it is attached to.
//
// A panic in Handle is recovered and counted; it does not reach the writer
// and does not stop delivery to other sinks.
type Sink interface {
	Handle(e *Entry, r *Rendering)
}

// SinkFunc adapter. Func values are not comparable, so a SinkFunc cannot be
// removed with RemoveSink; wrap it in a pointer type if that matters.
type SinkFunc func(e *Entry, r *Rendering)

func (f SinkFunc) Handle(e *Entry, r *Rendering) { f(e, r) }

// Named is implemented by sinks that want a stable name in metrics.
type Named interface {
	Name() string
}

// SinkName returns the Name of s when it has one, otherwise its Go type.
func SinkName(s Sink) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// sameSink compares by identity. Values that cannot be compared, including
// comparable types holding a func in an interface field, never match.
func sameSink(a, b Sink) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
