package loghub

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Serializer turns an entry into text. It is only called when some sink
// forces the entry's Rendering, and at most once per entry.
type Serializer interface {
	Serialize(e *Entry) (string, error)
}

// SerializerFunc adapter.
type SerializerFunc func(e *Entry) (string, error)

func (f SerializerFunc) Serialize(e *Entry) (string, error) { return f(e) }

// MessageSerializer renders the expanded message template and nothing else.
// It is the hub default.
var MessageSerializer Serializer = SerializerFunc(func(e *Entry) (string, error) {
	return e.Message(), nil
})

// Rendering is the deferred, memoized text of one entry, shared by every sink
// the entry is dispatched to (including later replays). The first force
// decides the outcome: text or error is kept and returned to every caller.
// It is safe to force from several goroutines.
type Rendering struct {
	entry      *Entry
	serializer Serializer
	onRender   func(error)

	once sync.Once
	done atomic.Bool
	text string
	err  error
}

func newRendering(e *Entry, s Serializer, onRender func(error)) *Rendering {
	if s == nil {
		s = MessageSerializer
	}
	return &Rendering{entry: e, serializer: s, onRender: onRender}
}

// Entry returns the entry this cell renders.
func (r *Rendering) Entry() *Entry { return r.entry }

// Text forces the cell with the hub serializer.
func (r *Rendering) Text() (string, error) { return r.Force(nil) }

// Force forces the cell. s is only used when this call is the first one; a
// nil s means the hub serializer.
func (r *Rendering) Force(s Serializer) (string, error) {
	r.once.Do(func() {
		if s == nil {
			s = r.serializer
		}
		r.text, r.err = serialize(s, r.entry)
		r.done.Store(true)
		if r.onRender != nil {
			r.onRender(r.err)
		}
	})
	return r.text, r.err
}

// Forced reports whether the serializer has already run.
func (r *Rendering) Forced() bool { return r.done.Load() }

func serialize(s Serializer, e *Entry) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrSerializerPanic, rec)
		}
	}()
	return s.Serialize(e)
}
