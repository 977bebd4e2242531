package memsink

import (
	"sync"
	"sync/atomic"

	"github.com/smallnest/ringbuffer"

	"github.com/trickstertwo/loghub"
)

// Tail spools the most recent rendered lines into a fixed-size byte ring.
// When a new line does not fit, whole lines are evicted from the front. A
// line longer than the ring is dropped.
type Tail struct {
	mu      sync.Mutex
	rb      *ringbuffer.RingBuffer
	lens    []int // lengths of the spooled lines, oldest first
	scratch []byte
	dropped atomic.Uint64
	evicted atomic.Uint64
}

// NewTail returns a spool holding at most capacity bytes of text.
func NewTail(capacity int) *Tail {
	return &Tail{rb: ringbuffer.New(capacity)}
}

func (t *Tail) Name() string { return "tail" }

func (t *Tail) Handle(e *loghub.Entry, r *loghub.Rendering) {
	text, err := r.Text()
	if err != nil {
		text = e.Message()
	}
	line := append([]byte(text), '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(line) > t.rb.Capacity() {
		t.dropped.Add(1)
		return
	}
	for t.rb.Free() < len(line) && len(t.lens) > 0 {
		t.discardOldest()
	}
	if _, err := t.rb.Write(line); err != nil {
		t.dropped.Add(1)
		return
	}
	t.lens = append(t.lens, len(line))
}

func (t *Tail) discardOldest() {
	n := t.lens[0]
	t.lens = t.lens[1:]
	if cap(t.scratch) < n {
		t.scratch = make([]byte, n)
	}
	for left := n; left > 0; {
		m, err := t.rb.Read(t.scratch[:left])
		if err != nil {
			// Out of step with the ring: start over.
			t.rb.Reset()
			t.lens = t.lens[:0]
			return
		}
		left -= m
	}
	t.evicted.Add(1)
}

// Drain removes and returns the spooled lines, oldest first, without their
// trailing newline.
func (t *Tail) Drain() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.lens))
	for _, n := range t.lens {
		buf := make([]byte, n)
		read := 0
		for read < n {
			m, err := t.rb.Read(buf[read:])
			if err != nil {
				break
			}
			read += m
		}
		out = append(out, string(buf[:max(read-1, 0)]))
	}
	t.lens = t.lens[:0]
	t.rb.Reset()
	return out
}

// Lines is the number of spooled lines.
func (t *Tail) Lines() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lens)
}

// Used is the number of spooled bytes.
func (t *Tail) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rb.Length()
}

// Dropped counts lines that could not be spooled; Evicted counts lines
// pushed out by newer ones.
func (t *Tail) Dropped() uint64 { return t.dropped.Load() }
func (t *Tail) Evicted() uint64 { return t.evicted.Load() }
