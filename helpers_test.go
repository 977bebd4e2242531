package loghub

import (
	"sync"
	"sync/atomic"
	"testing"
)

// recorder is a Sink that keeps what it receives. When force is set it
// also renders each entry and keeps the text.
type recorder struct {
	mu      sync.Mutex
	force   bool
	entries []*Entry
	texts   []string
	errs    []error
}

func (r *recorder) Handle(e *Entry, cell *Rendering) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if r.force {
		text, err := cell.Text()
		r.texts = append(r.texts, text)
		r.errs = append(r.errs, err)
	}
}

func (r *recorder) seqs() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Seq()
	}
	return out
}

// countingSerializer counts how often it runs.
type countingSerializer struct {
	calls atomic.Int64
}

func (c *countingSerializer) Serialize(e *Entry) (string, error) {
	c.calls.Add(1)
	return e.Message(), nil
}

// countingMetrics records the hub events the tests look at.
type countingMetrics struct {
	NoopMetricsCollector
	written, evicted, rendered, decoratorFaults, sinkFaults, replayed atomic.Int64
}

func (m *countingMetrics) EntryWritten(Level)         { m.written.Add(1) }
func (m *countingMetrics) EntryEvicted()              { m.evicted.Add(1) }
func (m *countingMetrics) EntryRendered(error)        { m.rendered.Add(1) }
func (m *countingMetrics) DecoratorFailed(error)      { m.decoratorFaults.Add(1) }
func (m *countingMetrics) SinkFailed(Sink, any)       { m.sinkFaults.Add(1) }
func (m *countingMetrics) SinkReplayed(_ Sink, n int) { m.replayed.Add(int64(n)) }

func newTestHub(t *testing.T, capacity int) *Hub {
	t.Helper()
	h, err := NewBuilder().WithCapacity(capacity).Build()
	if err != nil {
		t.Fatalf("build hub: %v", err)
	}
	return h
}

func writeN(h *Hub, n int) {
	for i := 0; i < n; i++ {
		h.Write(LevelInfo, "entry {0}", i)
	}
}

// assertContiguous checks that seqs is exactly first, first+1, ..., first+want-1.
func assertContiguous(t *testing.T, seqs []uint64, first uint64, want int) {
	t.Helper()
	if len(seqs) != want {
		t.Fatalf("expected %d entries, got %d (%v)", want, len(seqs), seqs)
	}
	for i, s := range seqs {
		if s != first+uint64(i) {
			t.Fatalf("seq[%d] = %d, want %d (all: %v)", i, s, first+uint64(i), seqs)
		}
	}
}
