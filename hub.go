package loghub

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

// LevelPolicy decides what the hub level means for dispatch.
type LevelPolicy uint8

const (
	// PolicyAdvisory dispatches every entry; the level is information for
	// callers (Enabled) and for sinks that filter themselves.
	PolicyAdvisory LevelPolicy = iota
	// PolicyEnforce drops entries below the level before they get a
	// sequence number, so sinks still observe a gap-free sequence.
	PolicyEnforce
)

func (p LevelPolicy) String() string {
	if p == PolicyEnforce {
		return "enforce"
	}
	return "advisory"
}

// Hub accepts entries from any goroutine, keeps the most recent ones and
// fans them out to the attached sinks.
//
// Every write, sink attachment and level change runs under one mutex. That
// makes the sequence stream seen by each sink strictly increasing and lets
// AddSink replay history and register the sink without a write slipping in
// between.
type Hub struct {
	mu         sync.Mutex
	clock      xclock.Clock // nil: the process default clock
	serializer Serializer
	policy     LevelPolicy
	level      atomic.Int64
	metrics    MetricsCollector

	history    *ring
	sinks      []Sink
	decorators []Decorator
	seq        uint64

	root *Logger
}

// writeRequest carries the caller side of one write.
type writeRequest struct {
	logID    string
	level    Level
	template string
	args     []any
	err      error
	handled  bool
	fields   Fields
}

func newHub(opts Options) *Hub {
	h := &Hub{
		clock:      opts.Clock,
		serializer: opts.Serializer,
		policy:     opts.Policy,
		metrics:    opts.Metrics,
		history:    newRing(opts.Capacity),
	}
	if h.serializer == nil {
		h.serializer = MessageSerializer
	}
	if h.metrics == nil {
		h.metrics = NoopMetricsCollector{}
	}
	h.level.Store(int64(opts.Level))
	for _, d := range opts.Decorators {
		if d != nil {
			h.decorators = append(h.decorators, d)
		}
	}
	h.root = &Logger{hub: h}
	for _, s := range opts.Sinks {
		h.AddSink(s)
	}
	return h
}

// Capacity returns the history size fixed at construction.
func (h *Hub) Capacity() int { return h.history.cap() }

// Policy returns the level policy fixed at construction.
func (h *Hub) Policy() LevelPolicy { return h.policy }

// Level returns the current level.
func (h *Hub) Level() Level { return Level(h.level.Load()) }

// Enabled reports whether level is at or above the hub level. Under
// PolicyAdvisory it is a hint: disabled entries are still dispatched.
func (h *Hub) Enabled(level Level) bool { return level >= h.Level() }

// SetLevel changes the level and tells every attached LevelObserver.
func (h *Hub) SetLevel(level Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := Level(h.level.Swap(int64(level)))
	c := LevelChange{Old: old, New: level, NextSeq: h.seq}
	for _, s := range h.sinks {
		h.notifyLevel(s, c)
	}
}

// AddDecorator appends d to the pipeline; it applies to later writes only.
func (h *Hub) AddDecorator(d Decorator) {
	if d == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.decorators = append(h.decorators, d)
}

// AddErrorDecorator appends an error-aware stage to the pipeline.
func (h *Hub) AddErrorDecorator(d ErrorDecorator) {
	h.AddDecorator(ErrorAware(d))
}

// Write records one entry and dispatches it to every attached sink before
// returning. It never panics because of a decorator, serializer or sink.
func (h *Hub) Write(level Level, template string, args ...any) {
	h.write(writeRequest{level: level, template: template, args: args})
}

// WriteError is Write with an error attached. handled tells error-aware
// decorators whether the caller recovered from err.
func (h *Hub) WriteError(level Level, err error, handled bool, template string, args ...any) {
	h.write(writeRequest{level: level, template: template, args: args, err: err, handled: handled})
}

func (h *Hub) write(req writeRequest) {
	if h.policy == PolicyEnforce && req.level < h.Level() {
		return
	}
	var args []any
	if len(req.args) > 0 {
		args = slices.Clone(req.args)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e := &Entry{
		level:    req.level,
		logID:    req.logID,
		template: req.template,
		args:     args,
		at:       h.now(),
		seq:      h.seq,
		err:      req.err,
		handled:  req.handled,
	}
	h.seq++
	if len(req.fields) > 0 {
		e.attach(req.fields)
	}
	if req.err != nil {
		e.attachAs(errorType, req.err)
	}
	h.decorate(e)

	r := newRendering(e, h.serializer, h.metrics.EntryRendered)
	if h.history.push(r) {
		h.metrics.EntryEvicted()
	}
	h.metrics.EntryWritten(e.level)

	for _, s := range h.sinks {
		h.deliver(s, r)
	}
}

func (h *Hub) now() time.Time {
	if h.clock != nil {
		return h.clock.Now()
	}
	return xclock.Now()
}

func (h *Hub) decorate(e *Entry) {
	for _, d := range h.decorators {
		v, err := decorate(d, e)
		if err != nil {
			h.metrics.DecoratorFailed(err)
			continue
		}
		if v != nil {
			e.attach(v)
		}
	}
}

// deliver isolates one sink from the others and from the writer.
func (h *Hub) deliver(s Sink, r *Rendering) {
	defer func() {
		if rec := recover(); rec != nil {
			h.metrics.SinkFailed(s, rec)
		}
	}()
	s.Handle(r.entry, r)
}

func (h *Hub) notifyLevel(s Sink, c LevelChange) {
	lo, ok := s.(LevelObserver)
	if !ok {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			h.metrics.SinkFailed(s, rec)
		}
	}()
	lo.OnLevelChange(c)
}

// AddSink replays the retained history to s, oldest first, and then
// registers it for live entries. Both steps happen under the hub lock, so s
// sees every entry from the oldest retained one onwards exactly once.
// Adding a sink that is already attached is a no-op.
func (h *Hub) AddSink(s Sink) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cur := range h.sinks {
		if sameSink(cur, s) {
			return
		}
	}
	lvl := h.Level()
	h.notifyLevel(s, LevelChange{Old: lvl, New: lvl, NextSeq: h.seq})

	replay := h.history.snapshot()
	for _, r := range replay {
		h.deliver(s, r)
	}
	h.metrics.SinkReplayed(s, len(replay))
	h.sinks = append(slices.Clip(h.sinks), s)
}

// RemoveSink detaches s. It reports false when s is not attached or is not
// comparable (see SinkFunc). A dispatch already running finishes first.
func (h *Hub) RemoveSink(s Sink) bool {
	if s == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, cur := range h.sinks {
		if sameSink(cur, s) {
			h.sinks = slices.Delete(slices.Clone(h.sinks), i, i+1)
			return true
		}
	}
	return false
}

// DetachAll removes every sink and returns them in attachment order.
func (h *Hub) DetachAll() []Sink {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.sinks
	h.sinks = nil
	return out
}

// SinkCount returns the number of attached sinks.
func (h *Hub) SinkCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

// History returns the retained entries, oldest first.
func (h *Hub) History() []*Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	cells := h.history.snapshot()
	out := make([]*Entry, len(cells))
	for i, r := range cells {
		out[i] = r.entry
	}
	return out
}

// NextSeq returns the sequence number the next entry will get.
func (h *Hub) NextSeq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Logger returns a view of the hub that tags entries with logID.
func (h *Hub) Logger(logID string) *Logger {
	return &Logger{hub: h, logID: logID}
}

// Level entry points on the untagged root logger.

func (h *Hub) Trace() *Event { return h.root.Trace() }
func (h *Hub) Info() *Event  { return h.root.Info() }
func (h *Hub) Warn() *Event  { return h.root.Warn() }
func (h *Hub) Error() *Event { return h.root.Error() }
