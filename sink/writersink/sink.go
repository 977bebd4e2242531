// Package writersink writes hub entries as lines to an io.Writer, either
// inline or from a background goroutine, optionally zstd-compressed.
package writersink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"

	"github.com/trickstertwo/loghub"
)

var (
	errAsyncQueueFull = errors.New("writersink: async queue full, dropping entry")
	errClosed         = errors.New("writersink: closed, dropping entry")
)

func defaultErrorHandler(err error) { fmt.Fprintf(os.Stderr, "writersink error: %v\n", err) }

type queued struct {
	e *loghub.Entry
	r *loghub.Rendering
}

// Sink is a loghub.Sink that writes one line per entry.
type Sink struct {
	factory WriterFactory
	opts    Options
	min     atomic.Int64

	// single-writer fast path
	single bool
	w      io.Writer
	zw     *zstd.Encoder

	wmu     sync.Mutex // serializes writes
	metrics atomic.Value

	// qmu guards closing the queue against concurrent sends.
	qmu    sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}

	bufs sync.Pool
	st   stats
}

// New creates a sink writing to w.
func New(w io.Writer, opts Options) (*Sink, error) {
	if w == nil {
		w = os.Stdout
	}
	var zw *zstd.Encoder
	if opts.Compress {
		var err error
		zw, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("writersink: zstd: %w", err)
		}
		w = zw
	}
	s := NewWithWriterFactory(&DefaultWriterFactory{Writer: w}, opts)
	s.zw = zw
	return s, nil
}

// NewWithWriterFactory creates a sink that picks a writer per entry level.
// Options.Compress is ignored.
func NewWithWriterFactory(factory WriterFactory, opts Options) *Sink {
	if factory == nil {
		factory = &DefaultWriterFactory{Writer: os.Stdout}
	}
	if opts.AsyncPolicy == 0 {
		opts.AsyncPolicy = DropNewest
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = defaultErrorHandler
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 512
	}
	s := &Sink{factory: factory, opts: opts}
	s.min.Store(int64(opts.MinLevel))
	size := opts.BufferSize
	s.bufs.New = func() any {
		b := make([]byte, 0, size)
		return &b
	}
	s.metrics.Store(MetricsCollector(NoopMetricsCollector{}))
	if df, ok := factory.(*DefaultWriterFactory); ok {
		s.single = true
		s.w = df.Writer
	}
	if opts.Async {
		n := opts.AsyncQueueSize
		if n <= 0 {
			n = 1024
		}
		s.queue = make(chan queued, n)
		s.done = make(chan struct{})
		go s.drain()
	}
	return s
}

// SetMetricsCollector installs a collector for per-line results.
func (s *Sink) SetMetricsCollector(m MetricsCollector) {
	if m == nil {
		m = NoopMetricsCollector{}
	}
	s.metrics.Store(m)
}

// Stats returns a snapshot of internal counters.
func (s *Sink) Stats() StatsSnapshot { return s.st.snapshot() }

func (s *Sink) Name() string { return "writer" }

// Handle implements loghub.Sink.
func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	if e.Level() < loghub.Level(s.min.Load()) {
		return
	}
	if s.queue == nil {
		s.qmu.RLock()
		closed := s.closed
		s.qmu.RUnlock()
		if closed {
			s.drop(errClosed)
			return
		}
		s.writeEntry(e, r)
		return
	}
	s.enqueue(queued{e: e, r: r})
}

func (s *Sink) enqueue(q queued) {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	if s.closed {
		s.drop(errClosed)
		return
	}
	select {
	case s.queue <- q:
		return
	default:
	}
	switch s.opts.AsyncPolicy {
	case Block:
		s.queue <- q
	case DropOldest:
		select {
		case <-s.queue:
			s.drop(errAsyncQueueFull)
		default:
		}
		select {
		case s.queue <- q:
		default:
			s.drop(errAsyncQueueFull)
		}
	default:
		s.drop(errAsyncQueueFull)
	}
}

func (s *Sink) drop(err error) {
	s.st.dropped.Add(1)
	s.st.loggedErrors.Add(1)
	s.opts.ErrorHandler(err)
}

func (s *Sink) drain() {
	defer close(s.done)
	for q := range s.queue {
		s.writeEntry(q.e, q.r)
	}
}

func (s *Sink) writeEntry(e *loghub.Entry, r *loghub.Rendering) {
	mc := s.metrics.Load().(MetricsCollector)
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("writersink: panic while writing: %v", rec)
			s.st.loggedErrors.Add(1)
			s.opts.ErrorHandler(err)
			mc.LineWritten(e.Level(), 0, err)
		}
	}()

	msg, rerr := r.Text()
	if rerr != nil {
		s.st.loggedErrors.Add(1)
		s.opts.ErrorHandler(fmt.Errorf("writersink: render seq %d: %w", e.Seq(), rerr))
		msg = e.Message()
	}

	bp := s.bufs.Get().(*[]byte)
	b := (*bp)[:0]
	if s.opts.Encoder != nil {
		b = s.opts.Encoder.AppendEntry(b, e, msg)
	} else {
		b = append(b, msg...)
	}
	if !s.opts.NoNewline {
		b = append(b, '\n')
	}

	w := s.w
	if !s.single {
		w = s.factory.GetWriter(e.Level())
	}
	var (
		n   int
		err error
	)
	if w != nil {
		s.wmu.Lock()
		n, err = w.Write(b)
		s.wmu.Unlock()
	}
	if cap(b) <= 64*1024 {
		*bp = b
		s.bufs.Put(bp)
	}

	if err != nil {
		s.st.loggedErrors.Add(1)
		s.opts.ErrorHandler(err)
	} else {
		s.st.written.Add(1)
	}
	mc.LineWritten(e.Level(), n, err)
}

// Flush ends the current zstd frame so a reader sees every line written so
// far. It waits for nothing queued; it is a no-op without compression.
func (s *Sink) Flush() error {
	if s.zw == nil {
		return nil
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.zw.Flush()
}

// Close drains the async queue, finishes the zstd stream and makes later
// entries count as dropped. The underlying writer is not closed.
func (s *Sink) Close() error {
	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		return nil
	}
	s.closed = true
	if s.queue != nil {
		close(s.queue)
	}
	s.qmu.Unlock()

	if s.done != nil {
		<-s.done
	}
	if s.zw != nil {
		s.wmu.Lock()
		defer s.wmu.Unlock()
		return s.zw.Close()
	}
	return nil
}

// SetMinLevel changes the sink's own filter.
func (s *Sink) SetMinLevel(l loghub.Level) { s.min.Store(int64(l)) }
