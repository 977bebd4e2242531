package writersink

import (
	"io"
	"os"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/render"
)

// Config is an explicit, code-first configuration for a writer sink.
type Config struct {
	// Writer receives every line when WriterFactory is nil. Defaults to
	// os.Stdout.
	Writer io.Writer
	// WriterFactory optionally routes lines by level; it takes precedence
	// over Writer.
	WriterFactory WriterFactory

	Encoder        *render.Encoder
	MinLevel       loghub.Level
	ErrorHandler   ErrorHandler
	Async          bool
	AsyncQueueSize int
	AsyncPolicy    AsyncDropPolicy
	Compress       bool
	BufferSize     int
	NoNewline      bool

	Metrics MetricsCollector // optional
}

// Use builds a sink from cfg and attaches it to h, replaying h's history.
func Use(h *loghub.Hub, cfg Config) (*Sink, error) {
	opts := Options{
		Encoder:        cfg.Encoder,
		MinLevel:       cfg.MinLevel,
		ErrorHandler:   cfg.ErrorHandler,
		Async:          cfg.Async,
		AsyncQueueSize: cfg.AsyncQueueSize,
		AsyncPolicy:    cfg.AsyncPolicy,
		Compress:       cfg.Compress,
		BufferSize:     cfg.BufferSize,
		NoNewline:      cfg.NoNewline,
	}
	var s *Sink
	if cfg.WriterFactory != nil {
		s = NewWithWriterFactory(cfg.WriterFactory, opts)
	} else {
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		var err error
		if s, err = New(w, opts); err != nil {
			return nil, err
		}
	}
	if cfg.Metrics != nil {
		s.SetMetricsCollector(cfg.Metrics)
	}
	h.AddSink(s)
	return s, nil
}
