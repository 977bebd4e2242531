package writersink

import (
	"io"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/render"
)

// ErrorHandler receives write failures and dropped entries.
type ErrorHandler func(error)

// AsyncDropPolicy controls behavior when the async queue is full.
type AsyncDropPolicy uint8

const (
	DropNewest AsyncDropPolicy = iota + 1 // default: the writer never stalls
	DropOldest                            // discard the oldest queued entry to make room
	Block                                 // the writer waits for room
)

// Options configures the sink.
type Options struct {
	// Encoder lays out each line around the entry's rendered message. When
	// nil the rendered text is the whole line, so the hub serializer (for
	// example render.JSON) decides the format.
	Encoder *render.Encoder

	// MinLevel drops entries below it before anything is rendered.
	MinLevel     loghub.Level
	ErrorHandler ErrorHandler

	// Async moves rendering and I/O to a background goroutine.
	Async          bool
	AsyncQueueSize int // default 1024
	AsyncPolicy    AsyncDropPolicy

	// Compress wraps the writer in a zstd stream. Only honoured by New; use
	// Flush to end a frame and Close to finish the stream.
	Compress bool

	// BufferSize is the initial line buffer capacity; 512 when <= 0.
	BufferSize int

	// NoNewline writes each record without a trailing '\n'. Use it for
	// self-delimiting binary renderings such as render.MsgPack.
	NoNewline bool
}

// WriterFactory routes lines to a writer per level.
type WriterFactory interface {
	GetWriter(level loghub.Level) io.Writer
}

type DefaultWriterFactory struct{ Writer io.Writer }

func (f *DefaultWriterFactory) GetWriter(loghub.Level) io.Writer { return f.Writer }

// LevelWriterFactory sends each level listed in LevelWriter to its own
// writer and everything else to Default.
type LevelWriterFactory struct {
	Default     io.Writer
	LevelWriter map[loghub.Level]io.Writer
}

func (f *LevelWriterFactory) GetWriter(level loghub.Level) io.Writer {
	if w, ok := f.LevelWriter[level]; ok {
		return w
	}
	return f.Default
}

// MetricsCollector receives per-line write results. Implementations must be
// concurrency-safe.
type MetricsCollector interface {
	LineWritten(level loghub.Level, size int, err error)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) LineWritten(loghub.Level, int, error) {}
