// Package sentrysink reports error-level hub entries to Sentry.
package sentrysink

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/trickstertwo/loghub"
)

// Options configures a Sink.
type Options struct {
	// MinLevel is the lowest level reported.
	MinLevel loghub.Level
	// FlushTimeout bounds Close. Defaults to 2s.
	FlushTimeout time.Duration
	// Replayed controls whether history replayed on attach is reported.
	Replayed bool
}

// DefaultOptions reports errors only and skips replayed history.
func DefaultOptions() Options {
	return Options{MinLevel: loghub.LevelError, FlushTimeout: 2 * time.Second}
}

// Sink turns entries into Sentry events on a dedicated sentry.Hub.
type Sink struct {
	hub  *sentry.Hub
	opts Options

	// entries with seq below cutoff were replayed on attach
	attached atomic.Bool
	cutoff   atomic.Uint64
}

// New creates a sink on hub; nil selects sentry.CurrentHub.
func New(hub *sentry.Hub, opts Options) *Sink {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = 2 * time.Second
	}
	return &Sink{hub: hub, opts: opts}
}

// Use creates a sink and attaches it to lh.
func Use(hub *sentry.Hub, lh *loghub.Hub, opts Options) *Sink {
	s := New(hub, opts)
	lh.AddSink(s)
	return s
}

// OnLevelChange records the replay cutoff from the attach notification,
// which the hub delivers before replaying history.
func (s *Sink) OnLevelChange(c loghub.LevelChange) {
	if s.attached.CompareAndSwap(false, true) {
		s.cutoff.Store(c.NextSeq)
	}
}

func (s *Sink) Name() string { return "sentry" }

func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	if e.Level() < s.opts.MinLevel {
		return
	}
	if !s.opts.Replayed && e.Seq() < s.cutoff.Load() {
		return
	}
	msg, err := r.Text()
	if err != nil {
		msg = e.Message()
	}

	s.hub.WithScope(func(scope *sentry.Scope) {
		if id := e.LogID(); id != "" {
			scope.SetTag("log_id", id)
		}
		scope.SetTag("seq", strconv.FormatUint(e.Seq(), 10))
		scope.SetContext("log", sentry.Context{
			"template": e.Template(),
			"fields":   fieldMap(e),
		})
		scope.SetFingerprint([]string{"{{ default }}", e.Template()})

		event := sentry.NewEvent()
		event.Level = toSentryLevel(e.Level())
		event.Message = msg
		event.Timestamp = e.Time()
		if cause := e.Err(); cause != nil {
			event.Exception = []sentry.Exception{{
				Type:  fmt.Sprintf("%T", cause),
				Value: cause.Error(),
			}}
		}
		s.hub.CaptureEvent(event)
	})
}

// Flush waits up to timeout for buffered events to be sent.
func (s *Sink) Flush(timeout time.Duration) bool { return s.hub.Flush(timeout) }

// Close flushes pending events. It does not close the Sentry client.
func (s *Sink) Close() error {
	if !s.hub.Flush(s.opts.FlushTimeout) {
		return fmt.Errorf("sentrysink: flush timed out after %s", s.opts.FlushTimeout)
	}
	return nil
}

func toSentryLevel(l loghub.Level) sentry.Level {
	switch {
	case l >= loghub.LevelError:
		return sentry.LevelError
	case l >= loghub.LevelWarn:
		return sentry.LevelWarning
	case l >= loghub.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}

func fieldMap(e *loghub.Entry) map[string]any {
	fields := e.AllFields()
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case loghub.KindDuration:
			m[f.K] = f.Dur.String()
		case loghub.KindAny:
			m[f.K] = fmt.Sprint(f.Any)
		default:
			m[f.K] = f.Value()
		}
	}
	return m
}
