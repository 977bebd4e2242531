// Package zerologsink forwards hub entries to an rs/zerolog logger.
package zerologsink

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/loghub"
)

// Sink bridges the hub to zerolog.
//
//   - Checks the logger level before forcing the Rendering, so filtered
//     entries are never serialized and no zerolog.Event is allocated.
//   - The hub timestamp is written as an RFC3339Nano string under "ts".
//   - Hub level changes are mirrored into the logger level.
type Sink struct {
	mu sync.RWMutex
	l  zerolog.Logger
}

func New(l zerolog.Logger) *Sink {
	return &Sink{l: l}
}

func (s *Sink) Name() string { return "zerolog" }

func (s *Sink) logger() zerolog.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l
}

func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	l := s.logger()
	zlvl := mapLevel(e.Level())
	if zlvl < l.GetLevel() || zlvl < zerolog.GlobalLevel() {
		return
	}
	ev := l.WithLevel(zlvl)
	if ev == nil {
		return
	}
	ev.Str("ts", e.Time().UTC().Format(time.RFC3339Nano))
	ev.Uint64("seq", e.Seq())
	if id := e.LogID(); id != "" {
		ev.Str("log", id)
	}
	fields := e.AllFields()
	for i := range fields {
		appendEventField(ev, &fields[i])
	}
	msg, err := r.Text()
	if err != nil {
		msg = e.Message()
	}
	ev.Msg(msg)
}

// OnLevelChange implements loghub.LevelObserver.
func (s *Sink) OnLevelChange(c loghub.LevelChange) {
	s.mu.Lock()
	s.l = s.l.Level(mapLevel(c.New))
	s.mu.Unlock()
}

// mapLevel never yields Fatal or Panic: zerolog would exit or panic.
func mapLevel(l loghub.Level) zerolog.Level {
	switch {
	case l <= loghub.LevelTrace:
		return zerolog.TraceLevel
	case l < loghub.LevelInfo:
		return zerolog.DebugLevel
	case l < loghub.LevelWarn:
		return zerolog.InfoLevel
	case l < loghub.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func appendEventField(e *zerolog.Event, f *loghub.Field) {
	switch f.Kind {
	case loghub.KindString:
		e.Str(f.K, f.Str)
	case loghub.KindInt64:
		e.Int64(f.K, f.Int64)
	case loghub.KindUint64:
		e.Uint64(f.K, f.Uint64)
	case loghub.KindFloat64:
		e.Float64(f.K, f.Float64)
	case loghub.KindBool:
		e.Bool(f.K, f.Bool)
	case loghub.KindDuration:
		e.Dur(f.K, f.Dur)
	case loghub.KindTime:
		e.Time(f.K, f.Time)
	case loghub.KindError:
		if f.Err == nil {
			return
		}
		if f.K == "" || f.K == zerolog.ErrorFieldName {
			e.Err(f.Err)
		} else {
			e.AnErr(f.K, f.Err)
		}
	case loghub.KindBytes:
		e.Bytes(f.K, f.Bytes)
	case loghub.KindAny:
		e.Interface(f.K, f.Any)
	default:
		e.Interface(f.K, nil)
	}
}
