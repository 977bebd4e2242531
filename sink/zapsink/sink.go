// Package zapsink forwards hub entries to a go.uber.org/zap logger.
package zapsink

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/loghub"
)

// Sink bridges the hub to zap with low overhead.
//
//   - Uses Logger.Check before forcing the entry's Rendering, so entries zap
//     filters out are never serialized.
//   - The message is the shared Rendering text; keep the hub serializer
//     message-only (the default) when zap does the encoding.
//   - Writes the hub timestamp as an RFC3339Nano string under tsKey.
//
// When built with an AtomicLevel, the zap filter follows the hub level.
type Sink struct {
	l     *zap.Logger
	al    *zap.AtomicLevel // optional, enables OnLevelChange
	tsKey string
}

// New creates a sink for the provided zap logger.
func New(l *zap.Logger) *Sink {
	return NewWithAtomicLevel(l, nil)
}

// NewWithAtomicLevel wires al so hub level changes adjust zap's filter.
func NewWithAtomicLevel(l *zap.Logger, al *zap.AtomicLevel) *Sink {
	if l == nil {
		l = zap.NewNop()
	}
	return &Sink{l: l, al: al, tsKey: "ts"}
}

func (s *Sink) Name() string { return "zap" }

func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	ce := s.l.Check(toZapLevel(e.Level()), "")
	if ce == nil {
		return
	}
	msg, err := r.Text()
	if err != nil {
		msg = e.Message()
	}
	ce.Message = msg

	fields := e.AllFields()
	zfs := make([]zap.Field, 0, 3+len(fields))
	zfs = append(zfs,
		zap.String(s.tsKey, e.Time().UTC().Format(time.RFC3339Nano)),
		zap.Uint64("seq", e.Seq()),
	)
	if id := e.LogID(); id != "" {
		zfs = append(zfs, zap.String("log", id))
	}
	for i := range fields {
		zfs = append(zfs, toZapField(&fields[i]))
	}
	ce.Write(zfs...)
}

// OnLevelChange implements loghub.LevelObserver.
func (s *Sink) OnLevelChange(c loghub.LevelChange) {
	if s.al == nil {
		return
	}
	s.al.SetLevel(toZapLevel(c.New))
}

// Sync flushes zap's buffered output.
func (s *Sink) Sync() error { return s.l.Sync() }

func toZapLevel(l loghub.Level) zapcore.Level {
	switch {
	case l <= loghub.LevelTrace:
		return zapcore.DebugLevel // zap has no trace
	case l < loghub.LevelInfo:
		return zapcore.DebugLevel
	case l < loghub.LevelWarn:
		return zapcore.InfoLevel
	case l < loghub.LevelError:
		return zapcore.WarnLevel
	default:
		// Never DPanic or Fatal from a sink.
		return zapcore.ErrorLevel
	}
}

func toZapField(f *loghub.Field) zap.Field {
	switch f.Kind {
	case loghub.KindString:
		return zap.String(f.K, f.Str)
	case loghub.KindInt64:
		return zap.Int64(f.K, f.Int64)
	case loghub.KindUint64:
		return zap.Uint64(f.K, f.Uint64)
	case loghub.KindFloat64:
		return zap.Float64(f.K, f.Float64)
	case loghub.KindBool:
		return zap.Bool(f.K, f.Bool)
	case loghub.KindDuration:
		return zap.Duration(f.K, f.Dur)
	case loghub.KindTime:
		return zap.Time(f.K, f.Time)
	case loghub.KindError:
		if f.Err == nil {
			return zap.Skip()
		}
		if f.K == "" || f.K == "error" {
			return zap.Error(f.Err)
		}
		return zap.NamedError(f.K, f.Err)
	case loghub.KindBytes:
		return zap.ByteString(f.K, f.Bytes)
	case loghub.KindAny:
		return zap.Any(f.K, f.Any)
	default:
		return zap.Skip()
	}
}
