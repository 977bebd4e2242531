// Package slogsink forwards hub entries to a log/slog handler.
package slogsink

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/trickstertwo/loghub"
)

// Sink hands every entry to a slog.Handler as a slog.Record carrying the
// hub timestamp. Hub levels share slog's numeric scale, so no table is
// needed; LevelTrace shows up as "DEBUG-4".
type Sink struct {
	h    slog.Handler
	lv   *slog.LevelVar // optional, follows the hub level
	errh func(error)
}

func defaultErrorHandler(err error) { fmt.Fprintf(os.Stderr, "slogsink error: %v\n", err) }

func New(h slog.Handler) *Sink {
	return NewWithLevelVar(h, nil)
}

// NewWithLevelVar wires lv (the handler's HandlerOptions.Level) so hub level
// changes adjust the handler's filter.
func NewWithLevelVar(h slog.Handler, lv *slog.LevelVar) *Sink {
	if h == nil {
		h = slog.Default().Handler()
	}
	return &Sink{h: h, lv: lv, errh: defaultErrorHandler}
}

// WithErrorHandler replaces the stderr report of handler errors.
func (s *Sink) WithErrorHandler(fn func(error)) *Sink {
	if fn != nil {
		s.errh = fn
	}
	return s
}

func (s *Sink) Name() string { return "slog" }

func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	ctx := context.Background()
	lvl := slog.Level(e.Level())
	if !s.h.Enabled(ctx, lvl) {
		return
	}
	msg, err := r.Text()
	if err != nil {
		msg = e.Message()
	}
	rec := slog.NewRecord(e.Time(), lvl, msg, 0)
	rec.AddAttrs(slog.Uint64("seq", e.Seq()))
	if id := e.LogID(); id != "" {
		rec.AddAttrs(slog.String("log", id))
	}
	for _, f := range e.AllFields() {
		rec.AddAttrs(toAttr(f))
	}
	if err := s.h.Handle(ctx, rec); err != nil {
		s.errh(err)
	}
}

// OnLevelChange implements loghub.LevelObserver.
func (s *Sink) OnLevelChange(c loghub.LevelChange) {
	if s.lv != nil {
		s.lv.Set(slog.Level(c.New))
	}
}

func toAttr(f loghub.Field) slog.Attr {
	switch f.Kind {
	case loghub.KindString:
		return slog.String(f.K, f.Str)
	case loghub.KindInt64:
		return slog.Int64(f.K, f.Int64)
	case loghub.KindUint64:
		return slog.Uint64(f.K, f.Uint64)
	case loghub.KindFloat64:
		return slog.Float64(f.K, f.Float64)
	case loghub.KindBool:
		return slog.Bool(f.K, f.Bool)
	case loghub.KindDuration:
		return slog.Duration(f.K, f.Dur)
	case loghub.KindTime:
		return slog.Time(f.K, f.Time)
	case loghub.KindError:
		return slog.Any(f.K, f.Err)
	case loghub.KindBytes:
		return slog.Any(f.K, f.Bytes)
	case loghub.KindAny:
		return slog.Any(f.K, f.Any)
	default:
		return slog.Any(f.K, nil)
	}
}
