package loghub

import (
	"errors"
	"testing"
	"time"
)

func TestLoggerTagsEntries(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, 8)
	rec := &recorder{force: true}
	h.AddSink(rec)

	net := h.Logger("net")
	net.Info().Msg("dial {0}", "10.0.0.1:53")
	net.Named("dns").Log(LevelWarn, "slow answer after {0}", 3*time.Second)
	h.Info().Msg("untagged")

	if rec.entries[0].LogID() != "net" || rec.entries[1].LogID() != "dns" || rec.entries[2].LogID() != "" {
		t.Fatalf("log ids: %q %q %q", rec.entries[0].LogID(), rec.entries[1].LogID(), rec.entries[2].LogID())
	}
	if rec.texts[0] != "dial 10.0.0.1:53" || rec.texts[1] != "slow answer after 3s" {
		t.Fatalf("texts = %q", rec.texts)
	}
	if rec.entries[1].Level() != LevelWarn {
		t.Fatalf("level = %v", rec.entries[1].Level())
	}
}

func TestLoggerWithFieldsAndEventFields(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, 8)
	rec := &recorder{}
	h.AddSink(rec)

	base := h.Logger("api").With(Str("service", "billing"))
	child := base.With(Int64("shard", 3))
	child.Info().Str("user", "u1").Bool("retry", true).Msg("charged")
	base.Info().Msg("base only")

	got := rec.entries[0].Fields()
	if len(got) != 4 {
		t.Fatalf("fields = %+v", got)
	}
	if got[0].K != "service" || got[1].K != "shard" || got[2].K != "user" || got[3].K != "retry" {
		t.Fatalf("field order = %+v", got)
	}
	if got[1].Value() != int64(3) {
		t.Fatalf("shard = %v", got[1].Value())
	}
	if fs := rec.entries[1].Fields(); len(fs) != 1 {
		t.Fatalf("child fields leaked into parent: %+v", fs)
	}
}

func TestEventErrAndHandled(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, 8)
	rec := &recorder{}
	h.AddSink(rec)

	cause := errors.New("timeout")
	h.Warn().Err(cause).Handled().Msg("retrying")
	h.Warn().Err(nil).Msg("no error")

	e := rec.entries[0]
	if !errors.Is(e.Err(), cause) || !e.Handled() {
		t.Fatalf("err = %v handled = %v", e.Err(), e.Handled())
	}
	if rec.entries[1].Err() != nil || rec.entries[1].Handled() {
		t.Fatalf("pooled event leaked error state")
	}
}

func TestLoggerEnabledFollowsHub(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, 2)
	l := h.Logger("x")
	if !l.Enabled(LevelTrace) {
		t.Fatalf("trace should be enabled by default")
	}
	h.SetLevel(LevelError)
	if l.Enabled(LevelWarn) {
		t.Fatalf("warn enabled above level error")
	}
	if l.Hub() != h || l.LogID() != "x" {
		t.Fatalf("logger accessors")
	}
}
