package slogsink

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/loghub"
)

// Format selects the slog handler format.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is an explicit, code-first configuration for a slog-backed sink.
type Config struct {
	Writer         io.Writer            // default: os.Stdout
	Level          loghub.Level         // initial handler level
	Format         Format               // JSON (default) or Text
	HandlerOptions *slog.HandlerOptions // optional; Level is managed through a LevelVar
}

// NewFromConfig builds a JSON or text handler from cfg and wraps it.
func NewFromConfig(cfg Config) *Sink {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	var opts slog.HandlerOptions
	if cfg.HandlerOptions != nil {
		opts = *cfg.HandlerOptions
	}
	lv := new(slog.LevelVar)
	lv.Set(slog.Level(cfg.Level))
	opts.Level = lv

	var h slog.Handler
	if cfg.Format == FormatText {
		h = slog.NewTextHandler(w, &opts)
	} else {
		h = slog.NewJSONHandler(w, &opts)
	}
	return NewWithLevelVar(h, lv)
}

// Use builds a sink from cfg and attaches it to hub, replaying its history.
func Use(hub *loghub.Hub, cfg Config) *Sink {
	s := NewFromConfig(cfg)
	hub.AddSink(s)
	return s
}
