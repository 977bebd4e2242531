package zerologsink

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/loghub"
)

// Config is an explicit, code-first configuration for a zerolog-backed sink.
type Config struct {
	Writer  io.Writer // default: os.Stdout
	Level   loghub.Level
	Console bool // zerolog.ConsoleWriter instead of JSON; ts stays a plain field
}

// NewFromConfig builds a zerolog logger from cfg and wraps it.
func NewFromConfig(cfg Config) *Sink {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return New(zerolog.New(w).Level(mapLevel(cfg.Level)))
}

// Use builds a sink from cfg and attaches it to h, replaying h's history.
func Use(h *loghub.Hub, cfg Config) *Sink {
	s := NewFromConfig(cfg)
	h.AddSink(s)
	return s
}
