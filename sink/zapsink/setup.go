package zapsink

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/loghub"
)

// Config is an explicit, code-first configuration for a zap-backed sink.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	Level              loghub.Level
	Console            bool                  // zapcore.NewConsoleEncoder instead of JSON
	EncoderConfig      zapcore.EncoderConfig // if zero, a sensible default is used
	TimestampFieldName string                // default "ts"
}

// NewFromConfig builds a zap logger from cfg and wraps it. The zap level
// starts at cfg.Level and then follows the hub level once attached.
func NewFromConfig(cfg Config) *Sink {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	encCfg := cfg.EncoderConfig
	if encCfg.LevelKey == "" && encCfg.MessageKey == "" && encCfg.EncodeTime == nil {
		encCfg = zapcore.EncoderConfig{
			LevelKey:       "level",
			MessageKey:     "message",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		}
	}
	// The hub timestamp is written as a field; zap must not add its own.
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	al := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), al)
	zl := zap.New(core, zap.AddStacktrace(zapcore.FatalLevel+1))

	s := NewWithAtomicLevel(zl, &al)
	if cfg.TimestampFieldName != "" {
		s.tsKey = cfg.TimestampFieldName
	}
	return s
}

// Use builds a sink from cfg and attaches it to h, replaying h's history.
func Use(h *loghub.Hub, cfg Config) *Sink {
	s := NewFromConfig(cfg)
	h.AddSink(s)
	return s
}
