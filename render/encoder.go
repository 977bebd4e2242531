// Package render turns hub entries into text lines. An Encoder is a
// loghub.Serializer, so installing one on the hub makes every sink that
// forces a Rendering share the same encoded line.
package render

import (
	"sync"

	"github.com/trickstertwo/loghub"
)

// Encoder writes one entry per line in the configured Format. It is safe for
// concurrent use.
type Encoder struct {
	opts Options
	pool sync.Pool
}

// NewEncoder applies defaults to opts and returns an Encoder.
func NewEncoder(opts Options) *Encoder {
	enc := &Encoder{opts: opts.withDefaults()}
	size := enc.opts.BufferSize
	enc.pool.New = func() any {
		b := make([]byte, 0, size)
		return &b
	}
	return enc
}

var (
	// Text is the default logfmt-style serializer.
	Text = NewEncoder(Options{Format: FormatText})
	// JSON is the default one-object-per-line serializer.
	JSON = NewEncoder(Options{Format: FormatJSON})
)

// Options returns the effective options.
func (enc *Encoder) Options() Options { return enc.opts }

// AppendEntry appends the encoded entry to dst without a trailing newline.
// msg is the already expanded message; pass e.Message() when no Rendering
// is at hand.
func (enc *Encoder) AppendEntry(dst []byte, e *loghub.Entry, msg string) []byte {
	if enc.opts.Format == FormatJSON {
		return enc.appendJSON(dst, e, msg)
	}
	return enc.appendText(dst, e, msg)
}

// Serialize implements loghub.Serializer.
func (enc *Encoder) Serialize(e *loghub.Entry) (string, error) {
	bp := enc.pool.Get().(*[]byte)
	b := enc.AppendEntry((*bp)[:0], e, e.Message())
	s := string(b)
	if cap(b) <= 64*1024 {
		*bp = b
		enc.pool.Put(bp)
	}
	return s, nil
}
