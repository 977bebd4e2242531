// Package memsink keeps hub output in memory: Recorder captures entries for
// inspection and Tail spools the most recent rendered lines for a reader.
package memsink

import (
	"sync"

	"github.com/trickstertwo/loghub"
)

// Recorder captures every entry it receives. With Render set it also forces
// each Rendering and keeps the text (or error).
type Recorder struct {
	Render bool

	mu      sync.Mutex
	entries []*loghub.Entry
	texts   []string
	errs    []error
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Handle(e *loghub.Entry, cell *loghub.Rendering) {
	var (
		text string
		err  error
	)
	if r.Render {
		text, err = cell.Text()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if r.Render {
		r.texts = append(r.texts, text)
		r.errs = append(r.errs, err)
	}
}

// Entries returns a copy of the captured entries in delivery order.
func (r *Recorder) Entries() []*loghub.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*loghub.Entry(nil), r.entries...)
}

// Texts returns the rendered texts; empty unless Render is set.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// Errs returns the render errors, aligned with Texts.
func (r *Recorder) Errs() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// Seqs returns the sequence numbers of the captured entries.
func (r *Recorder) Seqs() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Seq()
	}
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries, r.texts, r.errs = nil, nil, nil
}
