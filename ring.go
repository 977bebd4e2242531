package loghub

// ring keeps the most recent entries, each with its rendering cell so a
// replay reuses text that was already produced. Not safe for concurrent
// use; the hub lock guards it.
type ring struct {
	slots []*Rendering
	head  int // next slot to write
	n     int
}

func newRing(capacity int) *ring {
	return &ring{slots: make([]*Rendering, capacity)}
}

// push stores r, overwriting the oldest slot when full. It reports whether
// an entry was evicted.
func (b *ring) push(r *Rendering) (evicted bool) {
	evicted = b.n == len(b.slots)
	b.slots[b.head] = r
	b.head = (b.head + 1) % len(b.slots)
	if !evicted {
		b.n++
	}
	return evicted
}

// snapshot returns the retained cells, oldest first.
func (b *ring) snapshot() []*Rendering {
	out := make([]*Rendering, 0, b.n)
	start := b.head - b.n
	if start < 0 {
		start += len(b.slots)
	}
	for i := 0; i < b.n; i++ {
		out = append(out, b.slots[(start+i)%len(b.slots)])
	}
	return out
}

func (b *ring) len() int { return b.n }
func (b *ring) cap() int { return len(b.slots) }
