package loghub

import "testing"

func cellSeq(seq uint64) *Rendering {
	return newRendering(&Entry{seq: seq}, nil, nil)
}

func TestRingWrapsAndEvictsOldest(t *testing.T) {
	t.Parallel()

	r := newRing(3)
	for i := uint64(0); i < 3; i++ {
		if r.push(cellSeq(i)) {
			t.Fatalf("push %d evicted before the ring was full", i)
		}
	}
	if !r.push(cellSeq(3)) {
		t.Fatalf("push into a full ring did not evict")
	}
	if r.len() != 3 || r.cap() != 3 {
		t.Fatalf("len/cap = %d/%d", r.len(), r.cap())
	}

	snap := r.snapshot()
	seqs := make([]uint64, len(snap))
	for i, c := range snap {
		seqs[i] = c.Entry().Seq()
	}
	assertContiguous(t, seqs, 1, 3)
}

func TestRingSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	r := newRing(2)
	r.push(cellSeq(0))
	snap := r.snapshot()
	r.push(cellSeq(1))
	r.push(cellSeq(2))

	if len(snap) != 1 || snap[0].Entry().Seq() != 0 {
		t.Fatalf("snapshot changed after later pushes")
	}
	if len(newRing(5).snapshot()) != 0 {
		t.Fatalf("empty ring snapshot not empty")
	}
}
