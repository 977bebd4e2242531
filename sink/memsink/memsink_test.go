package memsink_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/sink/memsink"
)

func newHub(t *testing.T, capacity int) *loghub.Hub {
	t.Helper()
	h, err := loghub.NewBuilder().WithCapacity(capacity).Build()
	require.NoError(t, err)
	return h
}

func TestRecorderReplayAndLive(t *testing.T) {
	t.Parallel()

	h := newHub(t, 3)
	for i := 0; i < 5; i++ {
		h.Write(loghub.LevelInfo, "old {0}", i)
	}
	rec := &memsink.Recorder{Render: true}
	h.AddSink(rec)
	h.Write(loghub.LevelWarn, "new")

	assert.Equal(t, []uint64{2, 3, 4, 5}, rec.Seqs())
	assert.Equal(t, []string{"old 2", "old 3", "old 4", "new"}, rec.Texts())
	for _, err := range rec.Errs() {
		assert.NoError(t, err)
	}
	assert.Equal(t, loghub.LevelWarn, rec.Entries()[3].Level())

	rec.Reset()
	assert.Zero(t, rec.Len())
	assert.Empty(t, rec.Texts())
}

func TestRecorderWithoutRenderLeavesCellsUnforced(t *testing.T) {
	t.Parallel()

	calls := 0
	h, err := loghub.NewBuilder().
		WithSerializer(loghub.SerializerFunc(func(e *loghub.Entry) (string, error) {
			calls++
			return e.Message(), nil
		})).
		Build()
	require.NoError(t, err)

	rec := &memsink.Recorder{}
	h.AddSink(rec)
	h.Write(loghub.LevelInfo, "a")

	assert.Equal(t, 1, rec.Len())
	assert.Zero(t, calls)
}

func TestTailKeepsNewestLines(t *testing.T) {
	t.Parallel()

	h := newHub(t, 8)
	// "line N\n" is 7 bytes; 20 bytes hold two lines.
	tail := memsink.NewTail(20)
	h.AddSink(tail)
	for i := 0; i < 5; i++ {
		h.Write(loghub.LevelInfo, "line {0}", i)
	}

	assert.Equal(t, 2, tail.Lines())
	assert.Equal(t, 14, tail.Used())
	assert.Equal(t, uint64(3), tail.Evicted())
	assert.Equal(t, []string{"line 3", "line 4"}, tail.Drain())
	assert.Zero(t, tail.Lines())
	assert.Empty(t, tail.Drain())

	h.Write(loghub.LevelInfo, "line 5")
	assert.Equal(t, []string{"line 5"}, tail.Drain())
}

func TestTailDropsOversizedLine(t *testing.T) {
	t.Parallel()

	h := newHub(t, 8)
	tail := memsink.NewTail(16)
	h.AddSink(tail)

	h.Write(loghub.LevelInfo, "short")
	h.Write(loghub.LevelInfo, strings.Repeat("x", 32))

	assert.Equal(t, uint64(1), tail.Dropped())
	assert.Equal(t, []string{"short"}, tail.Drain())
}

func TestTailFallsBackToMessageOnRenderError(t *testing.T) {
	t.Parallel()

	h, err := loghub.NewBuilder().
		WithSerializer(loghub.SerializerFunc(func(*loghub.Entry) (string, error) {
			return "", errors.New("no")
		})).
		Build()
	require.NoError(t, err)
	tail := memsink.NewTail(64)
	h.AddSink(tail)

	h.Write(loghub.LevelInfo, "raw {0}", 1)
	assert.Equal(t, []string{"raw 1"}, tail.Drain())
}

func TestTailReplay(t *testing.T) {
	t.Parallel()

	h := newHub(t, 50)
	for i := 0; i < 10; i++ {
		h.Write(loghub.LevelInfo, "r{0}", i)
	}
	tail := memsink.NewTail(1024)
	h.AddSink(tail)

	got := tail.Drain()
	require.Len(t, got, 10)
	for i, line := range got {
		assert.Equal(t, fmt.Sprintf("r%d", i), line)
	}
}
