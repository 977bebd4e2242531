package zerologsink_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trickstertwo/xclock/adapter/frozen"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/sink/zerologsink"
)

var at = time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)

func newHub(t *testing.T) *loghub.Hub {
	t.Helper()
	h, err := loghub.NewBuilder().WithClock(frozen.New(at)).Build()
	require.NoError(t, err)
	return h
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestSinkEmitsTSAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newHub(t)
	h.AddSink(zerologsink.New(zerolog.New(&buf)))

	h.Logger("state").Warn().
		Str("from", "old").
		Uint64("count", 2).
		Dur("dur", time.Millisecond).
		Err(errors.New("boom")).
		Msg("state {0}", "changed")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	m := lines[0]
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "state changed", m["message"])
	assert.Equal(t, at.Format(time.RFC3339Nano), m["ts"])
	assert.Equal(t, "state", m["log"])
	assert.Equal(t, "old", m["from"])
	assert.Equal(t, float64(2), m["count"])
	assert.Equal(t, float64(1), m["dur"])
	assert.Equal(t, "boom", m["error"])
}

func TestTraceMapsToTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newHub(t)
	h.AddSink(zerologsink.New(zerolog.New(&buf)))
	h.Trace().Msg("fine grained")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "trace", lines[0]["level"])
}

func TestLevelFollowsHubAndSkipsRendering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var cells []*loghub.Rendering
	h := newHub(t)
	zerologsink.Use(h, zerologsink.Config{Writer: &buf})
	h.AddSink(loghub.SinkFunc(func(_ *loghub.Entry, r *loghub.Rendering) { cells = append(cells, r) }))

	h.SetLevel(loghub.LevelError)
	h.Write(loghub.LevelWarn, "filtered")
	h.Write(loghub.LevelError, "kept")

	assert.False(t, cells[0].Forced())
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
}

func TestConsoleConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newHub(t)
	zerologsink.Use(h, zerologsink.Config{Writer: &buf, Console: true})
	h.Info().Str("k", "v").Msg("readable")

	out := buf.String()
	assert.Contains(t, out, "readable")
	assert.Contains(t, out, "k=v")
}
