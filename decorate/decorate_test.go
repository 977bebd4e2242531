package decorate_test

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/decorate"
)

func newHub(t *testing.T, ds ...loghub.Decorator) (*loghub.Hub, *[]*loghub.Entry) {
	t.Helper()
	b := loghub.NewBuilder().WithCapacity(8)
	for _, d := range ds {
		b.AddDecorator(d)
	}
	h, err := b.Build()
	require.NoError(t, err)
	var got []*loghub.Entry
	h.AddSink(loghub.SinkFunc(func(e *loghub.Entry, _ *loghub.Rendering) { got = append(got, e) }))
	return h, &got
}

func TestCallerReportsCallSite(t *testing.T) {
	t.Parallel()

	h, got := newHub(t, decorate.Caller())
	_, file, line, _ := runtime.Caller(0)
	h.Logger("x").Info().Msg("here")
	h.Write(loghub.LevelInfo, "direct")

	require.Len(t, *got, 2)
	for i, e := range *got {
		c, ok := loghub.Attached[decorate.CallerInfo](e)
		require.True(t, ok)
		assert.Equal(t, file, c.File)
		assert.Equal(t, line+1+i, c.Line)
		assert.True(t, strings.HasSuffix(c.Function, "TestCallerReportsCallSite"), c.Function)
	}

	fields := (*got)[0].AllFields()
	require.Len(t, fields, 2)
	assert.Equal(t, "caller", fields[0].K)
	assert.Equal(t, fmt.Sprintf("decorate/decorate_test.go:%d", line+1), fields[0].Str)
}

func logVia(h *loghub.Hub) { h.Write(loghub.LevelInfo, "helper") }

func TestCallerSkipsListedPackages(t *testing.T) {
	t.Parallel()

	self := "github.com/trickstertwo/loghub/decorate_test"
	h, got := newHub(t, decorate.Caller(self))
	logVia(h)

	c, ok := loghub.Attached[decorate.CallerInfo]((*got)[0])
	require.True(t, ok)
	assert.Equal(t, "testing.tRunner", c.Function)
}

type codeErr struct{ code int }

func (e *codeErr) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestErrorInfo(t *testing.T) {
	t.Parallel()

	h, got := newHub(t, decorate.ErrorInfo())
	root := &codeErr{code: 7}
	wrapped := fmt.Errorf("save: %w", root)
	joined := errors.Join(wrapped, errors.New("second"))

	h.WriteError(loghub.LevelError, wrapped, false, "failed")
	h.WriteError(loghub.LevelWarn, joined, true, "partial")
	h.Write(loghub.LevelInfo, "fine")

	info := (*got)[0].ErrorInfo()
	require.NotNil(t, info)
	assert.Equal(t, "*fmt.wrapError", info.Type)
	assert.Equal(t, "save: code 7", info.Message)
	assert.Equal(t, []string{"code 7"}, info.Chain)
	assert.False(t, info.Handled)

	info = (*got)[1].ErrorInfo()
	require.NotNil(t, info)
	assert.True(t, info.Handled)
	assert.Equal(t, []string{"save: code 7", "code 7", "second"}, info.Chain)

	assert.Nil(t, (*got)[2].ErrorInfo())
}

func TestInstance(t *testing.T) {
	t.Parallel()

	info := decorate.NewInstanceInfo()
	_, err := uuid.Parse(info.ID)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.NotEqual(t, info.ID, decorate.NewInstanceInfo().ID)

	h, got := newHub(t, decorate.Instance(info))
	h.Write(loghub.LevelInfo, "a")
	h.Write(loghub.LevelInfo, "b")
	for _, e := range *got {
		v, ok := loghub.Attached[decorate.InstanceInfo](e)
		require.True(t, ok)
		assert.Equal(t, info, v)
	}
}

func TestStaticTagsDoNotReplaceBoundFields(t *testing.T) {
	t.Parallel()

	h, got := newHub(t, decorate.Static(loghub.Str("env", "prod")), decorate.Static())
	h.Logger("x").With(loghub.Str("req", "r1")).Info().Msg("m")

	e := (*got)[0]
	require.Len(t, e.Fields(), 1)
	tags, ok := loghub.Attached[decorate.Tags](e)
	require.True(t, ok)
	assert.Equal(t, "prod", tags[0].Str)

	var keys []string
	for _, f := range e.AllFields() {
		keys = append(keys, f.K)
	}
	assert.Equal(t, []string{"req", "env"}, keys)
}
