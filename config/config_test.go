package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/config"
	"github.com/trickstertwo/loghub/decorate"
	"github.com/trickstertwo/loghub/sink/memsink"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loghub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	c, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, loghub.DefaultCapacity, c.Capacity)
	assert.Equal(t, "trace", c.Level)
	assert.Equal(t, "message", c.Format)
	assert.True(t, c.ErrorInfo)
	assert.Empty(t, c.Writer.Output)

	h, s, err := c.Build()
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, loghub.DefaultCapacity, h.Capacity())
	assert.Equal(t, loghub.PolicyAdvisory, h.Policy())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
capacity: 10
level: warn
enforce_level: true
format: json
caller: true
tags:
  zone: eu-1
  app: api
`)
	c, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Capacity)
	assert.Equal(t, map[string]string{"zone": "eu-1", "app": "api"}, c.Tags)

	b, err := c.Builder()
	require.NoError(t, err)
	h, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, loghub.LevelWarn, h.Level())
	assert.Equal(t, loghub.PolicyEnforce, h.Policy())

	rec := &memsink.Recorder{Render: true}
	h.AddSink(rec)
	h.Write(loghub.LevelInfo, "dropped")
	h.Write(loghub.LevelError, "kept")

	require.Equal(t, 1, rec.Len())
	e := rec.Entries()[0]
	_, ok := loghub.Attached[decorate.CallerInfo](e)
	assert.True(t, ok)
	tags, ok := loghub.Attached[decorate.Tags](e)
	require.True(t, ok)
	assert.Equal(t, "app", tags[0].K)
	assert.Equal(t, "zone", tags[1].K)
	assert.Contains(t, rec.Texts()[0], `"msg":"kept"`)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LOGHUB_CAPACITY", "7")
	t.Setenv("LOGHUB_LEVEL", "error")
	t.Setenv("LOGHUB_WRITER_OUTPUT", "stderr")
	t.Setenv("LOGHUB_WRITER_FORMAT", "text")

	c, err := config.LoadFile(writeFile(t, "capacity: 3\nlevel: info\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, c.Capacity)
	assert.Equal(t, "error", c.Level)
	assert.Equal(t, "stderr", c.Writer.Output)
	assert.Equal(t, "text", c.Writer.Format)
}

func TestWriterSinkAttached(t *testing.T) {
	v := viper.New()
	v.Set("writer.output", "stdout")
	v.Set("writer.min_level", "error")
	c, err := config.Load(v)
	require.NoError(t, err)

	h, s, err := c.Build()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, h.SinkCount())
	require.NoError(t, s.Close())
}

func TestValidation(t *testing.T) {
	cases := map[string]map[string]any{
		"capacity":       {"capacity": 0},
		"level":          {"level": "loud"},
		"format":         {"format": "yaml"},
		"writer output":  {"writer.output": "/var/log/x"},
		"writer format":  {"writer.output": "stdout", "writer.format": "xml"},
		"writer level":   {"writer.output": "stdout", "writer.min_level": "debugish"},
		"binary in text": {"format": "msgpack", "writer.output": "stdout", "writer.format": "text"},
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range set {
				v.Set(k, val)
			}
			_, err := config.Load(v)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestBinaryFormatWritesWithoutNewline(t *testing.T) {
	v := viper.New()
	v.Set("format", "msgpack")
	v.Set("writer.output", "stdout")
	c, err := config.Load(v)
	require.NoError(t, err)

	h, s, err := c.Build()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, h.SinkCount())
	require.NoError(t, s.Close())
}
