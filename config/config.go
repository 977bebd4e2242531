// Package config builds a hub from a YAML file, environment variables, or
// any other source viper can read.
//
// Environment variables use the LOGHUB_ prefix with dots replaced by
// underscores, e.g. LOGHUB_LEVEL or LOGHUB_WRITER_FORMAT.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/decorate"
	"github.com/trickstertwo/loghub/render"
	"github.com/trickstertwo/loghub/sink/writersink"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LOGHUB"

var ErrInvalidConfig = errors.New("config: invalid")

// Config mirrors loghub.Options in a serializable form.
type Config struct {
	Capacity     int    `mapstructure:"capacity"`
	Level        string `mapstructure:"level"`
	EnforceLevel bool   `mapstructure:"enforce_level"`
	// Format selects the hub serializer: message, text, json or msgpack.
	Format string `mapstructure:"format"`

	Caller    bool              `mapstructure:"caller"`
	Instance  bool              `mapstructure:"instance"`
	ErrorInfo bool              `mapstructure:"error_info"`
	Tags      map[string]string `mapstructure:"tags"`

	Writer WriterConfig `mapstructure:"writer"`
}

// WriterConfig describes an optional writer sink.
type WriterConfig struct {
	// Output is stdout, stderr, or empty for no writer sink.
	Output string `mapstructure:"output"`
	// Format is raw (the hub rendering as is), text or json.
	Format    string `mapstructure:"format"`
	MinLevel  string `mapstructure:"min_level"`
	Async     bool   `mapstructure:"async"`
	QueueSize int    `mapstructure:"queue_size"`
	Compress  bool   `mapstructure:"compress"`
}

// SetDefaults registers every key with its default on v. Keys unknown to v
// are not picked up from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("capacity", loghub.DefaultCapacity)
	v.SetDefault("level", "trace")
	v.SetDefault("enforce_level", false)
	v.SetDefault("format", "message")
	v.SetDefault("caller", false)
	v.SetDefault("instance", false)
	v.SetDefault("error_info", true)
	v.SetDefault("tags", map[string]string{})
	v.SetDefault("writer.output", "")
	v.SetDefault("writer.format", "raw")
	v.SetDefault("writer.min_level", "trace")
	v.SetDefault("writer.async", false)
	v.SetDefault("writer.queue_size", 1024)
	v.SetDefault("writer.compress", false)
}

// Load reads the configuration held by v, overlaid with LOGHUB_ variables.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads path (any format viper recognizes by extension) and the
// environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return Load(v)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if _, err := loghub.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: level: %w", ErrInvalidConfig, err)
	}
	if _, err := serializerFor(c.Format); err != nil {
		return err
	}
	if c.Writer.Output == "" {
		return nil
	}
	if _, err := outputFor(c.Writer.Output); err != nil {
		return err
	}
	enc, err := encoderFor(c.Writer.Format)
	if err != nil {
		return err
	}
	if enc != nil && isBinary(c.Format) {
		return fmt.Errorf("%w: writer.format %q cannot wrap binary format %q", ErrInvalidConfig, c.Writer.Format, c.Format)
	}
	if _, err := loghub.ParseLevel(c.Writer.MinLevel); err != nil {
		return fmt.Errorf("%w: writer.min_level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Builder returns a loghub.Builder carrying the configured capacity, level,
// policy, serializer and decorators.
func (c *Config) Builder() (*loghub.Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := loghub.ParseLevel(c.Level)
	ser, _ := serializerFor(c.Format)

	b := loghub.NewBuilder().
		WithCapacity(c.Capacity).
		WithLevel(level).
		WithSerializer(ser)
	if c.EnforceLevel {
		b.WithPolicy(loghub.PolicyEnforce)
	}
	if c.Caller {
		b.AddDecorator(decorate.Caller())
	}
	if c.Instance {
		b.AddDecorator(decorate.Instance(decorate.NewInstanceInfo()))
	}
	if c.ErrorInfo {
		b.AddDecorator(decorate.ErrorInfo())
	}
	if len(c.Tags) > 0 {
		keys := make([]string, 0, len(c.Tags))
		for k := range c.Tags {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fields := make([]loghub.Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, loghub.Str(k, c.Tags[k]))
		}
		b.AddDecorator(decorate.Static(fields...))
	}
	return b, nil
}

// Build constructs the hub and attaches the writer sink when one is
// configured. The returned sink is nil without a writer.
func (c *Config) Build() (*loghub.Hub, *writersink.Sink, error) {
	b, err := c.Builder()
	if err != nil {
		return nil, nil, err
	}
	h, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	if c.Writer.Output == "" {
		return h, nil, nil
	}
	w, _ := outputFor(c.Writer.Output)
	enc, _ := encoderFor(c.Writer.Format)
	minLevel, _ := loghub.ParseLevel(c.Writer.MinLevel)
	s, err := writersink.Use(h, writersink.Config{
		Writer:         w,
		Encoder:        enc,
		MinLevel:       minLevel,
		Async:          c.Writer.Async,
		AsyncQueueSize: c.Writer.QueueSize,
		Compress:       c.Writer.Compress,
		NoNewline:      isBinary(c.Format),
	})
	if err != nil {
		return nil, nil, err
	}
	return h, s, nil
}

func serializerFor(format string) (loghub.Serializer, error) {
	switch strings.ToLower(format) {
	case "", "message":
		return loghub.MessageSerializer, nil
	case "text":
		return render.Text, nil
	case "json":
		return render.JSON, nil
	case "msgpack":
		return render.MsgPack, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, format)
	}
}

// isBinary reports formats whose records delimit themselves and must not be
// followed by a newline.
func isBinary(format string) bool { return strings.EqualFold(format, "msgpack") }

func encoderFor(format string) (*render.Encoder, error) {
	switch strings.ToLower(format) {
	case "", "raw":
		return nil, nil
	case "text":
		return render.Text, nil
	case "json":
		return render.JSON, nil
	default:
		return nil, fmt.Errorf("%w: unknown writer format %q", ErrInvalidConfig, format)
	}
}

func outputFor(name string) (*os.File, error) {
	switch strings.ToLower(name) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: writer.output must be stdout or stderr, got %q", ErrInvalidConfig, name)
	}
}
