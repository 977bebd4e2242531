package loghub

import "github.com/trickstertwo/xclock"

// DefaultCapacity is the history size used by DefaultOptions.
const DefaultCapacity = 50

// Options for constructing a Hub (Factory data structure).
type Options struct {
	// Capacity is the number of entries kept for replay; must be positive.
	Capacity int
	// Level is the initial level; DefaultOptions uses LevelTrace.
	Level  Level
	Policy LevelPolicy
	// Clock is optional; nil reads xclock.Now on every write so that
	// xclock.SetDefault is honoured.
	Clock      xclock.Clock
	Serializer Serializer // nil: MessageSerializer
	Metrics    MetricsCollector

	// Decorators run in order; wrap error-aware ones with ErrorAware.
	Decorators []Decorator
	// Sinks are attached in order once the hub exists.
	Sinks []Sink
}

// DefaultOptions returns the options a bare NewBuilder starts from.
func DefaultOptions() Options {
	return Options{
		Capacity: DefaultCapacity,
		Level:    LevelTrace,
		Policy:   PolicyAdvisory,
	}
}

// New constructs a Hub. Invalid configuration fails here, never later.
func New(opts Options) (*Hub, error) {
	if opts.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return newHub(opts), nil
}

// Builder separates construction from representation (Builder pattern).
type Builder struct {
	opts Options
}

func NewBuilder() *Builder {
	return &Builder{opts: DefaultOptions()}
}

func (b *Builder) WithCapacity(n int) *Builder {
	b.opts.Capacity = n
	return b
}

func (b *Builder) WithLevel(l Level) *Builder {
	b.opts.Level = l
	return b
}

func (b *Builder) WithPolicy(p LevelPolicy) *Builder {
	b.opts.Policy = p
	return b
}

func (b *Builder) WithClock(c xclock.Clock) *Builder {
	b.opts.Clock = c
	return b
}

func (b *Builder) WithSerializer(s Serializer) *Builder {
	b.opts.Serializer = s
	return b
}

func (b *Builder) WithMetrics(m MetricsCollector) *Builder {
	b.opts.Metrics = m
	return b
}

func (b *Builder) AddDecorator(d Decorator) *Builder {
	b.opts.Decorators = append(b.opts.Decorators, d)
	return b
}

func (b *Builder) AddErrorDecorator(d ErrorDecorator) *Builder {
	b.opts.Decorators = append(b.opts.Decorators, ErrorAware(d))
	return b
}

func (b *Builder) AddSink(s Sink) *Builder {
	b.opts.Sinks = append(b.opts.Sinks, s)
	return b
}

// Options returns a copy of the accumulated options.
func (b *Builder) Options() Options { return b.opts }

// Build constructs the Hub (Factory + Builder).
func (b *Builder) Build() (*Hub, error) {
	return New(b.opts)
}
