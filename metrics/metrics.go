// Package metrics exports hub and writer-sink activity as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trickstertwo/loghub"
	"github.com/trickstertwo/loghub/sink/writersink"
)

const namespace = "loghub"

// Collector implements loghub.MetricsCollector and
// writersink.MetricsCollector on top of Prometheus vectors.
type Collector struct {
	entriesWritten  *prometheus.CounterVec
	entriesEvicted  prometheus.Counter
	renders         *prometheus.CounterVec
	decoratorFaults prometheus.Counter
	sinkFaults      *prometheus.CounterVec
	sinkReplayed    *prometheus.CounterVec
	linesWritten    *prometheus.CounterVec
	lineBytes       prometheus.Histogram
}

var (
	_ loghub.MetricsCollector     = (*Collector)(nil)
	_ writersink.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector        = (*Collector)(nil)
)

// New creates a Collector and registers it with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := newCollector()
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("failed to register loghub metrics: %w", err)
	}
	return c, nil
}

func newCollector() *Collector {
	return &Collector{
		entriesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_written_total",
			Help:      "Entries accepted by the hub, by level",
		}, []string{"level"}),
		entriesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_evicted_total",
			Help:      "Entries pushed out of the history ring",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendering cells forced, by result",
		}, []string{"result"}),
		decoratorFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decorator_faults_total",
			Help:      "Decorator contributions dropped after an error or panic",
		}),
		sinkFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_faults_total",
			Help:      "Panics recovered from sinks",
		}, []string{"sink"}),
		sinkReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_replayed_entries_total",
			Help:      "History entries replayed to newly attached sinks",
		}, []string{"sink"}),
		linesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writer_lines_total",
			Help:      "Lines handed to writer sinks, by level and result",
		}, []string{"level", "result"}),
		lineBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "writer_line_bytes",
			Help:      "Size of lines written by writer sinks",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.entriesWritten, c.entriesEvicted, c.renders, c.decoratorFaults,
		c.sinkFaults, c.sinkReplayed, c.linesWritten, c.lineBytes,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

func (c *Collector) EntryWritten(level loghub.Level) {
	c.entriesWritten.WithLabelValues(level.String()).Inc()
}

func (c *Collector) EntryEvicted() { c.entriesEvicted.Inc() }

func (c *Collector) EntryRendered(err error) {
	c.renders.WithLabelValues(result(err)).Inc()
}

func (c *Collector) DecoratorFailed(error) { c.decoratorFaults.Inc() }

func (c *Collector) SinkFailed(s loghub.Sink, _ any) {
	c.sinkFaults.WithLabelValues(loghub.SinkName(s)).Inc()
}

func (c *Collector) SinkReplayed(s loghub.Sink, entries int) {
	c.sinkReplayed.WithLabelValues(loghub.SinkName(s)).Add(float64(entries))
}

// LineWritten implements writersink.MetricsCollector.
func (c *Collector) LineWritten(level loghub.Level, size int, err error) {
	c.linesWritten.WithLabelValues(level.String(), result(err)).Inc()
	if err == nil {
		c.lineBytes.Observe(float64(size))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
