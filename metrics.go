package loghub

// MetricsCollector receives hub events. Implementations must be
// concurrency-safe and cheap: most calls happen under the hub lock, and
// EntryRendered runs on whichever goroutine forces a Rendering.
type MetricsCollector interface {
	EntryWritten(level Level)
	EntryEvicted()
	EntryRendered(err error)
	DecoratorFailed(err error)
	SinkFailed(sink Sink, recovered any)
	SinkReplayed(sink Sink, entries int)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) EntryWritten(Level)     {}
func (NoopMetricsCollector) EntryEvicted()          {}
func (NoopMetricsCollector) EntryRendered(error)    {}
func (NoopMetricsCollector) DecoratorFailed(error)  {}
func (NoopMetricsCollector) SinkFailed(Sink, any)   {}
func (NoopMetricsCollector) SinkReplayed(Sink, int) {}
