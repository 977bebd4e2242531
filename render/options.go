package render

// Format selects the line layout produced by an Encoder.
type Format uint8

const (
	FormatText Format = iota + 1
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// RawJSON is spliced into JSON output as is (no quoting, no escaping). The
// content MUST be valid JSON. Text output prints its length only.
type RawJSON []byte

// JSONTimeEncoding controls how timestamps are encoded in JSON.
type JSONTimeEncoding uint8

const (
	JSONTimeRFC3339Nano JSONTimeEncoding = iota + 1 // default
	JSONTimeUnixMillis                              // numeric, t.UnixMilli()
	JSONTimeUnixNanos                               // numeric, t.UnixNano()
)

// JSONDurationEncoding controls how time.Duration values are encoded in JSON.
type JSONDurationEncoding uint8

const (
	JSONDurationString JSONDurationEncoding = iota + 1 // default (e.g., "1ms")
	JSONDurationMillis                                 // numeric milliseconds
	JSONDurationNanos                                  // numeric nanoseconds
)

// Options configures an Encoder. The zero value is a text encoder.
type Options struct {
	Format Format

	// TimeFormat overrides RFC3339Nano in text output.
	TimeFormat string

	JSONTime     JSONTimeEncoding
	JSONDuration JSONDurationEncoding

	// OmitSeq leaves the sequence number out of the line.
	OmitSeq bool

	// BufferSize is the initial capacity of pooled buffers; 2048 when <= 0.
	BufferSize int
}

func (o Options) withDefaults() Options {
	if o.Format == 0 {
		o.Format = FormatText
	}
	if o.JSONTime == 0 {
		o.JSONTime = JSONTimeRFC3339Nano
	}
	if o.JSONDuration == 0 {
		o.JSONDuration = JSONDurationString
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 2048
	}
	return o
}
