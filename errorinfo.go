package loghub

import "strings"

// ErrorInfo is the portable form of an error attached to an entry: plain
// strings only, so it can outlive the error value and cross any encoder.
type ErrorInfo struct {
	Type    string
	Message string
	// Chain holds the messages of the wrapped errors, outermost first,
	// excluding the error itself.
	Chain   []string
	Handled bool
}

// LogFields implements FieldSource. The message itself is carried by the
// raw "error" field.
func (i *ErrorInfo) LogFields() []Field {
	fs := []Field{
		Str("error_type", i.Type),
		Bool("error_handled", i.Handled),
	}
	if len(i.Chain) > 0 {
		fs = append(fs, Str("error_chain", strings.Join(i.Chain, " <- ")))
	}
	return fs
}
