package loghub

// Logger is a view of a Hub that tags entries with a log id and carries
// bound fields. Loggers are cheap; create one per component.
type Logger struct {
	hub        *Hub
	logID      string
	baseFields Fields
}

// Hub returns the hub this logger writes to.
func (l *Logger) Hub() *Hub { return l.hub }

// LogID returns the tag applied to entries written through l.
func (l *Logger) LogID() string { return l.logID }

// Enabled reports whether the hub level admits level.
// Use to avoid building arguments in hot paths.
func (l *Logger) Enabled(level Level) bool { return l.hub.Enabled(level) }

// Level entry points returning fluent builders.

func (l *Logger) Trace() *Event { return getEvent(l, LevelTrace) }
func (l *Logger) Info() *Event  { return getEvent(l, LevelInfo) }
func (l *Logger) Warn() *Event  { return getEvent(l, LevelWarn) }
func (l *Logger) Error() *Event { return getEvent(l, LevelError) }

// Log writes an entry without fields beyond the bound ones.
func (l *Logger) Log(level Level, template string, args ...any) {
	l.emit(level, template, args, nil, nil, false)
}

// With returns a child logger with bound fields.
func (l *Logger) With(fs ...Field) *Logger {
	return &Logger{
		hub:        l.hub,
		logID:      l.logID,
		baseFields: append(copyFields(nil, l.baseFields), fs...),
	}
}

// Named returns a child logger with a different log id and the same fields.
func (l *Logger) Named(logID string) *Logger {
	return &Logger{hub: l.hub, logID: logID, baseFields: l.baseFields}
}

func (l *Logger) emit(level Level, template string, args []any, evFields []Field, err error, handled bool) {
	var merged Fields
	if n := len(l.baseFields) + len(evFields); n > 0 {
		merged = make(Fields, 0, n)
		merged = append(merged, l.baseFields...)
		merged = append(merged, evFields...)
	}
	l.hub.write(writeRequest{
		logID:    l.logID,
		level:    level,
		template: template,
		args:     args,
		err:      err,
		handled:  handled,
		fields:   merged,
	})
}

func copyFields(dst, src []Field) Fields {
	if len(src) == 0 {
		return dst
	}
	return append(dst, src...)
}
