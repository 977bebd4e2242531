package loghub

// Facade helpers using the process hub.
// Usage: loghub.Info().Str("k", "v").Msg("hello {0}", name)

func Trace() *Event { return L().Trace() }
func Info() *Event  { return L().Info() }
func Warn() *Event  { return L().Warn() }
func Error() *Event { return L().Error() }

// Write is Hub.Write on the process hub.
func Write(level Level, template string, args ...any) {
	L().Write(level, template, args...)
}
