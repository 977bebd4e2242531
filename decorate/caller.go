package decorate

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/trickstertwo/loghub"
)

// CallerInfo is the call site that wrote an entry.
type CallerInfo struct {
	File     string
	Line     int
	Function string
}

// LogFields implements loghub.FieldSource. The file is trimmed to its last
// directory, as in "pkg/file.go:42".
func (c CallerInfo) LogFields() []loghub.Field {
	return []loghub.Field{
		loghub.Str("caller", shortFile(c.File)+":"+strconv.Itoa(c.Line)),
		loghub.Str("func", c.Function),
	}
}

func shortFile(path string) string {
	dir, file := filepath.Split(path)
	if dir == "" {
		return file
	}
	return filepath.Join(filepath.Base(dir), file)
}

var (
	hubPkg      = reflect.TypeFor[loghub.Hub]().PkgPath() + "."
	decoratePkg = reflect.TypeFor[CallerInfo]().PkgPath() + "."
)

// Caller attaches the CallerInfo of the first frame outside the hub. Frames
// of packages listed in skip (import paths) are passed over too, which lets
// logging helpers report their own callers. When no frame qualifies it
// contributes nothing.
func Caller(skip ...string) loghub.Decorator {
	prefixes := []string{hubPkg, decoratePkg}
	for _, p := range skip {
		prefixes = append(prefixes, strings.TrimSuffix(p, ".")+".")
	}
	return loghub.DecoratorFunc(func(*loghub.Entry) (any, error) {
		info, ok := callerOutside(prefixes)
		if !ok {
			return nil, nil
		}
		return info, nil
	})
}

func callerOutside(prefixes []string) (CallerInfo, bool) {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	// Retry once with a deeper buffer for long hub paths.
	if n == len(pcs) {
		pcs = make([]uintptr, 64)
		n = runtime.Callers(3, pcs)
	}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !hasAnyPrefix(f.Function, prefixes) && !strings.HasPrefix(f.Function, "runtime.") {
			return CallerInfo{File: f.File, Line: f.Line, Function: f.Function}, true
		}
		if !more {
			return CallerInfo{}, false
		}
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
