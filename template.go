package loghub

import (
	"fmt"
	"strconv"
	"strings"
)

// Expand fills positional holes in template with args.
//
//	{0}      fmt.Sprint(args[0])
//	{1:%.2f} fmt.Sprintf("%.2f", args[1])
//	{{ }}    literal braces
//
// Holes that are malformed or reference a missing argument are copied
// verbatim so a bad call site still produces a readable line.
func Expand(template string, args []any) string {
	if strings.IndexByte(template, '{') < 0 && strings.IndexByte(template, '}') < 0 {
		return template
	}
	var b strings.Builder
	b.Grow(len(template) + 16*len(args))
	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			hole := template[i+1 : i+end]
			if s, ok := expandHole(hole, args); ok {
				b.WriteString(s)
			} else {
				b.WriteString(template[i : i+end+1])
			}
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func expandHole(hole string, args []any) (string, bool) {
	idx, verb, hasVerb := strings.Cut(hole, ":")
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n >= len(args) {
		return "", false
	}
	if hasVerb {
		if verb == "" || verb == "%" {
			return "", false
		}
		if !strings.HasPrefix(verb, "%") {
			verb = "%" + verb
		}
		return fmt.Sprintf(verb, args[n]), true
	}
	return fmt.Sprint(args[n]), true
}
