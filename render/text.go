package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/trickstertwo/loghub"
)

// appendText writes logfmt-style key=value pairs:
//
//	ts=2025-01-01T00:00:00Z level=info seq=3 log=net msg="dial failed" peer=10.0.0.1
func (enc *Encoder) appendText(dst []byte, e *loghub.Entry, msg string) []byte {
	dst = append(dst, "ts="...)
	if enc.opts.TimeFormat != "" {
		dst = e.Time().AppendFormat(dst, enc.opts.TimeFormat)
	} else {
		dst = appendRFC3339Nano(dst, e.Time())
	}
	dst = append(dst, " level="...)
	dst = append(dst, e.Level().String()...)
	if !enc.opts.OmitSeq {
		dst = append(dst, " seq="...)
		dst = strconv.AppendUint(dst, e.Seq(), 10)
	}
	if id := e.LogID(); id != "" {
		dst = append(dst, " log="...)
		dst = appendTextString(dst, id)
	}
	dst = append(dst, " msg="...)
	dst = appendTextString(dst, msg)
	for _, f := range e.AllFields() {
		dst = append(dst, ' ')
		dst = append(dst, f.K...)
		dst = append(dst, '=')
		dst = appendTextField(dst, &f)
	}
	return dst
}

func appendTextField(dst []byte, f *loghub.Field) []byte {
	switch f.Kind {
	case loghub.KindString:
		return appendTextString(dst, f.Str)
	case loghub.KindInt64:
		return strconv.AppendInt(dst, f.Int64, 10)
	case loghub.KindUint64:
		return strconv.AppendUint(dst, f.Uint64, 10)
	case loghub.KindFloat64:
		return appendFloat(dst, f.Float64, 64)
	case loghub.KindBool:
		return strconv.AppendBool(dst, f.Bool)
	case loghub.KindDuration:
		return append(dst, f.Dur.String()...)
	case loghub.KindTime:
		return appendRFC3339Nano(dst, f.Time)
	case loghub.KindError:
		if f.Err == nil {
			return append(dst, "null"...)
		}
		return appendQuoted(dst, f.Err.Error())
	case loghub.KindBytes:
		dst = append(dst, "len:"...)
		return strconv.AppendInt(dst, int64(len(f.Bytes)), 10)
	case loghub.KindAny:
		return appendTextAny(dst, f.Any)
	default:
		return append(dst, "null"...)
	}
}

func appendTextAny(dst []byte, v any) []byte {
	switch v := v.(type) {
	case nil:
		return append(dst, "null"...)
	case string:
		return appendTextString(dst, v)
	case []byte:
		dst = append(dst, "len:"...)
		return strconv.AppendInt(dst, int64(len(v)), 10)
	case RawJSON:
		dst = append(dst, "len:"...)
		return strconv.AppendInt(dst, int64(len(v)), 10)
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case uint64:
		return strconv.AppendUint(dst, v, 10)
	case float64:
		return appendFloat(dst, v, 64)
	case time.Time:
		return appendRFC3339Nano(dst, v)
	case time.Duration:
		return append(dst, v.String()...)
	case error:
		return appendQuoted(dst, v.Error())
	case fmt.Stringer:
		return appendTextString(dst, v.String())
	default:
		return appendTextString(dst, fmt.Sprint(v))
	}
}
