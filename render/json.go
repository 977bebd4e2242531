package render

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/trickstertwo/loghub"
)

func (enc *Encoder) appendJSON(dst []byte, e *loghub.Entry, msg string) []byte {
	dst = append(dst, `{"ts":`...)
	dst = enc.appendJSONTime(dst, e.Time())
	dst = append(dst, `,"level":`...)
	dst = appendQuoted(dst, e.Level().String())
	if !enc.opts.OmitSeq {
		dst = append(dst, `,"seq":`...)
		dst = strconv.AppendUint(dst, e.Seq(), 10)
	}
	if id := e.LogID(); id != "" {
		dst = append(dst, `,"log":`...)
		dst = appendQuoted(dst, id)
	}
	dst = append(dst, `,"msg":`...)
	dst = appendQuoted(dst, msg)
	for _, f := range e.AllFields() {
		dst = append(dst, ',')
		dst = appendQuoted(dst, f.K)
		dst = append(dst, ':')
		dst = enc.appendJSONField(dst, &f)
	}
	return append(dst, '}')
}

func (enc *Encoder) appendJSONTime(dst []byte, t time.Time) []byte {
	switch enc.opts.JSONTime {
	case JSONTimeUnixMillis:
		return strconv.AppendInt(dst, t.UnixMilli(), 10)
	case JSONTimeUnixNanos:
		return strconv.AppendInt(dst, t.UnixNano(), 10)
	default:
		dst = append(dst, '"')
		dst = appendRFC3339Nano(dst, t)
		return append(dst, '"')
	}
}

func (enc *Encoder) appendJSONDuration(dst []byte, d time.Duration) []byte {
	switch enc.opts.JSONDuration {
	case JSONDurationMillis:
		return strconv.AppendInt(dst, int64(d/time.Millisecond), 10)
	case JSONDurationNanos:
		return strconv.AppendInt(dst, d.Nanoseconds(), 10)
	default:
		return appendQuoted(dst, d.String())
	}
}

func (enc *Encoder) appendJSONField(dst []byte, f *loghub.Field) []byte {
	switch f.Kind {
	case loghub.KindString:
		return appendQuoted(dst, f.Str)
	case loghub.KindInt64:
		return strconv.AppendInt(dst, f.Int64, 10)
	case loghub.KindUint64:
		return strconv.AppendUint(dst, f.Uint64, 10)
	case loghub.KindFloat64:
		return appendJSONFloat(dst, f.Float64, 64)
	case loghub.KindBool:
		return strconv.AppendBool(dst, f.Bool)
	case loghub.KindDuration:
		return enc.appendJSONDuration(dst, f.Dur)
	case loghub.KindTime:
		return enc.appendJSONTime(dst, f.Time)
	case loghub.KindError:
		if f.Err == nil {
			return append(dst, "null"...)
		}
		return appendQuoted(dst, f.Err.Error())
	case loghub.KindBytes:
		return appendBase64(dst, f.Bytes)
	case loghub.KindAny:
		return enc.appendJSONAny(dst, f.Any)
	default:
		return append(dst, "null"...)
	}
}

func (enc *Encoder) appendJSONAny(dst []byte, v any) []byte {
	switch v := v.(type) {
	case nil:
		return append(dst, "null"...)
	case RawJSON:
		if len(v) == 0 {
			return append(dst, `""`...)
		}
		return append(dst, v...)
	case json.Marshaler:
		data, err := v.MarshalJSON()
		if err != nil {
			return append(dst, "null"...)
		}
		return append(dst, data...)
	case string:
		return appendQuoted(dst, v)
	case []byte:
		return appendBase64(dst, v)
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int32:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(dst, v, 10)
	case float32:
		return appendJSONFloat(dst, float64(v), 32)
	case float64:
		return appendJSONFloat(dst, v, 64)
	case time.Time:
		return enc.appendJSONTime(dst, v)
	case time.Duration:
		return enc.appendJSONDuration(dst, v)
	case error:
		return appendQuoted(dst, v.Error())
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return append(dst, "null"...)
		}
		return append(dst, data...)
	}
}
