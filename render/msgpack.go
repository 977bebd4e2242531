package render

import (
	"bytes"
	"fmt"

	"github.com/trickstertwo/loghub"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack encodes each entry as one MessagePack map with the same keys as
// the JSON format (ts, level, seq, log, msg, then fields). The returned
// string holds binary data.
var MsgPack loghub.Serializer = loghub.SerializerFunc(encodeMsgPack)

func encodeMsgPack(e *loghub.Entry) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(&buf)

	fields := e.AllFields()
	n := 4 + len(fields)
	if e.LogID() != "" {
		n++
	}
	if err := enc.EncodeMapLen(n); err != nil {
		return "", err
	}
	kv := func(k string, v any) error {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		return enc.Encode(v)
	}
	if err := kv("ts", e.Time()); err != nil {
		return "", err
	}
	if err := kv("level", e.Level().String()); err != nil {
		return "", err
	}
	if err := kv("seq", e.Seq()); err != nil {
		return "", err
	}
	if id := e.LogID(); id != "" {
		if err := kv("log", id); err != nil {
			return "", err
		}
	}
	if err := kv("msg", e.Message()); err != nil {
		return "", err
	}
	for _, f := range fields {
		if err := kv(f.K, msgpackValue(f)); err != nil {
			return "", fmt.Errorf("render: field %q: %w", f.K, err)
		}
	}
	return buf.String(), nil
}

func msgpackValue(f loghub.Field) any {
	switch f.Kind {
	case loghub.KindDuration:
		return f.Dur.String()
	case loghub.KindAny:
		if err, ok := f.Any.(error); ok {
			return err.Error()
		}
	}
	return f.Value()
}
