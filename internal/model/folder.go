package model

import (
	"bytes"
	"encoding/json"

	"github.com/danmuck/aeprobe/internal/protocol"
)

// Folder keeps a folder record's fields in source order.
type Folder struct {
	Fields []protocol.Field
}

func (f Folder) Get(key string) (any, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field.Value.Any(), true
		}
	}
	return nil, false
}

func (f Folder) Map() map[string]any {
	out := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		out[field.Key] = field.Value.Any()
	}
	return out
}

// MarshalJSON writes an object with keys in source order.
func (f Folder) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(field.Value.Any())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
