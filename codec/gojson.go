package codec

import gojson "github.com/goccy/go-json"

// GoJSON is the Default codec. The CLI prints trained models, assignment
// results and record listings with it when --json is set.
type GoJSON struct{}

// Marshal encodes the value to JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json", the name ByName resolves.
func (GoJSON) Name() string { return "go-json" }

// Append encodes v and appends it to dst. On error dst is returned unchanged.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}
