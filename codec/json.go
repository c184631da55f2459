package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

type jsonCodec struct{ indent string }

// JSON returns a JSON codec backed by goccy/go-json. Numbers decode as
// json.Number so integers keep their exact value.
func JSON() Codec { return jsonCodec{} }

// IndentedJSON is JSON with two-space indented output.
func IndentedJSON() Codec { return jsonCodec{indent: "  "} }

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return "application/json" }

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent != "" {
		return gojson.MarshalIndent(v, "", c.indent)
	}
	return gojson.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
