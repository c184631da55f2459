// Package codec converts between wire formats and the plain native trees
// (map[string]any, []any, scalars) that zephyr types load and dump.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnknownFormat indicates no codec is registered for a name or extension.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnmarshal indicates the codec failed to decode input data.
	ErrUnmarshal = errors.New("unmarshal failed")
	// ErrMarshal indicates the codec failed to encode output data.
	ErrMarshal = errors.New("marshal failed")
)

// Error wraps a codec failure with the format that produced it.
type Error struct {
	Err    error // ErrMarshal or ErrUnmarshal
	Format string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Format, e.Err.Error(), e.Cause)
}

func (e *Error) Unwrap() []error { return []error{e.Err, e.Cause} }

// Codec marshals and unmarshals one wire format.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var registry = map[string]Codec{
	"json":    JSON(),
	"yaml":    YAML(),
	"msgpack": MsgPack(),
}

var extensions = map[string]string{
	".json":    "json",
	".yaml":    "yaml",
	".yml":     "yaml",
	".msgpack": "msgpack",
	".mpk":     "msgpack",
}

// ForName returns the codec registered under name ("json", "yaml", "msgpack").
func ForName(name string) (Codec, error) {
	if c, ok := registry[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
}

// ForPath selects a codec from the file extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
	}
	return registry[name], nil
}

var contentTypes = map[string]string{
	"application/json":        "json",
	"text/json":               "json",
	"application/yaml":        "yaml",
	"application/x-yaml":      "yaml",
	"text/yaml":               "yaml",
	"application/msgpack":     "msgpack",
	"application/x-msgpack":   "msgpack",
	"application/vnd.msgpack": "msgpack",
}

// ForContentType selects a codec from a Content-Type header value; media
// type parameters are ignored and +json suffixes map to JSON.
func ForContentType(ct string) (Codec, error) {
	mt := strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if name, ok := contentTypes[mt]; ok {
		return registry[name], nil
	}
	if strings.HasSuffix(mt, "+json") {
		return registry["json"], nil
	}
	return nil, fmt.Errorf("%w: content type %q", ErrUnknownFormat, ct)
}

// Names lists the registered codec names in ascending order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode unmarshals data into a plain native tree: objects become
// map[string]any and arrays []any regardless of format.
func Decode(c Codec, data []byte) (any, error) {
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, &Error{Err: ErrUnmarshal, Format: c.Name(), Cause: err}
	}
	return Normalize(v), nil
}

// Encode marshals a plain native tree.
func Encode(c Codec, v any) ([]byte, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return nil, &Error{Err: ErrMarshal, Format: c.Name(), Cause: err}
	}
	return b, nil
}

// Normalize converts decoder-specific containers (map[any]any,
// map[string]string, ...) into map[string]any and []any recursively.
// Maps with non-string keys use their fmt rendering as key.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = Normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

// ResolveNumbers replaces json.Number leaves with int64 (or float64 when not
// integral) so formats without an arbitrary-precision number type encode them
// as numbers rather than strings.
func ResolveNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = ResolveNumbers(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = ResolveNumbers(t[i])
		}
		return arr
	default:
		return v
	}
}
