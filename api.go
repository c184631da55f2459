package zephyr

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	js "github.com/reoring/zephyr/jsonschema"
)

// ErrNoJSONSchema indicates a Type that cannot describe itself as JSON Schema.
var ErrNoJSONSchema = errors.New("zephyr: type does not implement JSONSchema")

// ExportJSONSchema projects t into a JSON Schema describing its load input.
func ExportJSONSchema(t Type) (*js.Schema, error) {
	if s, ok := t.(JSONSchemaer); ok {
		return s.JSONSchema()
	}
	return nil, fmt.Errorf("%w: %T", ErrNoJSONSchema, t)
}

// StructConstructor returns a Constructor decoding the loaded field mapping
// into a T. Keys match json tags, then field names case-insensitively.
func StructConstructor[T any]() Constructor {
	return func(_ context.Context, fields map[string]any) (any, error) {
		var out T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			Result:           &out,
			ZeroFields:       true,
			WeaklyTypedInput: false,
		})
		if err != nil {
			return nil, fmt.Errorf("zephyr: construct %T: %w", out, err)
		}
		if err := dec.Decode(fields); err != nil {
			return nil, fmt.Errorf("zephyr: construct %T: %w", out, err)
		}
		return out, nil
	}
}

// LoadAs loads data with t and asserts the result to T.
func LoadAs[T any](ctx context.Context, t Type, data any) (T, error) {
	var zero T
	v, err := t.Load(ctx, data)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("zephyr: loaded %T, want %T", v, zero)
	}
	return out, nil
}

// SafeLoad loads data with t, returning (nil, false) on any error.
func SafeLoad(ctx context.Context, t Type, data any) (any, bool) {
	v, err := t.Load(ctx, data)
	if err != nil {
		return nil, false
	}
	return v, true
}
