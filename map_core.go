package zephyr

import (
	"context"

	js "github.com/reoring/zephyr/jsonschema"
)

// ValueTypes resolves the value type of a Dict key: an explicit per-key entry,
// else the fallback default. Each instance owns its own map.
type ValueTypes struct {
	values map[string]Type
	def    Type
}

// NewValueTypes copies values; def may be nil, in which case unlisted keys
// resolve to no type and are skipped.
func NewValueTypes(values map[string]Type, def Type) *ValueTypes {
	vt := &ValueTypes{values: make(map[string]Type, len(values)), def: def}
	for k, v := range values {
		vt.values[k] = v
	}
	return vt
}

// Get returns the type for key, or nil when the key resolves to nothing.
func (vt *ValueTypes) Get(key string) Type {
	if t, ok := vt.values[key]; ok {
		return t
	}
	return vt.def
}

// Len reports the number of explicit entries.
func (vt *ValueTypes) Len() int { return len(vt.values) }

// DictType loads and dumps string-keyed mappings, resolving each input key
// to a value type.
type DictType struct {
	Base
	valueTypes *ValueTypes
}

// Dict returns a mapping descriptor whose every value has type valueType
// (Any when nil).
func Dict(valueType Type, opts ...Option) *DictType {
	if valueType == nil {
		valueType = Any()
	}
	return DictOf(NewValueTypes(nil, valueType), opts...)
}

// DictOf returns a mapping descriptor with per-key value types.
func DictOf(vt *ValueTypes, opts ...Option) *DictType {
	if vt == nil {
		vt = NewValueTypes(nil, nil)
	}
	return &DictType{Base: NewBase("Dict", nil, opts...), valueTypes: vt}
}

// ValueTypes returns the key-to-type lookup.
func (t *DictType) ValueTypes() *ValueTypes { return t.valueTypes }

func (t *DictType) entries(v any) (map[string]any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	rv := indirect(v)
	if !isDict(rv) {
		return nil, t.invalidType("dict")
	}
	return dictItems(rv), nil
}

func (t *DictType) convert(src map[string]any, conv func(Type, any) (any, error)) (map[string]any, error) {
	var eb ErrorBuilder
	out := make(map[string]any, len(src))
	for k, v := range src {
		vt := t.valueTypes.Get(k)
		if vt == nil {
			continue
		}
		cv, err := conv(vt, v)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			eb.AddError(k, ve.Messages)
			continue
		}
		out[k] = cv
	}
	if err := eb.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *DictType) Load(ctx context.Context, data any) (any, error) {
	src, err := t.entries(data)
	if err != nil {
		return nil, err
	}
	out, err := t.convert(src, func(vt Type, v any) (any, error) { return vt.Load(ctx, v) })
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, out)
}

func (t *DictType) Dump(ctx context.Context, value any) (any, error) {
	src, err := t.entries(value)
	if err != nil {
		return nil, err
	}
	out, err := t.convert(src, func(vt Type, v any) (any, error) { return vt.Dump(ctx, v) })
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, out)
}

func (t *DictType) Validate(ctx context.Context, data any) MessageMap { return Validate(ctx, t, data) }

func (t *DictType) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "object"}
	if len(t.valueTypes.values) > 0 {
		s.Properties = make(map[string]*js.Schema, len(t.valueTypes.values))
		for k, vt := range t.valueTypes.values {
			ps, err := ExportJSONSchema(vt)
			if err != nil {
				return nil, err
			}
			s.Properties[k] = ps
		}
	}
	if t.valueTypes.def != nil {
		ds, err := ExportJSONSchema(t.valueTypes.def)
		if err != nil {
			return nil, err
		}
		s.AdditionalProperties = ds
	}
	return t.refine(s), nil
}
