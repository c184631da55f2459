package zephyr

import (
	"context"
	"fmt"
	"sort"

	js "github.com/reoring/zephyr/jsonschema"
)

// ObjectType loads a mapping into a record through named Fields and dumps a
// record back into a mapping.
type ObjectType struct {
	Base
	fields      map[string]Field
	sortedKeys  []string
	constructor Constructor
	unknown     UnknownPolicy
}

// Object builds a record descriptor. Each value of fields must be a Field or
// a Type; bare Types are wrapped with the default field factory (Attribute
// unless WithDefaultField says otherwise). Anything else panics with
// ErrInvalidField.
func Object(fields map[string]any, opts ...Option) *ObjectType {
	o := buildOptions(opts)
	wrap := o.defaultField
	if wrap == nil {
		wrap = func(t Type) Field { return Attribute(t, "") }
	}
	ot := &ObjectType{
		Base:        newBase("Object", []string{KindUnknown}, o),
		fields:      make(map[string]Field, len(fields)),
		constructor: o.constructor,
		unknown:     o.unknown,
	}
	for name, f := range fields {
		switch v := f.(type) {
		case Field:
			ot.fields[name] = v
		case Type:
			ot.fields[name] = wrap(v)
		default:
			schemaPanic(ErrInvalidField, "Object", name)
		}
	}
	ot.sortedKeys = make([]string, 0, len(ot.fields))
	for k := range ot.fields {
		ot.sortedKeys = append(ot.sortedKeys, k)
	}
	sort.Strings(ot.sortedKeys)
	return ot
}

// Fields returns the declared field names in ascending order.
func (t *ObjectType) Fields() []string { return append([]string(nil), t.sortedKeys...) }

// Field returns the declared field called name.
func (t *ObjectType) Field(name string) (Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// UnknownPolicy reports how unknown input keys are handled.
func (t *ObjectType) UnknownPolicy() UnknownPolicy { return t.unknown }

func (t *ObjectType) Load(ctx context.Context, data any) (any, error) {
	if err := t.CheckRequired(data); err != nil {
		return nil, err
	}
	rv := indirect(data)
	if !isDict(rv) {
		return nil, t.invalidType("dict")
	}
	src := dictItems(rv)

	var eb ErrorBuilder
	result := make(map[string]any, len(t.fields))
	for _, name := range t.sortedKeys {
		loaded, err := t.fields[name].Load(ctx, name, src)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			eb.AddError(name, ve.Messages)
			continue
		}
		if !IsMissing(loaded) {
			result[name] = loaded
		}
	}
	t.collectUnknown(src, result, &eb)
	if err := eb.Err(); err != nil {
		return nil, err
	}

	validated, err := t.Base.Load(ctx, result)
	if err != nil {
		return nil, err
	}
	if t.constructor == nil {
		return validated, nil
	}
	return t.constructor(ctx, validated.(map[string]any))
}

// collectUnknown applies the unknown-key policy in key-sorted order.
func (t *ObjectType) collectUnknown(src, result map[string]any, eb *ErrorBuilder) {
	if t.unknown == UnknownStrip {
		return
	}
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := t.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		switch t.unknown {
		case UnknownStrict:
			eb.AddError(k, t.Message(KindUnknown, nil))
		case UnknownPassthrough:
			result[k] = src[k]
		}
	}
}

func (t *ObjectType) Dump(ctx context.Context, obj any) (any, error) {
	if err := t.CheckRequired(obj); err != nil {
		return nil, err
	}
	var eb ErrorBuilder
	result := make(map[string]any, len(t.fields))
	for _, name := range t.sortedKeys {
		dumped, err := t.fields[name].Dump(ctx, name, obj)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, fmt.Errorf("zephyr: dump field %q: %w", name, err)
			}
			eb.AddError(name, ve.Messages)
			continue
		}
		if !IsMissing(dumped) {
			result[name] = dumped
		}
	}
	if err := eb.Err(); err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, result)
}

func (t *ObjectType) Validate(ctx context.Context, data any) MessageMap {
	return Validate(ctx, t, data)
}

// JSONSchema describes the load input: only attribute fields consume input,
// and every one of them is required unless its type is Any.
func (t *ObjectType) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
	for _, name := range t.sortedKeys {
		f, ok := t.fields[name].(*AttributeField)
		if !ok {
			continue
		}
		ps, err := ExportJSONSchema(f.FieldType())
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		s.Properties[name] = ps
		if _, isAny := f.FieldType().(*AnyType); !isAny {
			s.Required = append(s.Required, name)
		}
	}
	if t.unknown == UnknownStrict {
		s.AdditionalProperties = false
	}
	return t.refine(s), nil
}
