package zephyr

import "context"

// Field links one named slot of a record to a Type. Dump reads the slot off
// the source object; Load reads it out of the input mapping. Variants that
// cannot consume input return Missing from Load.
type Field interface {
	FieldType() Type
	Load(ctx context.Context, name string, data map[string]any) (any, error)
	Dump(ctx context.Context, name string, obj any) (any, error)
}

// valueSource produces the raw value a Field feeds to its Type on dump.
type valueSource func(name string, obj any) (any, error)

type fieldBase struct {
	typ Type
	get valueSource
}

func (f *fieldBase) FieldType() Type { return f.typ }

func (f *fieldBase) Load(context.Context, string, map[string]any) (any, error) { return Missing, nil }

func (f *fieldBase) Dump(ctx context.Context, name string, obj any) (any, error) {
	v, err := f.get(name, obj)
	if err != nil {
		return nil, err
	}
	return f.typ.Dump(ctx, v)
}

// ConstantField always dumps a fixed value.
type ConstantField struct {
	fieldBase
	value any
}

// Constant returns a dump-only field yielding value regardless of the source
// object.
func Constant(t Type, value any) *ConstantField {
	return &ConstantField{
		fieldBase: fieldBase{typ: t, get: func(string, any) (any, error) { return value, nil }},
		value:     value,
	}
}

// Value returns the configured constant.
func (f *ConstantField) Value() any { return f.value }

// AttributeField reads an attribute on dump and the same-named input key on load.
type AttributeField struct {
	fieldBase
	attribute string
}

// Attribute returns a field reading attribute off the source object ("" means
// the field name). On load the input is always read by field name.
func Attribute(t Type, attribute string) *AttributeField {
	return &AttributeField{
		fieldBase: fieldBase{typ: t, get: func(name string, obj any) (any, error) {
			if attribute != "" {
				name = attribute
			}
			return lookupAttribute(obj, name), nil
		}},
		attribute: attribute,
	}
}

// Attribute returns the attribute override ("" when unset).
func (f *AttributeField) Attribute() string { return f.attribute }

func (f *AttributeField) Load(ctx context.Context, name string, data map[string]any) (any, error) {
	v, ok := data[name]
	if !ok {
		v = Missing
	}
	return f.typ.Load(ctx, v)
}

// MethodField dumps the result of a zero-argument member of the source object.
type MethodField struct {
	fieldBase
	method string
}

// Method returns a dump-only field invoking method ("" means the field name,
// CamelCased). A missing or non-invocable member panics with a *SchemaError.
func Method(t Type, method string) *MethodField {
	return &MethodField{
		fieldBase: fieldBase{typ: t, get: func(name string, obj any) (any, error) {
			if method != "" {
				name = method
			}
			return callMember(findCallable(obj, name))
		}},
		method: method,
	}
}

// FunctionField dumps the result of a user-supplied function.
type FunctionField struct {
	fieldBase
}

// Function returns a dump-only field computing its value with fn.
func Function(t Type, fn func(name string, obj any) any) *FunctionField {
	return &FunctionField{fieldBase{typ: t, get: func(name string, obj any) (any, error) {
		return fn(name, obj), nil
	}}}
}
