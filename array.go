package zephyr

import (
	"context"

	js "github.com/reoring/zephyr/jsonschema"
)

// ListType loads and dumps every element through one item type.
type ListType struct {
	Base
	item Type
}

// List returns a descriptor for homogeneous sequences.
func List(item Type, opts ...Option) *ListType {
	if item == nil {
		item = Any()
	}
	return &ListType{Base: NewBase("List", nil, opts...), item: item}
}

// Item returns the element type.
func (t *ListType) Item() Type { return t.item }

func (t *ListType) items(v any) ([]any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	rv := indirect(v)
	if !isList(rv) {
		return nil, t.invalidType("list")
	}
	return listItems(rv), nil
}

func (t *ListType) Load(ctx context.Context, data any) (any, error) {
	items, err := t.items(data)
	if err != nil {
		return nil, err
	}
	out, err := eachItem(items, func(i int, item any) (any, error) { return t.item.Load(ctx, item) })
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, out)
}

func (t *ListType) Dump(ctx context.Context, value any) (any, error) {
	items, err := t.items(value)
	if err != nil {
		return nil, err
	}
	out, err := eachItem(items, func(i int, item any) (any, error) { return t.item.Dump(ctx, item) })
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, out)
}

func (t *ListType) Validate(ctx context.Context, data any) MessageMap { return Validate(ctx, t, data) }

func (t *ListType) JSONSchema() (*js.Schema, error) {
	is, err := ExportJSONSchema(t.item)
	if err != nil {
		return nil, err
	}
	return t.refine(&js.Schema{Type: "array", Items: is}), nil
}

// TupleType pairs a fixed sequence of item types with positional elements.
type TupleType struct {
	Base
	items []Type
}

// Tuple returns a fixed-arity descriptor. The slice is copied.
func Tuple(items []Type, opts ...Option) *TupleType {
	return &TupleType{
		Base:  NewBase("Tuple", []string{KindInvalidLength}, opts...),
		items: append([]Type(nil), items...),
	}
}

// Items returns a copy of the positional item types.
func (t *TupleType) Items() []Type { return append([]Type(nil), t.items...) }

func (t *TupleType) elements(v any) ([]any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	rv := indirect(v)
	if !isList(rv) {
		return nil, t.invalidType("list")
	}
	if rv.Len() != len(t.items) {
		return nil, t.Fail(KindInvalidLength, map[string]any{"expected_length": len(t.items)})
	}
	return listItems(rv), nil
}

func (t *TupleType) Load(ctx context.Context, data any) (any, error) {
	elems, err := t.elements(data)
	if err != nil {
		return nil, err
	}
	out, err := eachItem(elems, func(i int, item any) (any, error) { return t.items[i].Load(ctx, item) })
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, out)
}

func (t *TupleType) Dump(ctx context.Context, value any) (any, error) {
	elems, err := t.elements(value)
	if err != nil {
		return nil, err
	}
	out, err := eachItem(elems, func(i int, item any) (any, error) { return t.items[i].Dump(ctx, item) })
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, out)
}

func (t *TupleType) Validate(ctx context.Context, data any) MessageMap {
	return Validate(ctx, t, data)
}

func (t *TupleType) JSONSchema() (*js.Schema, error) {
	prefix := make([]*js.Schema, 0, len(t.items))
	for _, it := range t.items {
		s, err := ExportJSONSchema(it)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, s)
	}
	n := len(t.items)
	return t.refine(&js.Schema{Type: "array", PrefixItems: prefix, Items: false, MinItems: &n, MaxItems: &n}), nil
}

// eachItem converts every element, recording per-index failures and carrying
// on past them. Non-validation errors abort immediately.
func eachItem(items []any, conv func(i int, item any) (any, error)) ([]any, error) {
	var eb ErrorBuilder
	out := make([]any, 0, len(items))
	for i, item := range items {
		v, err := conv(i, item)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			eb.AddIndexError(i, ve.Messages)
			continue
		}
		out = append(out, v)
	}
	if err := eb.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
