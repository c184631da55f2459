package zephyr

import (
	"context"
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"

	js "github.com/reoring/zephyr/jsonschema"
)

// AnyType performs no checks and passes data through unchanged apart from
// its extra validators.
type AnyType struct {
	Base
}

// Any returns the untyped escape-hatch descriptor.
func Any(opts ...Option) *AnyType {
	return &AnyType{Base: NewBase("Any", nil, opts...)}
}

func (t *AnyType) Validate(ctx context.Context, data any) MessageMap { return Validate(ctx, t, data) }

func (t *AnyType) JSONSchema() (*js.Schema, error) { return t.refine(&js.Schema{}), nil }

// IntegerType accepts every Go integer kind, *big.Int and integral json.Number.
type IntegerType struct {
	Base
}

// Integer returns an integer descriptor.
func Integer(opts ...Option) *IntegerType {
	return &IntegerType{Base: NewBase("Integer", nil, opts...)}
}

func (t *IntegerType) check(v any) (any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	iv, ok := asInteger(v)
	if !ok {
		return nil, t.invalidType("integer")
	}
	return iv, nil
}

func (t *IntegerType) Load(ctx context.Context, data any) (any, error) {
	v, err := t.check(data)
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, v)
}

func (t *IntegerType) Dump(ctx context.Context, value any) (any, error) {
	v, err := t.check(value)
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, v)
}

func (t *IntegerType) Validate(ctx context.Context, data any) MessageMap {
	return Validate(ctx, t, data)
}

func (t *IntegerType) JSONSchema() (*js.Schema, error) {
	return t.refine(&js.Schema{Type: "integer"}), nil
}

// asInteger returns the canonical integer for v: Go integers unchanged,
// integral json.Number as int64 (or *big.Int when it overflows).
func asInteger(v any) (any, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i, true
		}
		if bi, ok := new(big.Int).SetString(string(n), 10); ok {
			return bi, true
		}
		return nil, false
	}
	rv := indirect(v)
	if rv.Type() == bigIntType {
		return rv.Interface(), true
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Interface(), true
	}
	return nil, false
}

// FloatType accepts Go float kinds, json.Number and Go integers (widened).
type FloatType struct {
	Base
}

// Float returns a floating point descriptor.
func Float(opts ...Option) *FloatType {
	return &FloatType{Base: NewBase("Float", nil, opts...)}
}

func (t *FloatType) check(v any) (any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return nil, t.invalidType("float")
		}
		return f, nil
	}
	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return nil, t.invalidType("float")
}

func (t *FloatType) Load(ctx context.Context, data any) (any, error) {
	v, err := t.check(data)
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, v)
}

func (t *FloatType) Dump(ctx context.Context, value any) (any, error) {
	v, err := t.check(value)
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, v)
}

func (t *FloatType) Validate(ctx context.Context, data any) MessageMap { return Validate(ctx, t, data) }

func (t *FloatType) JSONSchema() (*js.Schema, error) {
	return t.refine(&js.Schema{Type: "number"}), nil
}

// StringType accepts string kinds other than json.Number and yields plain strings.
type StringType struct {
	Base
}

// String returns a string descriptor.
func String(opts ...Option) *StringType {
	return &StringType{Base: NewBase("String", nil, opts...)}
}

func (t *StringType) check(v any) (any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := indirect(v)
	if rv.Kind() != reflect.String || rv.Type() == jsonNumberType {
		return nil, t.invalidType("string")
	}
	return rv.String(), nil
}

func (t *StringType) Load(ctx context.Context, data any) (any, error) {
	v, err := t.check(data)
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, v)
}

func (t *StringType) Dump(ctx context.Context, value any) (any, error) {
	v, err := t.check(value)
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, v)
}

func (t *StringType) Validate(ctx context.Context, data any) MessageMap {
	return Validate(ctx, t, data)
}

func (t *StringType) JSONSchema() (*js.Schema, error) {
	return t.refine(&js.Schema{Type: "string"}), nil
}

// BooleanType accepts bool kinds only; integers are rejected.
type BooleanType struct {
	Base
}

// Boolean returns a boolean descriptor.
func Boolean(opts ...Option) *BooleanType {
	return &BooleanType{Base: NewBase("Boolean", nil, opts...)}
}

func (t *BooleanType) check(v any) (any, error) {
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	rv := indirect(v)
	if rv.Kind() != reflect.Bool {
		return nil, t.invalidType("boolean")
	}
	return rv.Bool(), nil
}

func (t *BooleanType) Load(ctx context.Context, data any) (any, error) {
	v, err := t.check(data)
	if err != nil {
		return nil, err
	}
	return t.Base.Load(ctx, v)
}

func (t *BooleanType) Dump(ctx context.Context, value any) (any, error) {
	v, err := t.check(value)
	if err != nil {
		return nil, err
	}
	return t.Base.Dump(ctx, v)
}

func (t *BooleanType) Validate(ctx context.Context, data any) MessageMap {
	return Validate(ctx, t, data)
}

func (t *BooleanType) JSONSchema() (*js.Schema, error) {
	return t.refine(&js.Schema{Type: "boolean"}), nil
}
