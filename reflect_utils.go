package zephyr

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strings"
	"unicode"
)

var (
	jsonNumberType = reflect.TypeOf(json.Number(""))
	bigIntType     = reflect.TypeOf((*big.Int)(nil))
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
)

// isNull reports Missing, the nil interface and nil pointers.
func isNull(v any) bool {
	if v == nil || IsMissing(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// indirect dereferences pointers down to the first non-pointer value.
// big.Int stays a pointer since that is its canonical form.
func indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type() != bigIntType {
		rv = rv.Elem()
	}
	return rv
}

// isList reports whether rv supports the list interface.
func isList(rv reflect.Value) bool {
	k := rv.Kind()
	return k == reflect.Slice || k == reflect.Array
}

// isDict reports whether rv is a mapping with string keys.
func isDict(rv reflect.Value) bool {
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// listItems copies a slice or array into []any.
func listItems(rv reflect.Value) []any {
	if items, ok := rv.Interface().([]any); ok {
		return items
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// dictItems views a string-keyed map as map[string]any without copying when
// it already has that type.
func dictItems(rv reflect.Value) map[string]any {
	if m, ok := rv.Interface().(map[string]any); ok {
		return m
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external key: json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		name := jt
		if i := strings.IndexByte(jt, ','); i >= 0 {
			name = jt[:i]
		}
		if name != "" {
			return name
		}
	}
	return sf.Name
}

// exportedName maps field-style names to Go identifiers:
// "full_name" -> "FullName", "fullName" -> "FullName".
func exportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lookupAttribute reads name off obj: a map key, or a struct field matched by
// its resolved key or Go name. It returns Missing when there is no such member.
func lookupAttribute(obj any, name string) any {
	rv := indirect(obj)
	switch {
	case isDict(rv):
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return Missing
		}
		return v.Interface()
	case rv.Kind() == reflect.Struct:
		if fv, ok := structField(rv, name); ok {
			return fv.Interface()
		}
	}
	return Missing
}

// structField matches name against the visible fields of rv, promoted fields
// of embedded structs included. The shallowest match wins, as in a Go
// selector; a promoted field behind a nil embedded pointer is absent.
func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	goName := exportedName(name)
	var best *reflect.StructField
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		sf := sf
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		if key != name && !strings.EqualFold(sf.Name, name) && sf.Name != goName {
			continue
		}
		if best == nil || len(sf.Index) < len(best.Index) {
			best = &sf
		}
	}
	if best == nil {
		return reflect.Value{}, false
	}
	fv, err := rv.FieldByIndexErr(best.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

// findCallable locates a zero-argument member called name on obj. It panics
// with a *SchemaError when the member is absent or cannot be invoked.
func findCallable(obj any, name string) reflect.Value {
	goName := exportedName(name)
	rv := reflect.ValueOf(obj)
	if rv.IsValid() {
		if m := rv.MethodByName(goName); m.IsValid() {
			return checkCallable(m, name)
		}
		// pointer-receiver methods on a value
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			p := reflect.New(rv.Type())
			p.Elem().Set(rv)
			if m := p.MethodByName(goName); m.IsValid() {
				return checkCallable(m, name)
			}
		}
	}
	member := lookupAttribute(obj, name)
	if IsMissing(member) {
		schemaPanic(ErrNoSuchMethod, "MethodField", name)
	}
	return checkCallable(reflect.ValueOf(member), name)
}

func checkCallable(fn reflect.Value, name string) reflect.Value {
	if fn.Kind() == reflect.Interface && !fn.IsNil() {
		fn = fn.Elem()
	}
	if fn.Kind() != reflect.Func || fn.IsNil() {
		schemaPanic(ErrNotCallable, "MethodField", name)
	}
	ft := fn.Type()
	switch {
	case ft.NumIn() != 0:
	case ft.NumOut() == 1:
		return fn
	case ft.NumOut() == 2 && ft.Out(1).Implements(errorType):
		return fn
	}
	schemaPanic(ErrNotCallable, "MethodField", name)
	return reflect.Value{}
}

// callMember invokes a callable found by findCallable.
func callMember(fn reflect.Value) (any, error) {
	out := fn.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
