// Package definition builds zephyr types from declarative schema documents
// written in YAML (or JSON, which YAML accepts).
//
//	type: object
//	allow_extra_fields: false
//	fields:
//	  name: {type: string, min_length: 1}
//	  age: {type: integer, min: 0}
//	  tags: {type: list, item: {type: string}}
//	  kind: {type: string, field: constant, value: user}
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/validators"
)

// ErrInvalidDefinition indicates a malformed schema document.
var ErrInvalidDefinition = errors.New("invalid definition")

// Definition describes one type descriptor.
type Definition struct {
	Type     string            `yaml:"type"`
	Messages map[string]string `yaml:"messages,omitempty"`

	// list
	Item *Definition `yaml:"item,omitempty"`
	// tuple
	Items []*Definition `yaml:"items,omitempty"`
	// dict
	Keys   map[string]*Definition `yaml:"keys,omitempty"`
	Values *Definition            `yaml:"values,omitempty"`
	// object
	Fields           map[string]*FieldDefinition `yaml:"fields,omitempty"`
	AllowExtraFields *bool                       `yaml:"allow_extra_fields,omitempty"`
	Unknown          string                      `yaml:"unknown,omitempty"`

	// rules
	Min       *float64 `yaml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty"`
	MinLength *int     `yaml:"min_length,omitempty"`
	MaxLength *int     `yaml:"max_length,omitempty"`
	Length    *int     `yaml:"length,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty"`
	Enum      []any    `yaml:"enum,omitempty"`
}

// FieldDefinition is a Definition plus the Object field variant.
type FieldDefinition struct {
	Definition `yaml:",inline"`

	// Field selects the variant: "attribute" (default) or "constant".
	Field     string `yaml:"field,omitempty"`
	Attribute string `yaml:"attribute,omitempty"`
	Value     any    `yaml:"value,omitempty"`
}

// Parse decodes a schema document and builds its type. Unknown keys in the
// document are rejected.
func Parse(data []byte) (zephyr.Type, error) {
	def, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Build(def)
}

// ParseFile reads and parses the schema document at path.
func ParseFile(path string) (zephyr.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("definition: %s: %w", path, err)
	}
	return t, nil
}

// Decode reads one Definition document.
func Decode(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return &def, nil
}

// Build turns a decoded Definition into a type descriptor. All problems in
// the document are reported together.
func Build(def *Definition) (zephyr.Type, error) {
	b := &builder{}
	t := b.build("/", def)
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return t, nil
}

type builder struct {
	errs []error
}

func (b *builder) errorf(path, format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w at %s: %s", ErrInvalidDefinition, path, fmt.Sprintf(format, args...)))
}

func (b *builder) build(path string, def *Definition) zephyr.Type {
	if def == nil {
		b.errorf(path, "missing type definition")
		return nil
	}
	opts := b.options(path, def)
	switch def.Type {
	case "any":
		return zephyr.Any(opts...)
	case "integer":
		return zephyr.Integer(opts...)
	case "float", "number":
		return zephyr.Float(opts...)
	case "string":
		return zephyr.String(opts...)
	case "boolean", "bool":
		return zephyr.Boolean(opts...)
	case "list":
		return zephyr.List(b.build(join(path, "item"), def.Item), opts...)
	case "tuple":
		if len(def.Items) == 0 {
			b.errorf(path, "tuple needs items")
		}
		items := make([]zephyr.Type, len(def.Items))
		for i, it := range def.Items {
			items[i] = b.build(join(path, fmt.Sprintf("items/%d", i)), it)
		}
		return zephyr.Tuple(items, opts...)
	case "dict":
		keys := make(map[string]zephyr.Type, len(def.Keys))
		for _, k := range sortedKeys(def.Keys) {
			keys[k] = b.build(join(path, "keys/"+k), def.Keys[k])
		}
		var fallback zephyr.Type
		if def.Values != nil {
			fallback = b.build(join(path, "values"), def.Values)
		} else if len(def.Keys) == 0 {
			fallback = zephyr.Any()
		}
		return zephyr.DictOf(zephyr.NewValueTypes(keys, fallback), opts...)
	case "object":
		return b.object(path, def, opts)
	case "":
		b.errorf(path, "type is required")
	default:
		b.errorf(path, "unknown type %q", def.Type)
	}
	return nil
}

func (b *builder) object(path string, def *Definition, opts []zephyr.Option) zephyr.Type {
	fields := make(map[string]any, len(def.Fields))
	for _, name := range sortedKeys(def.Fields) {
		fd := def.Fields[name]
		fpath := join(path, "fields/"+name)
		if fd == nil {
			b.errorf(fpath, "missing field definition")
			continue
		}
		t := b.build(fpath, &fd.Definition)
		if t == nil {
			continue
		}
		switch fd.Field {
		case "", "attribute":
			fields[name] = zephyr.Attribute(t, fd.Attribute)
		case "constant":
			fields[name] = zephyr.Constant(t, fd.Value)
		default:
			b.errorf(fpath, "unknown field variant %q", fd.Field)
		}
	}
	switch def.Unknown {
	case "", "strip":
	case "strict":
		opts = append(opts, zephyr.WithUnknownPolicy(zephyr.UnknownStrict))
	case "passthrough":
		opts = append(opts, zephyr.WithUnknownPolicy(zephyr.UnknownPassthrough))
	default:
		b.errorf(path, "unknown policy %q", def.Unknown)
	}
	if def.AllowExtraFields != nil {
		if def.Unknown != "" {
			b.errorf(path, "allow_extra_fields and unknown are mutually exclusive")
		}
		opts = append(opts, zephyr.AllowExtraFields(*def.AllowExtraFields))
	}
	return zephyr.Object(fields, opts...)
}

// options maps rule keys to validators. Message overrides keyed by a rule
// ("range", "length", "pattern", "enum") go to that rule's validator; the
// rest override the type's own messages.
func (b *builder) options(path string, def *Definition) []zephyr.Option {
	msg := def.Messages
	var vs []zephyr.Validator
	switch {
	case def.Min != nil && def.Max != nil:
		vs = append(vs, validators.Range(*def.Min, *def.Max).WithMessage(msg["range"]))
	case def.Min != nil:
		vs = append(vs, validators.Min(*def.Min).WithMessage(msg["range"]))
	case def.Max != nil:
		vs = append(vs, validators.Max(*def.Max).WithMessage(msg["range"]))
	}
	if def.Length != nil {
		vs = append(vs, validators.ExactLength(*def.Length).WithMessage(msg["length"]))
	}
	if def.MinLength != nil || def.MaxLength != nil {
		lo, hi := -1, -1
		if def.MinLength != nil {
			lo = *def.MinLength
		}
		if def.MaxLength != nil {
			hi = *def.MaxLength
		}
		vs = append(vs, validators.Length(lo, hi).WithMessage(msg["length"]))
	}
	if def.Pattern != "" {
		re, err := validators.Regexp(def.Pattern)
		if err != nil {
			b.errorf(path, "%v", err)
		} else {
			vs = append(vs, re.WithMessage(msg["pattern"]))
		}
	}
	if len(def.Enum) > 0 {
		vs = append(vs, validators.OneOf(def.Enum...).WithMessage(msg["enum"]))
	}
	var opts []zephyr.Option
	if len(vs) > 0 {
		opts = append(opts, zephyr.WithValidators(vs...))
	}
	if len(msg) > 0 {
		opts = append(opts, zephyr.WithMessages(msg))
	}
	return opts
}

func join(base, seg string) string {
	if base == "/" {
		return "/" + seg
	}
	return base + "/" + seg
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
