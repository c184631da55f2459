package zephyr

import (
	"context"

	js "github.com/reoring/zephyr/jsonschema"
)

// Type describes how one data shape is loaded from plain data and dumped back.
// Implementations are immutable after construction and safe for concurrent use.
type Type interface {
	// Load converts untrusted plain data into a trusted value.
	Load(ctx context.Context, data any) (any, error)
	// Dump converts a trusted value into plain data.
	Dump(ctx context.Context, value any) (any, error)
	// Validate runs Load and reports the message tree; it never fails.
	Validate(ctx context.Context, data any) MessageMap
}

// JSONSchemaer is implemented by types that can describe their load input as
// JSON Schema.
type JSONSchemaer interface {
	JSONSchema() (*js.Schema, error)
}

// Validator checks an already converted value. A returned *ValidationError
// contributes its message tree; any other error contributes err.Error().
type Validator interface {
	Validate(ctx context.Context, value any) error
}

// ValidatorFunc adapts an ordinary function to Validator.
type ValidatorFunc func(ctx context.Context, value any) error

func (f ValidatorFunc) Validate(ctx context.Context, value any) error { return f(ctx, value) }

// Constructor builds the loaded record of an Object from its field mapping.
type Constructor func(ctx context.Context, fields map[string]any) (any, error)

// UnknownPolicy controls how Object handles input keys without a declared field.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownStrict                           // Report unknown keys with the "unknown" message.
	UnknownPassthrough                      // Copy unknown keys into the loaded mapping.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strip"
	}
}

// Option configures a type descriptor at construction time.
type Option func(*options)

type options struct {
	validators   []Validator
	messages     map[string]string
	constructor  Constructor
	defaultField func(Type) Field
	unknown      UnknownPolicy
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithValidators appends extra validators run after the primitive checks.
func WithValidators(v ...Validator) Option {
	return func(o *options) {
		for _, vv := range v {
			if vv != nil {
				o.validators = append(o.validators, vv)
			}
		}
	}
}

// WithMessages overrides message templates by error kind. The map is copied.
func WithMessages(m map[string]string) Option {
	return func(o *options) {
		if o.messages == nil {
			o.messages = make(map[string]string, len(m))
		}
		for k, v := range m {
			o.messages[k] = v
		}
	}
}

// WithConstructor sets the Object constructor. The default returns the loaded
// map[string]any unchanged.
func WithConstructor(c Constructor) Option {
	return func(o *options) { o.constructor = c }
}

// WithDefaultField sets how Object wraps bare Type values. The default is
// AttributeField with no attribute override.
func WithDefaultField(f func(Type) Field) Option {
	return func(o *options) { o.defaultField = f }
}

// AllowExtraFields selects UnknownStrip (true) or UnknownStrict (false).
func AllowExtraFields(allow bool) Option {
	return func(o *options) {
		if allow {
			o.unknown = UnknownStrip
		} else {
			o.unknown = UnknownStrict
		}
	}
}

// WithUnknownPolicy sets the Object unknown-key policy explicitly.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

// missing is the type of the Missing sentinel.
type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing marks an absent value, distinct from nil. Fields return it to
// contribute nothing to their record.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// Validate runs t.Load and converts a validation failure into a MessageMap.
// Non-map trees are placed under SchemaKey. Other errors are reported under
// SchemaKey as their text.
func Validate(ctx context.Context, t Type, data any) MessageMap {
	_, err := t.Load(ctx, data)
	if err == nil {
		return MessageMap{}
	}
	ve, ok := AsValidationError(err)
	if !ok {
		return MessageMap{SchemaKey: err.Error()}
	}
	if m, ok := ve.Messages.(MessageMap); ok {
		return m
	}
	return MessageMap{SchemaKey: ve.Messages}
}
