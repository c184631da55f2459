package zephyr

import (
	"context"

	"github.com/reoring/zephyr/i18n"
	js "github.com/reoring/zephyr/jsonschema"
)

var baseKinds = []string{KindInvalidType, KindRequired}

// Base carries what every type descriptor shares: extra validators and
// message-template overrides. Custom types embed it and call Fail, Load and
// CheckRequired from their own Load/Dump.
type Base struct {
	name       string
	kinds      map[string]struct{}
	validators []Validator
	messages   map[string]string
}

// NewBase builds a Base for a descriptor called name. kinds lists the error
// kinds the descriptor raises in addition to required and invalid_type; their
// default templates come from the i18n translator.
func NewBase(name string, kinds []string, opts ...Option) Base {
	return newBase(name, kinds, buildOptions(opts))
}

func newBase(name string, kinds []string, o options) Base {
	b := Base{
		name:       name,
		kinds:      make(map[string]struct{}, len(baseKinds)+len(kinds)),
		validators: append([]Validator(nil), o.validators...),
		messages:   make(map[string]string, len(o.messages)),
	}
	for _, k := range baseKinds {
		b.kinds[k] = struct{}{}
	}
	for _, k := range kinds {
		b.kinds[k] = struct{}{}
	}
	for k, v := range o.messages {
		b.messages[k] = v
	}
	return b
}

// Message returns the formatted message for kind. Instance overrides win over
// the translator defaults. An unknown kind panics with ErrMissingMessage.
func (b *Base) Message(kind string, params map[string]any) string {
	if tmpl, ok := b.messages[kind]; ok {
		return i18n.Format(tmpl, params)
	}
	if _, ok := b.kinds[kind]; ok {
		if tmpl, ok := i18n.Template(kind); ok {
			return i18n.Format(tmpl, params)
		}
	}
	schemaPanic(ErrMissingMessage, b.name, kind)
	return ""
}

// Fail returns a *ValidationError carrying the message for kind.
func (b *Base) Fail(kind string, params map[string]any) error {
	return &ValidationError{Messages: b.Message(kind, params)}
}

// CheckRequired fails with "required" when v is Missing or null.
func (b *Base) CheckRequired(v any) error {
	if isNull(v) {
		return b.Fail(KindRequired, nil)
	}
	return nil
}

// Load runs every validator against data and aggregates their failures.
func (b *Base) Load(ctx context.Context, data any) (any, error) {
	var eb ErrorBuilder
	for _, v := range b.validators {
		err := v.Validate(ctx, data)
		if err == nil {
			continue
		}
		if ve, ok := AsValidationError(err); ok {
			eb.AddErrors(ve.Messages)
			continue
		}
		eb.AddErrors(err.Error())
	}
	if err := eb.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Dump is the identity.
func (b *Base) Dump(_ context.Context, value any) (any, error) { return value, nil }

func (b *Base) invalidType(expected string) error {
	return b.Fail(KindInvalidType, map[string]any{"expected": expected})
}

// refine lets validators that know their JSON Schema shape narrow s.
func (b *Base) refine(s *js.Schema) *js.Schema {
	for _, v := range b.validators {
		if r, ok := v.(js.Refiner); ok {
			r.RefineSchema(s)
		}
	}
	return s
}
