// Package validators provides reusable extra validators for zephyr types.
// Each validator also narrows the exported JSON Schema of the type it is
// attached to.
package validators

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/i18n"
	js "github.com/reoring/zephyr/jsonschema"
)

func fail(override, kind string, params map[string]any) error {
	tmpl := override
	if tmpl == "" {
		var ok bool
		if tmpl, ok = i18n.Template(kind); !ok {
			tmpl = kind
		}
	}
	return zephyr.NewValidationError(i18n.Format(tmpl, params))
}

// Predicate fails with message whenever fn returns false.
func Predicate(fn func(value any) bool, message string) zephyr.Validator {
	return zephyr.ValidatorFunc(func(_ context.Context, value any) error {
		if fn(value) {
			return nil
		}
		if message == "" {
			return fail("", "invalid", nil)
		}
		return zephyr.NewValidationError(message)
	})
}

// RangeValidator bounds numeric values.
type RangeValidator struct {
	min, max *float64
	message  string
}

// Range requires min <= value <= max.
func Range(min, max float64) *RangeValidator { return &RangeValidator{min: &min, max: &max} }

// Min requires value >= min.
func Min(min float64) *RangeValidator { return &RangeValidator{min: &min} }

// Max requires value <= max.
func Max(max float64) *RangeValidator { return &RangeValidator{max: &max} }

// WithMessage returns a copy reporting tmpl instead of the default template.
func (r *RangeValidator) WithMessage(tmpl string) *RangeValidator {
	cp := *r
	cp.message = tmpl
	return &cp
}

func (r *RangeValidator) Validate(_ context.Context, value any) error {
	f, ok := toFloat(value)
	if !ok {
		return nil
	}
	params := map[string]any{}
	if r.min != nil {
		params["min"] = trimFloat(*r.min)
	}
	if r.max != nil {
		params["max"] = trimFloat(*r.max)
	}
	if r.min != nil && f < *r.min {
		return fail(r.message, "too_small", params)
	}
	if r.max != nil && f > *r.max {
		return fail(r.message, "too_big", params)
	}
	return nil
}

func (r *RangeValidator) RefineSchema(s *js.Schema) {
	if r.min != nil {
		v := *r.min
		s.Minimum = &v
	}
	if r.max != nil {
		v := *r.max
		s.Maximum = &v
	}
}

// LengthValidator bounds the length of strings (in runes), lists and maps.
type LengthValidator struct {
	min, max, exact int
	message         string
}

// Length requires min <= len(value) <= max; a negative bound is ignored.
func Length(min, max int) *LengthValidator { return &LengthValidator{min: min, max: max, exact: -1} }

// ExactLength requires len(value) == n.
func ExactLength(n int) *LengthValidator { return &LengthValidator{min: -1, max: -1, exact: n} }

// WithMessage returns a copy reporting tmpl instead of the default template.
func (l *LengthValidator) WithMessage(tmpl string) *LengthValidator {
	cp := *l
	cp.message = tmpl
	return &cp
}

func (l *LengthValidator) Validate(_ context.Context, value any) error {
	n, ok := length(value)
	if !ok {
		return nil
	}
	switch {
	case l.exact >= 0 && n != l.exact:
		return fail(l.message, "invalid_length", map[string]any{"expected_length": l.exact})
	case l.min >= 0 && n < l.min:
		return fail(l.message, "too_short", map[string]any{"min": l.min, "max": l.max})
	case l.max >= 0 && n > l.max:
		return fail(l.message, "too_long", map[string]any{"min": l.min, "max": l.max})
	}
	return nil
}

func (l *LengthValidator) RefineSchema(s *js.Schema) {
	lo, hi := l.min, l.max
	if l.exact >= 0 {
		lo, hi = l.exact, l.exact
	}
	set := func(n int) *int {
		if n < 0 {
			return nil
		}
		return &n
	}
	switch s.Type {
	case "string":
		s.MinLength, s.MaxLength = set(lo), set(hi)
	case "array":
		s.MinItems, s.MaxItems = set(lo), set(hi)
	}
}

// ChoiceValidator accepts (OneOf) or rejects (NoneOf) a fixed set of values.
type ChoiceValidator struct {
	choices []any
	exclude bool
	message string
}

// OneOf requires value to equal one of choices. Numbers compare by value.
func OneOf(choices ...any) *ChoiceValidator {
	return &ChoiceValidator{choices: append([]any(nil), choices...)}
}

// NoneOf requires value to differ from every one of choices.
func NoneOf(choices ...any) *ChoiceValidator {
	return &ChoiceValidator{choices: append([]any(nil), choices...), exclude: true}
}

// WithMessage returns a copy reporting tmpl instead of the default template.
func (c *ChoiceValidator) WithMessage(tmpl string) *ChoiceValidator {
	cp := *c
	cp.message = tmpl
	return &cp
}

func (c *ChoiceValidator) Validate(_ context.Context, value any) error {
	found := false
	for _, ch := range c.choices {
		if equalValues(ch, value) {
			found = true
			break
		}
	}
	if found != c.exclude {
		return nil
	}
	kind := "invalid_choice"
	if c.exclude {
		kind = "forbidden"
	}
	return fail(c.message, kind, map[string]any{"choices": formatChoices(c.choices)})
}

func (c *ChoiceValidator) RefineSchema(s *js.Schema) {
	if !c.exclude {
		s.Enum = append([]any(nil), c.choices...)
	}
}

// RegexpValidator requires strings to match a pattern.
type RegexpValidator struct {
	re      *regexp.Regexp
	message string
}

// Regexp compiles pattern into a validator.
func Regexp(pattern string) (*RegexpValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("validators: pattern %q: %w", pattern, err)
	}
	return &RegexpValidator{re: re}, nil
}

// MustRegexp is like Regexp but panics on an invalid pattern.
func MustRegexp(pattern string) *RegexpValidator {
	v, err := Regexp(pattern)
	if err != nil {
		panic(err)
	}
	return v
}

// WithMessage returns a copy reporting tmpl instead of the default template.
func (r *RegexpValidator) WithMessage(tmpl string) *RegexpValidator {
	cp := *r
	cp.message = tmpl
	return &cp
}

func (r *RegexpValidator) Validate(_ context.Context, value any) error {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	if r.re.MatchString(s) {
		return nil
	}
	return fail(r.message, "pattern", map[string]any{"pattern": r.re.String()})
}

func (r *RegexpValidator) RefineSchema(s *js.Schema) { s.Pattern = r.re.String() }

// ---- helpers ----

// toFloat widens numeric values for comparison. Integers beyond float64
// precision round to the nearest float (or to an infinity), which keeps bound
// checks correct for values far outside the range.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case *big.Float:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	}
	if n, ok := v.(interface{ Float64() (float64, error) }); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	}
	return 0, false
}

func equalValues(a, b any) bool {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func formatChoices(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}

func trimFloat(f float64) any {
	if f == float64(int64(f)) {
		return int64(f)
	}
	return f
}
