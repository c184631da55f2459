package validators_test

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/i18n"
	js "github.com/reoring/zephyr/jsonschema"
	"github.com/reoring/zephyr/validators"
)

func message(t *testing.T, err error) any {
	t.Helper()
	ve, ok := zephyr.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return ve.Messages
}

func TestRange(t *testing.T) {
	ctx := context.Background()
	r := validators.Range(1, 10)

	assert.NoError(t, r.Validate(ctx, 5))
	assert.NoError(t, r.Validate(ctx, json.Number("10")))
	assert.NoError(t, r.Validate(ctx, "not a number"), "non-numbers are left to the type")
	assert.Equal(t, "Value should be at least 1", message(t, r.Validate(ctx, 0)))
	assert.Equal(t, "Value should be at most 10", message(t, r.Validate(ctx, 10.5)))

	assert.NoError(t, validators.Min(0).Validate(ctx, uint8(0)))
	assert.Equal(t, "Value should be at most 0.5", message(t, validators.Max(0.5).Validate(ctx, 1)))

	huge, _ := new(big.Int).SetString("99999999999999999999999", 10)
	assert.Equal(t, "Value should be at most 10", message(t, r.Validate(ctx, huge)))
	assert.Equal(t, "Value should be at least 1", message(t, r.Validate(ctx, new(big.Int).Neg(huge))))
	assert.NoError(t, r.Validate(ctx, big.NewInt(7)))

	custom := r.WithMessage("between {min} and {max}")
	assert.Equal(t, "between 1 and 10", message(t, custom.Validate(ctx, 11)))
	assert.Equal(t, "Value should be at most 10", message(t, r.Validate(ctx, 11)), "WithMessage copies")
}

func TestLength(t *testing.T) {
	ctx := context.Background()
	l := validators.Length(2, 3)

	assert.NoError(t, l.Validate(ctx, "ab"))
	assert.NoError(t, l.Validate(ctx, "日本語"), "runes, not bytes")
	assert.NoError(t, l.Validate(ctx, []any{1, 2}))
	assert.NoError(t, l.Validate(ctx, 7))
	assert.Equal(t, "Length should be at least 2", message(t, l.Validate(ctx, "a")))
	assert.Equal(t, "Length should be at most 3", message(t, l.Validate(ctx, map[string]any{"a": 1, "b": 2, "c": 3, "d": 4})))

	assert.Equal(t, "Value length should be 2", message(t, validators.ExactLength(2).Validate(ctx, []int{1})))
	assert.NoError(t, validators.Length(-1, 1).Validate(ctx, ""))
}

func TestChoices(t *testing.T) {
	ctx := context.Background()
	one := validators.OneOf("a", "b", 3)

	assert.NoError(t, one.Validate(ctx, "a"))
	assert.NoError(t, one.Validate(ctx, int64(3)), "numbers compare by value")
	assert.NoError(t, one.Validate(ctx, json.Number("3")))
	assert.Equal(t, "Value should be one of a, b, 3", message(t, one.Validate(ctx, "c")))

	none := validators.NoneOf("root")
	assert.NoError(t, none.Validate(ctx, "user"))
	assert.Equal(t, "Value should not be one of root", message(t, none.Validate(ctx, "root")))
}

func TestRegexp(t *testing.T) {
	ctx := context.Background()
	re := validators.MustRegexp(`^[a-z]+$`)

	assert.NoError(t, re.Validate(ctx, "abc"))
	assert.NoError(t, re.Validate(ctx, 12), "non-strings are left to the type")
	assert.Equal(t, "Value should match ^[a-z]+$", message(t, re.Validate(ctx, "ABC")))
	assert.Equal(t, "lowercase only", message(t, re.WithMessage("lowercase only").Validate(ctx, "A")))

	_, err := validators.Regexp("(")
	assert.Error(t, err)
	assert.Panics(t, func() { validators.MustRegexp("(") })
}

func TestPredicate(t *testing.T) {
	ctx := context.Background()
	even := validators.Predicate(func(v any) bool { return v.(int)%2 == 0 }, "Value should be even")
	assert.NoError(t, even.Validate(ctx, 2))
	assert.Equal(t, "Value should be even", message(t, even.Validate(ctx, 3)))

	anon := validators.Predicate(func(any) bool { return false }, "")
	assert.Equal(t, "Invalid value", message(t, anon.Validate(ctx, 1)))
}

func TestLocalizedMessages(t *testing.T) {
	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })

	assert.Equal(t, "値は1以上である必要があります", message(t, validators.Min(1).Validate(context.Background(), 0)))
}

func TestRefineSchema(t *testing.T) {
	s := &js.Schema{Type: "string"}
	validators.Length(1, 5).RefineSchema(s)
	validators.MustRegexp(`^x`).RefineSchema(s)
	validators.OneOf("x", "xy").RefineSchema(s)
	assert.Equal(t, 1, *s.MinLength)
	assert.Equal(t, 5, *s.MaxLength)
	assert.Equal(t, "^x", s.Pattern)
	assert.Equal(t, []any{"x", "xy"}, s.Enum)

	arr := &js.Schema{Type: "array"}
	validators.ExactLength(2).RefineSchema(arr)
	assert.Equal(t, 2, *arr.MinItems)
	assert.Equal(t, 2, *arr.MaxItems)
	assert.Nil(t, arr.MinLength)

	num := &js.Schema{Type: "number"}
	validators.Min(0).RefineSchema(num)
	assert.Equal(t, 0.0, *num.Minimum)
	assert.Nil(t, num.Maximum)

	none := &js.Schema{}
	validators.NoneOf("a").RefineSchema(none)
	assert.Nil(t, none.Enum)
}

func TestValidatorsOnTypes(t *testing.T) {
	typ := zephyr.String(zephyr.WithValidators(validators.Length(1, 3), validators.MustRegexp(`^[a-z]*$`)))
	_, err := typ.Load(context.Background(), "ABCD")
	assert.Equal(t, []string{"Length should be at most 3", "Value should match ^[a-z]*$"}, message(t, err))
}

func TestRange_OverflowingIntegerInput(t *testing.T) {
	typ := zephyr.Integer(zephyr.WithValidators(validators.Max(150)))
	_, err := typ.Load(context.Background(), json.Number("99999999999999999999999"))
	assert.Equal(t, "Value should be at most 150", message(t, err))

	v, err := typ.Load(context.Background(), json.Number("150"))
	require.NoError(t, err)
	assert.Equal(t, int64(150), v)
}
