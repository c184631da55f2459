package zephyr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/validators"
)

func TestList_CollectsItemErrorsByIndex(t *testing.T) {
	typ := zephyr.List(zephyr.Integer())

	_, err := typ.Load(context.Background(), []any{1, "a", 3, "b"})
	assert.Equal(t, zephyr.MessageMap{
		"1": "Value should be integer",
		"3": "Value should be integer",
	}, messagesOf(t, err))

	v, err := typ.Load(context.Background(), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, v)
}

func TestList_RejectsNonSequences(t *testing.T) {
	typ := zephyr.List(zephyr.String())
	_, err := typ.Load(context.Background(), "abc")
	assert.Equal(t, "Value should be list", messagesOf(t, err))
	_, err = typ.Load(context.Background(), map[string]any{})
	assert.Equal(t, "Value should be list", messagesOf(t, err))
	_, err = typ.Dump(context.Background(), nil)
	assert.Equal(t, "Value is required", messagesOf(t, err))
}

func TestList_ValidatorsRunOnConvertedList(t *testing.T) {
	typ := zephyr.List(zephyr.String(), zephyr.WithValidators(validators.Length(1, -1)))
	_, err := typ.Load(context.Background(), []any{})
	assert.Equal(t, "Length should be at least 1", messagesOf(t, err))

	// item errors win; list validators never see a partial list
	_, err = typ.Load(context.Background(), []any{1})
	assert.Equal(t, zephyr.MessageMap{"0": "Value should be string"}, messagesOf(t, err))
}

func TestList_NilItemMeansAny(t *testing.T) {
	v, err := zephyr.List(nil).Load(context.Background(), []any{1, "x", nil})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", nil}, v)
}

func TestList_NonValidationErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	item := zephyr.Any(zephyr.WithValidators(zephyr.ValidatorFunc(func(_ context.Context, v any) error {
		if v == "bad" {
			return boom
		}
		return nil
	})))
	// validator errors are messages; only a Type returning a raw error aborts
	_, err := zephyr.List(item).Load(context.Background(), []any{"ok", "bad"})
	assert.Equal(t, zephyr.MessageMap{"1": "boom"}, messagesOf(t, err))

	_, err = zephyr.List(failingType{err: boom}).Load(context.Background(), []any{1, 2})
	assert.ErrorIs(t, err, boom)
	_, ok := zephyr.AsValidationError(err)
	assert.False(t, ok)
}

func TestTuple_Length(t *testing.T) {
	typ := zephyr.Tuple([]zephyr.Type{zephyr.Integer(), zephyr.String()})

	_, err := typ.Load(context.Background(), []any{1})
	assert.Equal(t, "Value length should be 2", messagesOf(t, err))
	_, err = typ.Dump(context.Background(), []any{1, "a", 2})
	assert.Equal(t, "Value length should be 2", messagesOf(t, err))
}

func TestTuple_PositionalTypes(t *testing.T) {
	typ := zephyr.Tuple([]zephyr.Type{zephyr.Integer(), zephyr.String()})

	_, err := typ.Load(context.Background(), []any{"x", 1})
	assert.Equal(t, zephyr.MessageMap{
		"0": "Value should be integer",
		"1": "Value should be string",
	}, messagesOf(t, err))

	v, err := typ.Load(context.Background(), [2]any{1, "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "a"}, v)

	v, err = typ.Dump(context.Background(), []any{2, "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{2, "b"}, v)
}

func TestTuple_OverrideLengthMessage(t *testing.T) {
	typ := zephyr.Tuple([]zephyr.Type{zephyr.Any()},
		zephyr.WithMessages(map[string]string{zephyr.KindInvalidLength: "Need exactly {expected_length}"}))
	_, err := typ.Load(context.Background(), []any{})
	assert.Equal(t, "Need exactly 1", messagesOf(t, err))
}

// failingType returns err from every Load and Dump.
type failingType struct{ err error }

func (f failingType) Load(context.Context, any) (any, error) { return nil, f.err }
func (f failingType) Dump(context.Context, any) (any, error) { return nil, f.err }
func (f failingType) Validate(ctx context.Context, data any) zephyr.MessageMap {
	return zephyr.Validate(ctx, f, data)
}

func TestList_ManyItemErrors(t *testing.T) {
	const n = 100_000
	items := make([]any, n)
	for i := range items {
		items[i] = "x"
	}

	start := time.Now()
	_, err := zephyr.List(zephyr.Integer()).Load(context.Background(), items)
	elapsed := time.Since(start)

	msgs, ok := messagesOf(t, err).(zephyr.MessageMap)
	require.True(t, ok)
	assert.Len(t, msgs, n)
	assert.Equal(t, "Value should be integer", msgs["99999"])
	assert.Less(t, elapsed, 10*time.Second, "collecting per-index errors should be linear")
}
