package zephyr_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/zephyr"
)

func TestMergeMessages(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want any
	}{
		{"nil left", nil, "x", "x"},
		{"nil right", "x", nil, "x"},
		{"strings", "a", "b", []string{"a", "b"}},
		{"string and list", "a", []string{"b", "c"}, []string{"a", "b", "c"}},
		{"maps per key",
			zephyr.MessageMap{"x": "a"},
			zephyr.MessageMap{"x": "b", "y": "c"},
			zephyr.MessageMap{"x": []string{"a", "b"}, "y": "c"}},
		{"map then scalar",
			zephyr.MessageMap{"x": "a"}, "top",
			zephyr.MessageMap{"x": "a", zephyr.SchemaKey: "top"}},
		{"scalar then map",
			"top", zephyr.MessageMap{"x": "a"},
			zephyr.MessageMap{"x": "a", zephyr.SchemaKey: "top"}},
		{"schema key accumulates",
			zephyr.MessageMap{zephyr.SchemaKey: "one"}, "two",
			zephyr.MessageMap{zephyr.SchemaKey: []string{"one", "two"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := zephyr.MergeMessages(tc.a, tc.b)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("MergeMessages(%#v, %#v) = %#v, want %#v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMergeMessages_DoesNotMutateInputs(t *testing.T) {
	a := zephyr.MessageMap{"x": "a"}
	b := zephyr.MessageMap{"x": "b"}
	_ = zephyr.MergeMessages(a, b)
	_ = zephyr.MergeMessages(a, "top")
	if !reflect.DeepEqual(a, zephyr.MessageMap{"x": "a"}) || !reflect.DeepEqual(b, zephyr.MessageMap{"x": "b"}) {
		t.Fatalf("inputs mutated: a=%#v b=%#v", a, b)
	}
}

func TestErrorBuilder(t *testing.T) {
	var eb zephyr.ErrorBuilder
	if !eb.Empty() || eb.Err() != nil {
		t.Fatalf("zero builder should be empty")
	}
	eb.AddIndexError(2, "bad")
	eb.AddError("2", "worse")
	eb.AddErrors("top")
	want := zephyr.MessageMap{"2": []string{"bad", "worse"}, zephyr.SchemaKey: "top"}
	if !reflect.DeepEqual(eb.Messages(), want) {
		t.Fatalf("messages = %#v, want %#v", eb.Messages(), want)
	}
	ve, ok := zephyr.AsValidationError(eb.Err())
	if !ok || !reflect.DeepEqual(ve.Messages, want) {
		t.Fatalf("Err() = %#v", eb.Err())
	}
}

func TestValidationError_Issues(t *testing.T) {
	ve := zephyr.NewValidationError(zephyr.MessageMap{
		"b":              "x",
		"a":              zephyr.MessageMap{"0": []string{"p", "q"}},
		"a/b":            "slash",
		zephyr.SchemaKey: "top",
	})
	got := ve.Issues()
	want := zephyr.Issues{
		{Path: "/", Message: "top"},
		{Path: "/a/0", Message: "p"},
		{Path: "/a/0", Message: "q"},
		{Path: "/a~1b", Message: "slash"},
		{Path: "/b", Message: "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Issues() = %#v, want %#v", got, want)
	}
}

func TestValidationError_IssuesNumericOrder(t *testing.T) {
	ve := zephyr.NewValidationError(zephyr.MessageMap{
		"10": "ten",
		"2":  zephyr.MessageMap{"11": "b", "3": "a"},
		"1":  "one",
		"x":  "name",
	})
	var paths []string
	for _, is := range ve.Issues() {
		paths = append(paths, is.Path)
	}
	want := []string{"/1", "/2/3", "/2/11", "/10", "/x"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if got := ve.Error(); !strings.HasPrefix(got, "/1: one; /2/3: a; /2/11: b") {
		t.Fatalf("summary should follow positional order: %q", got)
	}
}

func TestErrorBuilder_ScalarsBeforeKeys(t *testing.T) {
	var eb zephyr.ErrorBuilder
	eb.AddErrors("a")
	eb.AddErrors([]string{"b"})
	if got := eb.Messages(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("scalar messages = %#v", got)
	}
	eb.AddError("k", "x")
	eb.AddErrors(zephyr.MessageMap{"k": "y"})
	eb.AddErrors("c")
	want := zephyr.MessageMap{zephyr.SchemaKey: []string{"a", "b", "c"}, "k": []string{"x", "y"}}
	if got := eb.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %#v, want %#v", got, want)
	}
}

func TestValidationError_ErrorSummary(t *testing.T) {
	ve := zephyr.NewValidationError(zephyr.MessageMap{"a": "1", "b": "2", "c": "3", "d": "4"})
	s := ve.Error()
	if !strings.HasPrefix(s, "/a: 1; /b: 2; /c: 3") {
		t.Fatalf("unexpected summary %q", s)
	}
	if !strings.HasSuffix(s, "(total 4)") {
		t.Fatalf("summary should carry the total: %q", s)
	}
	if got := zephyr.NewValidationError("only").Error(); got != "/: only" {
		t.Fatalf("scalar summary = %q", got)
	}
}

func TestAsValidationError_Wrapped(t *testing.T) {
	inner := zephyr.NewValidationError("bad")
	wrapped := errors.Join(errors.New("context"), inner)
	ve, ok := zephyr.AsValidationError(wrapped)
	if !ok || ve != inner {
		t.Fatalf("expected to unwrap the validation error")
	}
	if _, ok := zephyr.AsValidationError(nil); ok {
		t.Fatalf("nil is not a validation error")
	}
}

func TestSchemaError_Unwrap(t *testing.T) {
	se := &zephyr.SchemaError{Err: zephyr.ErrNoSuchMethod, Type: "MethodField", Detail: "greet"}
	if !errors.Is(se, zephyr.ErrNoSuchMethod) {
		t.Fatalf("SchemaError should unwrap to its sentinel")
	}
	if !strings.Contains(se.Error(), `"greet"`) {
		t.Fatalf("error text should name the member: %q", se.Error())
	}
}
