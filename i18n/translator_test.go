package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg, ok := Template("required"); !ok || msg != "Value is required" {
		t.Fatalf("expected english template, got %q (ok=%v)", msg, ok)
	}

	SetLanguage("ja")
	if msg, _ := Template("required"); msg == "Value is required" {
		t.Fatalf("expected japanese template, got %q", msg)
	}

	// unknown languages fall back to en
	SetLanguage("xx")
	if msg, _ := Template("required"); msg != "Value is required" {
		t.Fatalf("expected fallback to english, got %q", msg)
	}
}

type upperTranslator struct{}

func (upperTranslator) Template(kind string) (string, bool) {
	if kind == "required" {
		return "REQUIRED", true
	}
	return "", false
}

func TestSetTranslator(t *testing.T) {
	SetTranslator(upperTranslator{})
	defer SetTranslator(nil)

	if msg, _ := Template("required"); msg != "REQUIRED" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
	if _, ok := Template("invalid_type"); ok {
		t.Fatalf("custom translator should not know invalid_type")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		tmpl   string
		params map[string]any
		want   string
	}{
		{"Value should be {expected}", map[string]any{"expected": "integer"}, "Value should be integer"},
		{"Value length should be {expected_length}", map[string]any{"expected_length": 2}, "Value length should be 2"},
		{"No params", nil, "No params"},
		{"Keeps {unknown}", map[string]any{"x": 1}, "Keeps {unknown}"},
	}
	for _, c := range cases {
		if got := Format(c.tmpl, c.params); got != c.want {
			t.Errorf("Format(%q) = %q, want %q", c.tmpl, got, c.want)
		}
	}
}
