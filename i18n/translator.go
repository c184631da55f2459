package i18n

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Translator retrieves localized message templates for error kinds.
// Templates reference parameters as {name}, e.g. "Value should be {expected}".
type Translator interface {
	Template(kind string) (string, bool)
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "Value should be {expected}",
		"required":       "Value is required",
		"invalid_length": "Value length should be {expected_length}",
		"unknown":        "Unknown field",
		"too_small":      "Value should be at least {min}",
		"too_big":        "Value should be at most {max}",
		"too_short":      "Length should be at least {min}",
		"too_long":       "Length should be at most {max}",
		"invalid_choice": "Value should be one of {choices}",
		"forbidden":      "Value should not be one of {choices}",
		"pattern":        "Value should match {pattern}",
		"invalid":        "Invalid value",
	},
	"ja": {
		"invalid_type":   "値は{expected}である必要があります",
		"required":       "値は必須です",
		"invalid_length": "値の長さは{expected_length}である必要があります",
		"unknown":        "未知のフィールドです",
		"too_small":      "値は{min}以上である必要があります",
		"too_big":        "値は{max}以下である必要があります",
		"too_short":      "長さは{min}以上である必要があります",
		"too_long":       "長さは{max}以下である必要があります",
		"invalid_choice": "値は{choices}のいずれかである必要があります",
		"forbidden":      "値は{choices}のいずれでもない必要があります",
		"pattern":        "値は{pattern}に一致する必要があります",
		"invalid":        "不正な値です",
	},
}

func (t dictTranslator) Template(kind string) (string, bool) {
	msg, ok := dictionaries[t.lang][kind]
	return msg, ok
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// Template fetches the template for kind using the current Translator.
func Template(kind string) (string, bool) { return current.Load().tr.Template(kind) }

// Format substitutes {name} placeholders in tmpl with params. Unknown
// placeholders are left untouched.
func Format(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
