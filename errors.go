package zephyr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error-kind names used by the built-in types. Each kind must have a message
// template, either from the i18n translator or from WithMessages.
const (
	KindRequired      = "required"
	KindInvalidType   = "invalid_type"
	KindInvalidLength = "invalid_length"
	KindUnknown       = "unknown"
)

// SchemaKey is the reserved MessageMap key holding messages that belong to the
// node itself rather than to one of its children.
const SchemaKey = "_schema"

// Sentinel errors describing schema authoring defects. They are carried by a
// *SchemaError panic; use errors.Is on the recovered value.
var (
	ErrMissingMessage = errors.New("error message template does not exist")
	ErrNoSuchMethod   = errors.New("object does not have method")
	ErrNotCallable    = errors.New("value is not callable")
	ErrInvalidField   = errors.New("field is neither a Field nor a Type")
)

// MessageMap is a keyed level of the message tree. Values are string,
// []string or MessageMap.
type MessageMap map[string]any

// ValidationError is the data-dependent failure returned by Load and Dump.
// Messages is a string, a []string or a MessageMap mirroring the schema shape.
type ValidationError struct {
	Messages any
}

// NewValidationError builds a ValidationError carrying a single message or a
// message tree.
func NewValidationError(messages any) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Error summarizes the first few issues.
func (e *ValidationError) Error() string {
	iss := e.Issues()
	if len(iss) == 0 {
		return "validation failed"
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", iss[i].Path, iss[i].Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Issues flattens the message tree into path-addressed entries sorted by path,
// with array indexes in numeric order.
func (e *ValidationError) Issues() Issues {
	var out Issues
	flatten(rootPath(), e.Messages, &out)
	sort.SliceStable(out, func(i, j int) bool { return pointerLess(out[i].Path, out[j].Path) })
	return out
}

// Issue is a single flattened validation message.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /items/2/price).
	Message string `json:"message"`
}

// Issues is a flattened view of a message tree.
type Issues []Issue

func flatten(p pathRef, msgs any, out *Issues) {
	switch m := msgs.(type) {
	case nil:
	case string:
		*out = append(*out, Issue{Path: p.Pointer(), Message: m})
	case []string:
		for _, s := range m {
			*out = append(*out, Issue{Path: p.Pointer(), Message: s})
		}
	case MessageMap:
		for k, v := range m {
			if k == SchemaKey {
				flatten(p, v, out)
				continue
			}
			flatten(p.Field(k), v, out)
		}
	default:
		*out = append(*out, Issue{Path: p.Pointer(), Message: fmt.Sprint(m)})
	}
}

// AsValidationError extracts a *ValidationError using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// SchemaError reports a malformed schema. It is raised with panic because it
// is a programming error in the schema, not a property of the input data.
type SchemaError struct {
	Err    error  // One of the Err* sentinels.
	Type   string // Descriptor name, e.g. "Integer".
	Detail string // Message kind, method name or field name.
}

func (e *SchemaError) Error() string {
	switch {
	case e.Type != "" && e.Detail != "":
		return fmt.Sprintf("zephyr: %s: %q in %s", e.Err.Error(), e.Detail, e.Type)
	case e.Detail != "":
		return fmt.Sprintf("zephyr: %s: %q", e.Err.Error(), e.Detail)
	default:
		return "zephyr: " + e.Err.Error()
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaPanic(sentinel error, typeName, detail string) {
	panic(&SchemaError{Err: sentinel, Type: typeName, Detail: detail})
}

// MergeMessages combines two message trees without mutating either:
// strings and lists concatenate, maps merge per key, and a non-map merged
// with a map lands under SchemaKey.
func MergeMessages(a, b any) any {
	if isEmptyMessages(a) {
		return b
	}
	if isEmptyMessages(b) {
		return a
	}
	am, aIsMap := a.(MessageMap)
	bm, bIsMap := b.(MessageMap)
	switch {
	case aIsMap && bIsMap:
		out := make(MessageMap, len(am)+len(bm))
		for k, v := range am {
			out[k] = v
		}
		for k, v := range bm {
			out[k] = MergeMessages(out[k], v)
		}
		return out
	case aIsMap:
		out := copyMap(am)
		out[SchemaKey] = MergeMessages(am[SchemaKey], b)
		return out
	case bIsMap:
		out := copyMap(bm)
		out[SchemaKey] = MergeMessages(a, bm[SchemaKey])
		return out
	}
	return append(messageList(a), messageList(b)...)
}

func isEmptyMessages(m any) bool {
	switch t := m.(type) {
	case nil:
		return true
	case []string:
		return len(t) == 0
	case MessageMap:
		return len(t) == 0
	}
	return false
}

func messageList(m any) []string {
	switch t := m.(type) {
	case []string:
		return append([]string(nil), t...)
	case string:
		return []string{t}
	default:
		return []string{fmt.Sprint(t)}
	}
}

func copyMap(m MessageMap) MessageMap {
	out := make(MessageMap, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
