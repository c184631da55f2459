package zephyr

import "strconv"

// ErrorBuilder accumulates keyed failures during one traversal of a composite
// node. A zero ErrorBuilder is ready to use; never share one between calls.
//
// Keyed failures are merged in place at their key, so recording n of them
// costs O(n) rather than copying the whole tree on every call.
type ErrorBuilder struct {
	m      MessageMap // keyed level, allocated on first keyed failure
	scalar any        // node-level messages recorded before m exists
}

// AddError records msgs under key, merging with anything already recorded there.
func (b *ErrorBuilder) AddError(key string, msgs any) {
	if isEmptyMessages(msgs) {
		return
	}
	b.keyed()
	b.m[key] = MergeMessages(b.m[key], msgs)
}

// AddIndexError records msgs under the decimal rendering of a position.
func (b *ErrorBuilder) AddIndexError(idx int, msgs any) {
	b.AddError(strconv.Itoa(idx), msgs)
}

// AddErrors merges a whole message tree at this level. A non-map tree belongs
// to the node itself and ends up under SchemaKey once keyed failures exist.
func (b *ErrorBuilder) AddErrors(msgs any) {
	if isEmptyMessages(msgs) {
		return
	}
	if mm, ok := msgs.(MessageMap); ok {
		b.keyed()
		for k, v := range mm {
			b.m[k] = MergeMessages(b.m[k], v)
		}
		return
	}
	if b.m != nil {
		b.m[SchemaKey] = MergeMessages(b.m[SchemaKey], msgs)
		return
	}
	b.scalar = MergeMessages(b.scalar, msgs)
}

func (b *ErrorBuilder) keyed() {
	if b.m != nil {
		return
	}
	b.m = MessageMap{}
	if !isEmptyMessages(b.scalar) {
		b.m[SchemaKey] = b.scalar
	}
	b.scalar = nil
}

// Empty reports whether nothing has been recorded.
func (b *ErrorBuilder) Empty() bool { return isEmptyMessages(b.Messages()) }

// Messages returns the accumulated tree (nil when empty).
func (b *ErrorBuilder) Messages() any {
	if b.m != nil {
		return b.m
	}
	return b.scalar
}

// Err returns a *ValidationError with the accumulated tree, or nil.
func (b *ErrorBuilder) Err() error {
	if b.Empty() {
		return nil
	}
	return &ValidationError{Messages: b.Messages()}
}
