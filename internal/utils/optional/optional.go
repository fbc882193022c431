// Package optional models JSON fields of a partial update where "absent" and
// "explicitly null" have different meanings.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state value: absent (Set == false), explicitly null
// (Set && Null) or present with a value (Set && !Null).
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a present field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns an explicitly cleared field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Absent returns a field that was not supplied.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// HasValue reports whether the field was supplied with a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Ptr resolves the field against the current value: absent keeps current,
// null clears it, a value replaces it.
func (f Field[T]) Ptr(current *T) *T {
	if !f.Set {
		return current
	}
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked when the key is present in the payload, which
// is what distinguishes absent from null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON renders absent and null fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
