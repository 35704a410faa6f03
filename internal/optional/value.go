// Package optional provides a tri-state field type for request payloads:
// a value may be absent from the document, explicitly null, or set.
package optional

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	absent state = iota
	null
	set
)

// Value is a field that distinguishes "not sent" from "sent as null".
// The zero Value is absent.
//
// Use the `omitzero` struct tag when encoding so absent values are left out.
type Value[T any] struct {
	v     T
	state state
}

// Some returns a Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, state: set}
}

// Null returns an explicitly null Value.
func Null[T any]() Value[T] {
	return Value[T]{state: null}
}

// FromPtr returns Some(*p) when p is non-nil and Null otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// IsSet reports whether a concrete value is held.
func (o Value[T]) IsSet() bool { return o.state == set }

// IsNull reports whether the value was explicitly null.
func (o Value[T]) IsNull() bool { return o.state == null }

// IsPresent reports whether the key appeared at all, null included.
func (o Value[T]) IsPresent() bool { return o.state != absent }

// IsZero reports absence; it lets encoding/json honour omitzero.
func (o Value[T]) IsZero() bool { return o.state == absent }

// Get returns the held value and whether there was one.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.state == set
}

// OrElse returns the held value, or def when absent or null.
func (o Value[T]) OrElse(def T) T {
	if o.state == set {
		return o.v
	}
	return def
}

// Ptr returns a pointer to a copy of the held value, or nil.
func (o Value[T]) Ptr() *T {
	if o.state != set {
		return nil
	}
	v := o.v
	return &v
}

// UnmarshalJSON is only invoked when the key is present, so an absent key
// keeps the zero (absent) state.
func (o *Value[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.v, o.state = zero, null
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.v, o.state = v, set
	return nil
}

// MarshalJSON writes null for both absent and null values.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if o.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
