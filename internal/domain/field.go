package domain

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldOmitted fieldState = iota
	fieldNull
	fieldValue
)

// Field is a request value that distinguishes an absent key, an explicit
// JSON null and a concrete value. The zero Field is omitted.
type Field[T any] struct {
	state fieldState
	value T
}

// Omitted returns a Field with no value supplied.
func Omitted[T any]() Field[T] { return Field[T]{} }

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] { return Field[T]{state: fieldNull} }

// Value returns a Field holding v.
func Value[T any](v T) Field[T] { return Field[T]{state: fieldValue, value: v} }

func (f Field[T]) IsOmitted() bool { return f.state == fieldOmitted }
func (f Field[T]) IsNull() bool    { return f.state == fieldNull }
func (f Field[T]) HasValue() bool  { return f.state == fieldValue }

// Get returns the value and whether one was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldValue
}

// UnmarshalJSON is only called for keys present in the document, so an
// absent key leaves the Field omitted.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = fieldNull, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state, f.value = fieldValue, v
	return nil
}
