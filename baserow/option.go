package baserow

import (
	"bytes"
	"encoding/json"
)

// Option holds a value that may be absent from a row payload.
// The zero value is None. IsZero lets `omitzero` drop absent fields on write.
type Option[T any] struct {
	value T
	valid bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, valid: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.valid
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.valid
}

// IsZero reports whether the Option is absent.
func (o Option[T]) IsZero() bool {
	return !o.valid
}

// OrElse returns the value, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
