// SPDX-License-Identifier: GPL-3.0-only
package ty

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Opt is an optional value that remembers whether it was set explicitly,
// so config layers can be merged without zero values overriding defaults.
type Opt[T any] struct {
	Value T
	Set   bool
	Valid bool
}

func OptWrap[T any](value T) Opt[T] {
	return Opt[T]{
		Value: value,
		Set:   true,
		Valid: true,
	}
}

// Merge takes the value of or when it was set.
func (i *Opt[T]) Merge(or *Opt[T]) {
	if or.Set {
		i.Value = or.Value
		i.Set = or.Set
		i.Valid = or.Valid
	}
}

// Or returns the wrapped value, or def when nothing valid was set.
func (i Opt[T]) Or(def T) T {
	if i.Set && i.Valid {
		return i.Value
	}
	return def
}

func (i *Opt[T]) S(v T) {
	i.Value = v
	i.Set = true
	i.Valid = true
}

func (i *Opt[T]) U() {
	var zero T
	i.Value = zero
	i.Set = false
	i.Valid = false
}

func (i *Opt[T]) UnmarshalJSON(data []byte) error {
	i.Set = true

	if string(data) == "null" {
		i.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &i.Value); err != nil {
		return err
	}

	i.Valid = true
	return nil
}

func (i Opt[T]) MarshalJSON() ([]byte, error) {
	if !i.Set || !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// UnmarshalYAML implements yaml.Unmarshaler for Opt[T]. yaml.v3 never calls
// it for a null node, so `key: null` leaves the option unset like an omitted
// key.
func (i *Opt[T]) UnmarshalYAML(value *yaml.Node) error {
	i.Set = true
	var v T
	if err := value.Decode(&v); err != nil {
		return err
	}
	i.Value = v
	i.Valid = true
	return nil
}

// MarshalYAML implements yaml.Marshaler for Opt[T]
func (i Opt[T]) MarshalYAML() (interface{}, error) {
	if !i.Set || !i.Valid {
		return nil, nil
	}
	return i.Value, nil
}

// IsZero lets yaml omitempty skip unset options.
func (i Opt[T]) IsZero() bool {
	return !i.Set
}
