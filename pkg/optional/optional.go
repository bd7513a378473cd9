// Package optional provides an explicit present/absent string value.
// Every shared and domain attribute in the citizen model uses this type
// so that absence is a first-class state rather than a missing map key
// or an empty string with implied meaning.
package optional

import (
	"encoding/json"
	"strings"
)

// String is an optional string value. The zero value is absent.
type String struct {
	value   string
	present bool
}

// Of returns a present String holding value.
func Of(value string) String {
	return String{value: value, present: true}
}

// None returns an absent String.
func None() String {
	return String{}
}

// IsPresent reports whether a value is present.
func (s String) IsPresent() bool {
	return s.present
}

// IsBlank reports whether the value is absent or consists only of whitespace.
// Blank values carry no information and never count as resolution votes.
func (s String) IsBlank() bool {
	return !s.present || strings.TrimSpace(s.value) == ""
}

// Value returns the held value and whether it is present.
func (s String) Value() (string, bool) {
	return s.value, s.present
}

// OrEmpty returns the held value, or "" when absent.
func (s String) OrEmpty() string {
	return s.value
}

// Or returns the held value, or fallback when absent.
func (s String) Or(fallback string) string {
	if s.present {
		return s.value
	}
	return fallback
}

// Equal reports whether two optional strings are both absent or hold the
// same value.
func (s String) Equal(other String) bool {
	return s == other
}

// String implements fmt.Stringer. Absent values render as an empty string.
func (s String) String() string {
	return s.value
}

// MarshalJSON encodes the value as a JSON string, or null when absent.
func (s String) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes a JSON string or null.
func (s *String) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = None()
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Of(v)
	return nil
}

// MarshalYAML encodes the value as a YAML string, or null when absent.
func (s String) MarshalYAML() (any, error) {
	if !s.present {
		return nil, nil
	}
	return s.value, nil
}

// UnmarshalYAML decodes a YAML string or null.
func (s *String) UnmarshalYAML(unmarshal func(any) error) error {
	var v *string
	if err := unmarshal(&v); err != nil {
		return err
	}
	if v == nil {
		*s = None()
		return nil
	}
	*s = Of(*v)
	return nil
}
