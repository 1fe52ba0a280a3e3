// Package ptrx converts between values and pointers for optional request fields.
package ptrx

import "strings"

// Of returns a pointer to v.
func Of[T any](v T) *T {
	return &v
}

// Value returns the value p points to, or the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// NonEmpty returns nil for a blank string and a pointer to the trimmed value otherwise.
func NonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// TrimmedValue dereferences p and trims surrounding whitespace.
func TrimmedValue(p *string) string {
	return strings.TrimSpace(Value(p))
}
