// Package validation holds small helpers for working with the pointer
// fields the repository update/filter structs use.
package validation

import "time"

func StringPtr(s string) *string {
	return &s
}

// StringPtrIfNotEmpty returns a pointer to s, or nil when s is empty.
func StringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

func IntPtr(i int) *int {
	return &i
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func GetStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func GetStringOrDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func GetBoolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func GetTimeOrEmpty(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// GetTimeOrNow returns the UTC time value, or the current UTC time when nil.
func GetTimeOrNow(t *time.Time) time.Time {
	if t == nil {
		return time.Now().UTC()
	}
	return t.UTC()
}
