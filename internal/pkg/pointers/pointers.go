package pointers

import "time"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func String(v string) *string     { return &v }
func Int(v int) *int              { return &v }
func Bool(v bool) *bool           { return &v }
func Time(v time.Time) *time.Time { return &v }

// Deref returns the value behind p, or zero when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
