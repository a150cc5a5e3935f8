// Package collection provides generic, functional-style helpers for slices.
//
// Every helper returns a fresh slice and never mutates its input, which is
// what the reducer relies on to keep state transitions free of aliasing:
//
//	items := collection.Reject(cart.Items, func(it state.CartItem) bool { return it.ID == id })
//	count := collection.SumInt(items, func(it state.CartItem) int { return it.Qty })
package collection

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true. The result is
// never nil, so it encodes as [] rather than null.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reject returns elements of s for which fn returns false (inverse of Filter).
func Reject[T any](s []T, fn func(T) bool) []T {
	return Filter(s, func(v T) bool { return !fn(v) })
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// IndexOf returns the index of the first element matching fn, or -1.
func IndexOf[T any](s []T, fn func(T) bool) int {
	for i, v := range s {
		if fn(v) {
			return i
		}
	}
	return -1
}

// Contains reports whether any element of s satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	return IndexOf(s, fn) >= 0
}

// Upsert returns a copy of s where the first element matching fn is replaced
// by v, or v appended when nothing matches.
func Upsert[T any](s []T, v T, fn func(T) bool) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	if i := IndexOf(out, fn); i >= 0 {
		out[i] = v
		return out
	}
	return append(out, v)
}

// Reduce folds s into a single value using fn, starting with initial.
func Reduce[T, R any](s []T, initial R, fn func(carry R, item T) R) R {
	carry := initial
	for _, v := range s {
		carry = fn(carry, v)
	}
	return carry
}

// SumInt sums integer values extracted by fn.
func SumInt[T any](s []T, fn func(T) int) int {
	return Reduce(s, 0, func(acc int, v T) int { return acc + fn(v) })
}

// UniqueBy reports whether every element of s has a distinct key.
func UniqueBy[T any, K comparable](s []T, fn func(T) K) bool {
	seen := make(map[K]struct{}, len(s))
	for _, v := range s {
		k := fn(v)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}
