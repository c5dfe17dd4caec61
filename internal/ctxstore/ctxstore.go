// Package ctxstore stores request-scoped values, such as the trace id, in a
// context.Context under typed string keys.
package ctxstore

import "context"

type Key string

func (k Key) String() string {
	return string(k)
}

func With[T any](ctx context.Context, key Key, value T) context.Context {
	return context.WithValue(ctx, key, value)
}

func From[T any](ctx context.Context, key Key) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// FromOr returns the value stored under key or fallback when it is absent.
func FromOr[T any](ctx context.Context, key Key, fallback T) T {
	if value, ok := From[T](ctx, key); ok {
		return value
	}
	return fallback
}
