package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by the Must* helpers when a key is absent.
	ErrNotFound = errors.New("not found")
	// ErrWrongKind is returned by GetInt when the stored value was written as text.
	ErrWrongKind = errors.New("value kind mismatch")
	// ErrNoChange may be returned by an UpdateFunc to leave the stored value untouched.
	ErrNoChange = errors.New("no change")
)

// UpdateFunc computes the next value of a key from its current value.
// ok reports whether the key existed.
type UpdateFunc func(cur string, ok bool) (string, error)

// KVStore is a flat, durable namespace of string keys to string or integer
// values. Single-key writes are atomic; Update is an atomic read-modify-write.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetInt(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key, value string) error
	SetInt(ctx context.Context, key string, value int) error
	Delete(ctx context.Context, key string) error
	// Update runs fn against the current value and stores its result in the
	// same transaction. fn must not call back into the store.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Clear removes every key.
	Clear(ctx context.Context) error
	// Keys lists keys with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
