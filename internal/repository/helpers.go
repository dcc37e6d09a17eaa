package repository

import (
	"context"
	"fmt"
	"time"
)

const (
	kindString = "string"
	kindInt    = "int"
)

// MustGet is Get with absence reported as ErrNotFound.
func MustGet(ctx context.Context, s KVStore, key string) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	return v, nil
}

// GetIntOr returns the integer stored at key, or def when the key is absent.
func GetIntOr(ctx context.Context, s KVStore, key string, def int) (int, error) {
	v, ok, err := s.GetInt(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// formatTime renders t as RFC3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
