// Package storage provides the string-keyed store that holds the roster
// payload. It plays the part a browser's local storage plays for a
// single-page app: whole values in, whole values out.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing medium cannot be reached.
var ErrUnavailable = errors.New("storage: unavailable")

// KV is a synchronous string-keyed store.
type KV interface {
	// Get returns the value under key. ok is false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
}
