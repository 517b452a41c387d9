// Package session stores short-lived key/value pairs with an expiry, used to
// map access tokens to user ids.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session key not found")
	ErrClosed   = errors.New("session store closed")
)

// Store is a key/value cache whose entries expire after their ttl.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrNotFound for absent and expired keys.
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
