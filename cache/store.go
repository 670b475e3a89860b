// Package cache holds rendered pages for a fixed time. Entries are never invalidated by
// writes, only by expiry or an explicit Clear.
package cache

import (
	"context"
	"time"
)

// Entry is a cached response
type Entry struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type Store interface {
	// Get returns false on a miss or an expired entry
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Clear(ctx context.Context) error
}
