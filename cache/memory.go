package cache

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryEntry struct {
	Entry
	expiresAt time.Time
}

// MemoryStore is process-wide, expired entries are dropped on access
type MemoryStore struct {
	entries cmap.ConcurrentMap[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: cmap.New[memoryEntry](),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool) {
	e, ok := s.entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		s.entries.RemoveCb(key, func(_ string, v memoryEntry, exists bool) bool {
			return exists && v.expiresAt.Equal(e.expiresAt)
		})
		return Entry{}, false
	}
	return e.Entry, true
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	s.entries.Set(key, memoryEntry{Entry: entry, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.entries.Clear()
	return nil
}

// Len counts entries, expired ones included
func (s *MemoryStore) Len() int {
	return s.entries.Count()
}
