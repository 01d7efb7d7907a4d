package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"svitlobot/internal/kv"
)

var _ kv.Store = (*Store)(nil)

type entry struct {
	value     string
	expiresAt time.Time // zero = no expiry
}

// Store is an in-process kv.Store used for tests and local runs.
// Expiry is lazy: expired keys disappear on read and scan.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func New() *Store {
	return &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) List(ctx context.Context, prefix, cursor string, limit int) ([]string, string, bool, error) {
	if limit < 1 {
		limit = 1
	}
	s.mu.RLock()
	all := make([]string, 0, len(s.data))
	for k, e := range s.data {
		if strings.HasPrefix(k, prefix) && !s.expired(e) {
			all = append(all, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(all)

	start := 0
	if cursor != "" {
		start = sort.SearchStrings(all, cursor)
		if start < len(all) && all[start] == cursor {
			start++
		}
	}
	end := start + limit
	if end >= len(all) {
		return all[start:], "", true, nil
	}
	keys := all[start:end]
	return keys, keys[len(keys)-1], false, nil
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
