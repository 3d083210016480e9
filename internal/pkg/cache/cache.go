package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is the keyed cache port. All access to shared cached state goes
// through this interface; nothing reads it ambiently.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// DeletePattern removes every key matching the pattern, where '*'
	// matches any suffix/segment. Returns the number of keys removed.
	DeletePattern(ctx context.Context, pattern string) int
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process TTL cache with pattern delete.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	done    chan struct{}
	once    sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *MemoryStore) DeletePattern(_ context.Context, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.entries {
		if matchPattern(pattern, key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// matchPattern supports '*' wildcards between literal segments, the same
// glob subset redis KEYS offers for our key templates.
func matchPattern(pattern, key string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == key
	}
	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	key = key[len(parts[0]):]
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(key, parts[i])
		if idx < 0 {
			return false
		}
		key = key[idx+len(parts[i]):]
	}
	return strings.HasSuffix(key, parts[len(parts)-1])
}
