package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and as the fallback
// when Redis is not configured. Counters are created lazily and only
// removed when their window lapses and the key is touched again; idle
// identities therefore accumulate (known limitation, same as the
// production store).
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	data      []byte
	count     int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]memoryEntry),
		now:    time.Now,
	}
}

func (s *MemoryStore) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	s.mu.Lock()
	entry, ok := s.values[key]
	if ok && s.now().After(entry.expiresAt) {
		delete(s.values, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok || entry.data == nil {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.values[key]
	if !ok || s.now().After(entry.expiresAt) {
		entry = memoryEntry{count: 0, expiresAt: s.now().Add(window)}
	}
	entry.count++
	s.values[key] = entry
	return entry.count, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// SetClock overrides the time source. Test helper.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }
