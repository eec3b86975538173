package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// memoryStore is a process-local Store for tests and local development.
// Expiry is lazy: entries lapse on read. Set members are not scrubbed when
// their corresponding keys lapse, matching the Redis layout where keys and
// sets expire independently.
type memoryStore struct {
	mu   sync.Mutex
	kv   map[string]memoryEntry
	sets map[string]map[string]struct{}
	now  func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		kv:   make(map[string]memoryEntry),
		sets: make(map[string]map[string]struct{}),
		now:  time.Now,
	}
}

// NewMemoryStoreWithClock builds a store with an injectable clock for expiry tests.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memoryStore{
		kv:   make(map[string]memoryEntry),
		sets: make(map[string]map[string]struct{}),
		now:  now,
	}
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.kv[key] = entry
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.kv[key]
	if !ok {
		return "", false, nil
	}
	if entry.expired(s.now()) {
		delete(s.kv, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *memoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *memoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.kv[key]
	if !ok || entry.expired(s.now()) {
		return nil
	}
	entry.expiresAt = s.now().Add(ttl)
	s.kv[key] = entry
	return nil
}

func (s *memoryStore) SAdd(_ context.Context, set, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.sets[set]
	if !ok {
		members = make(map[string]struct{})
		s.sets[set] = members
	}
	members[member] = struct{}{}
	return nil
}

func (s *memoryStore) SRem(_ context.Context, set, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if members, ok := s.sets[set]; ok {
		delete(members, member)
	}
	return nil
}

func (s *memoryStore) SMembers(_ context.Context, set string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.sets[set]))
	for member := range s.sets[set] {
		members = append(members, member)
	}
	return members, nil
}

func (s *memoryStore) SCard(_ context.Context, set string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sets[set])), nil
}
