package cache

import (
	"context"
	"sync"
	"time"
)

// entry represents a cached positive lookup with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryExistenceStore implements ExistenceStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryExistenceStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryExistenceStore creates a new in-memory existence store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryExistenceStore() *InMemoryExistenceStore {
	store := &InMemoryExistenceStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkExists records that the key exists, for the given TTL
func (s *InMemoryExistenceStore) MarkExists(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{expiresAt: time.Now().Add(ttl)}
	return nil
}

// Exists reports whether a non-expired positive entry is cached
func (s *InMemoryExistenceStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as a miss
	}
	return true, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryExistenceStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryExistenceStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryExistenceStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryExistenceStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryExistenceStore implements ExistenceStore
var _ ExistenceStore = (*InMemoryExistenceStore)(nil)
