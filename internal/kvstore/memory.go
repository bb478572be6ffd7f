// Package kvstore – in-process store.
//
// The memory store keeps counters and fingerprints in a mutex-guarded map
// with lazy TTL eviction. Expired entries are dropped on access and swept
// opportunistically after a threshold of lookups to bound memory, the same
// approach used by the HTTP layer's per-visitor rate limiter.
//
// Correct only within a single process; multi-process deployments must use
// the Redis store so limits hold globally.
package kvstore

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the number of operations between opportunistic sweeps
// of expired entries.
const sweepThreshold = 5000

// entry is one TTL-bound counter or fingerprint.
type entry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process Store implementation. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ops     uint64

	// now is swapped in tests to control window expiry.
	now func() time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// IncrWithLimit implements Store. The compare and the increment happen under
// one lock acquisition, so the counter can never exceed limit regardless of
// caller concurrency.
func (m *MemoryStore) IncrWithLimit(_ context.Context, key string, limit int64, ttl time.Duration) (bool, int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)

	e, ok := m.entries[key]
	if ok && !e.expiresAt.After(now) {
		delete(m.entries, key)
		ok = false
	}
	if !ok {
		if limit < 1 {
			return false, 0, nil
		}
		m.entries[key] = &entry{count: 1, expiresAt: now.Add(ttl)}
		return true, 1, nil
	}
	if e.count+1 > limit {
		return false, e.count, nil
	}
	e.count++
	return true, e.count, nil
}

// SetNX implements Store. The existence check and the insert happen under
// one lock acquisition. An existing live key is left untouched, so its
// original TTL keeps running.
func (m *MemoryStore) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)

	if e, ok := m.entries[key]; ok && e.expiresAt.After(now) {
		return false, nil
	}
	m.entries[key] = &entry{count: 1, expiresAt: now.Add(ttl)}
	return true, nil
}

// sweepLocked evicts expired entries after sweepThreshold operations.
// Callers must hold mu.
func (m *MemoryStore) sweepLocked(now time.Time) {
	m.ops++
	if m.ops < sweepThreshold {
		return
	}
	for k, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, k)
		}
	}
	m.ops = 0
}
