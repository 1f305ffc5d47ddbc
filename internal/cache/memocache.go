// Package cache provides the process-local response cache and in-flight
// request deduplicator that sit in front of every upstream network call.
package cache

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"priceKart/pkg/logger"
	"priceKart/pkg/metrics"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	payload    T
	insertedAt time.Time
}

// Memo is a bounded, time-expiring store keyed by normalized request
// signature, layered with single-flight deduplication: concurrent callers
// for the same signature share one outstanding fetch.
//
// Eviction is insertion-order, not LRU. A hot entry near capacity can be
// evicted ahead of a cold one; that trade-off is intentional.
type Memo[T any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry[T]
	order    []string

	group singleflight.Group

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Memo and starts its background sweep when sweepInterval is
// positive. Close stops the sweeper.
func New[T any](ttl time.Duration, capacity int, sweepInterval time.Duration) *Memo[T] {
	m := &Memo[T]{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry[T]),
		stop:     make(chan struct{}),
	}

	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}

	return m
}

// GetOrFetch returns the cached payload for sig when a live entry exists,
// otherwise invokes fetch, at most once per signature across concurrent
// callers. A successful fetch is cached; a failed one is not, and its error
// is delivered to every waiting caller.
func (m *Memo[T]) GetOrFetch(ctx context.Context, sig string, fetch func(ctx context.Context) (T, error)) (T, error) {
	key := digest(sig)

	if v, ok := m.lookup(key); ok {
		metrics.CacheHits.Inc()
		return v, nil
	}
	metrics.CacheMisses.Inc()

	v, err, _ := m.group.Do(key, func() (any, error) {
		// A caller that queued behind a just-finished flight may find the
		// value already stored.
		if v, ok := m.lookup(key); ok {
			return v, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		m.store(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Contains reports whether a live entry exists for sig without touching it.
func (m *Memo[T]) Contains(sig string) bool {
	key := digest(sig)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return ok && time.Since(e.insertedAt) <= m.ttl
}

// Len returns the number of physically present entries, expired included.
func (m *Memo[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep removes every expired entry. Called on a timer, and available to
// callers that want a deterministic cleanup point.
func (m *Memo[T]) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.order[:0]
	removed := 0
	for _, key := range m.order {
		e, ok := m.entries[key]
		if !ok {
			continue
		}
		if time.Since(e.insertedAt) > m.ttl {
			delete(m.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	m.order = kept

	if removed > 0 {
		logger.Debug("cache sweep removed expired entries", "removed", removed, "remaining", len(m.entries))
	}
}

func (m *Memo[T]) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// lookup treats expired entries as absent and evicts them lazily,
// independent of the background sweep.
func (m *Memo[T]) lookup(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	if time.Since(e.insertedAt) > m.ttl {
		delete(m.entries, key)
		m.removeFromOrder(key)
		var zero T
		return zero, false
	}

	return e.payload, true
}

func (m *Memo[T]) store(key string, payload T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		// Re-insert counts as a fresh insertion for eviction purposes.
		m.removeFromOrder(key)
	}

	for len(m.entries) >= m.capacity && len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	m.entries[key] = entry[T]{payload: payload, insertedAt: time.Now()}
	m.order = append(m.order, key)
}

func (m *Memo[T]) removeFromOrder(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *Memo[T]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}

// digest keeps internal keys bounded regardless of query length.
func digest(sig string) string {
	sum := blake2b.Sum256([]byte(sig))
	return hex.EncodeToString(sum[:])
}
