package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/storage"
	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds a single snapshot read when a session is first used.
const DefaultLoadTimeout = 5 * time.Second

type sessionEntry struct {
	store    *CartStore
	lastUsed time.Time
}

// Sessions hosts one CartStore per session id. Stores are created lazily from
// the session's snapshot and evicted after being idle; eviction loses nothing
// because every successful mutation is already persisted.
type Sessions struct {
	baseKey     string
	loadTimeout time.Duration
	inventory   inventory.Lookup
	storage     storage.Storage
	notifier    notify.Notifier

	mu      sync.Mutex
	entries map[string]*sessionEntry
	sfg     singleflight.Group // one snapshot load per session

	stopCleanup chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewSessions(baseKey string, lookup inventory.Lookup, store storage.Storage, notifier notify.Notifier) *Sessions {
	return &Sessions{
		baseKey:     baseKey,
		loadTimeout: DefaultLoadTimeout,
		inventory:   lookup,
		storage:     store,
		notifier:    notifier,
		entries:     make(map[string]*sessionEntry),
		stopCleanup: make(chan struct{}),
	}
}

// Key is the snapshot key for sessionID.
func (s *Sessions) Key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.baseKey, sessionID)
}

// Get returns the session's store, loading it on first use. A failed load is
// returned and not cached, so the next call reads the snapshot again.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*CartStore, error) {
	if store, ok := s.touch(sessionID); ok {
		return store, nil
	}

	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		if store, ok := s.touch(sessionID); ok {
			return store, nil
		}

		// Detached from the request: every caller waiting on this load shares it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		store, err := NewCartStore(loadCtx, s.Key(sessionID), s.inventory, s.storage, s.notifier)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.entries[sessionID] = &sessionEntry{store: store, lastUsed: time.Now()}
		s.mu.Unlock()
		return store, nil
	})
	if err != nil {
		log.Printf("load cart session error: %v \n", err)
		return nil, err
	}

	return v.(*CartStore), nil
}

func (s *Sessions) touch(sessionID string) (*CartStore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastUsed = time.Now()
	return entry.store, true
}

// Len reports how many sessions are held in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// EvictIdle drops sessions unused for longer than idle and returns how many were
// dropped. A store with a mutation in flight is kept until the next pass, so a
// reload never reads a snapshot that mutation is about to replace.
func (s *Sessions) EvictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	evicted := 0
	for id, entry := range s.entries {
		if !entry.lastUsed.Before(cutoff) {
			continue
		}
		if !entry.store.opMu.TryLock() {
			continue
		}
		delete(s.entries, id)
		entry.store.opMu.Unlock()
		evicted++
	}
	return evicted
}

// StartCleanup runs EvictIdle every interval until Close.
func (s *Sessions) StartCleanup(interval, idle time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.EvictIdle(idle)
			case <-s.stopCleanup:
				return
			}
		}
	}()
}

// Close stops the background cleanup and waits for it to finish
func (s *Sessions) Close() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
	s.wg.Wait()
}
