package security

import (
	"sync"
	"time"

	"portfolio-backend/internal/models"
)

// RateLimitStore is the backing store for per-identifier rate limit
// state. The default implementation is in-process; a multi-instance
// deployment swaps in a shared store behind the same interface.
type RateLimitStore interface {
	Get(identifier string) (*models.RateLimitEntry, bool)
	Set(identifier string, entry *models.RateLimitEntry)
	Delete(identifier string)
	Sweep(now time.Time) int
}

// AuthAttemptStore is the backing store for per-identifier auth
// failure state.
type AuthAttemptStore interface {
	Get(identifier string) (*models.AuthAttempt, bool)
	Set(identifier string, attempt *models.AuthAttempt)
	Delete(identifier string)
	SweepIdle(now time.Time, idle time.Duration) int
}

// memoryRateLimitStore keeps entries in a mutex-guarded map.
type memoryRateLimitStore struct {
	mu      sync.RWMutex
	entries map[string]*models.RateLimitEntry
}

// NewMemoryRateLimitStore returns the in-process RateLimitStore.
func NewMemoryRateLimitStore() RateLimitStore {
	return &memoryRateLimitStore{entries: make(map[string]*models.RateLimitEntry)}
}

func (s *memoryRateLimitStore) Get(identifier string) (*models.RateLimitEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[identifier]
	return e, ok
}

func (s *memoryRateLimitStore) Set(identifier string, entry *models.RateLimitEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[identifier] = entry
}

func (s *memoryRateLimitStore) Delete(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identifier)
}

// Sweep removes entries whose window and manual block have both
// expired, bounding memory growth.
func (s *memoryRateLimitStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.ResetAt) && now.After(e.BlockedUntil) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// memoryAuthAttemptStore keeps attempts in a mutex-guarded map.
type memoryAuthAttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*models.AuthAttempt
}

// NewMemoryAuthAttemptStore returns the in-process AuthAttemptStore.
func NewMemoryAuthAttemptStore() AuthAttemptStore {
	return &memoryAuthAttemptStore{attempts: make(map[string]*models.AuthAttempt)}
}

func (s *memoryAuthAttemptStore) Get(identifier string) (*models.AuthAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[identifier]
	return a, ok
}

func (s *memoryAuthAttemptStore) Set(identifier string, attempt *models.AuthAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[identifier] = attempt
}

func (s *memoryAuthAttemptStore) Delete(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, identifier)
}

// SweepIdle removes attempts idle longer than the given duration.
func (s *memoryAuthAttemptStore) SweepIdle(now time.Time, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, a := range s.attempts {
		if now.Sub(a.LastAttempt) > idle {
			delete(s.attempts, id)
			removed++
		}
	}
	return removed
}
