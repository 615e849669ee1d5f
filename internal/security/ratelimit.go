package security

import (
	"log/slog"
	"sync"
	"time"

	"portfolio-backend/internal/models"
)

// RateLimitConfig describes one fixed window.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// Limits accepted by config validation. Out-of-range configs produce a
// fully-blocked result rather than a permissive default.
const (
	maxConfigurableRequests = 10000
	maxConfigurableWindow   = 24 * time.Hour
)

// RateLimiter is a fixed-window request counter per identifier.
// Correctness holds only within one process; see RateLimitStore for
// the multi-instance extension point.
type RateLimiter struct {
	store  RateLimitStore
	logger *slog.Logger
	now    func() time.Time

	// serializes check-and-increment across goroutines; the store
	// interface alone cannot make read-modify-write atomic
	mu sync.Mutex
}

// NewRateLimiter creates a RateLimiter backed by the given store.
func NewRateLimiter(store RateLimitStore, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{store: store, logger: logger, now: time.Now}
}

func (l *RateLimiter) validConfig(cfg RateLimitConfig) bool {
	if cfg.MaxRequests <= 0 || cfg.MaxRequests > maxConfigurableRequests {
		return false
	}
	if cfg.Window <= 0 || cfg.Window > maxConfigurableWindow {
		return false
	}
	return true
}

// Check counts one request for identifier against cfg and reports
// whether it is allowed. The N-th request within a window is allowed
// for MaxRequests = N; the (N+1)-th is blocked until the window resets.
func (l *RateLimiter) Check(identifier string, cfg RateLimitConfig) models.RateLimitResult {
	now := l.now()

	if !l.validConfig(cfg) {
		l.logger.Error("rejecting rate limit check with invalid config",
			slog.Int("max_requests", cfg.MaxRequests),
			slog.Duration("window", cfg.Window))
		return models.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: now, Blocked: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store.Get(identifier)

	// Manual blocks take precedence over the counter.
	if ok && now.Before(entry.BlockedUntil) {
		return models.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: entry.BlockedUntil, Blocked: true}
	}

	if !ok || now.After(entry.ResetAt) {
		fresh := &models.RateLimitEntry{Count: 1, ResetAt: now.Add(cfg.Window)}
		if ok {
			fresh.BlockedUntil = entry.BlockedUntil
		}
		l.store.Set(identifier, fresh)
		return models.RateLimitResult{Allowed: true, Remaining: cfg.MaxRequests - 1, ResetAt: fresh.ResetAt}
	}

	entry.Count++
	if entry.Count > cfg.MaxRequests {
		if !entry.Blocked {
			entry.Blocked = true
			l.logger.Warn("identifier rate limited",
				slog.String("identifier", identifier),
				slog.Int("count", entry.Count),
				slog.Time("reset_at", entry.ResetAt))
		}
		l.store.Set(identifier, entry)
		return models.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: entry.ResetAt, Blocked: true}
	}

	l.store.Set(identifier, entry)
	return models.RateLimitResult{
		Allowed:   true,
		Remaining: cfg.MaxRequests - entry.Count,
		ResetAt:   entry.ResetAt,
	}
}

// Block manually blocks an identifier for the given duration,
// independently of the window counter.
func (l *RateLimiter) Block(identifier string, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.store.Get(identifier)
	if !ok {
		entry = &models.RateLimitEntry{ResetAt: now}
	}
	entry.BlockedUntil = now.Add(duration)
	l.store.Set(identifier, entry)

	l.logger.Warn("identifier manually blocked",
		slog.String("identifier", identifier),
		slog.Duration("duration", duration))
}

// Unblock clears both the manual block and the window block state.
func (l *RateLimiter) Unblock(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store.Get(identifier)
	if !ok {
		return
	}
	entry.Blocked = false
	entry.BlockedUntil = time.Time{}
	l.store.Set(identifier, entry)

	l.logger.Info("identifier unblocked", slog.String("identifier", identifier))
}

// Sweep removes expired entries. Run periodically by the cleanup
// manager; never called from the request path.
func (l *RateLimiter) Sweep(now time.Time) int {
	removed := l.store.Sweep(now)
	if removed > 0 {
		l.logger.Info("rate limit sweep completed", slog.Int("removed", removed))
	}
	return removed
}
