package security

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-backend/internal/models"
)

// Auth monitor thresholds. Failures inside the attempt window
// accumulate; the lockout clears itself once the lockout duration has
// passed since the last attempt.
const (
	AttemptWindow     = 15 * time.Minute
	MaxFailures       = 5
	LockoutDuration   = 30 * time.Minute
	AuthSweepInterval = 10 * time.Minute
)

// AuthMonitor is a sliding-window failure counter per identifier that
// produces a brute-force signal once the threshold is reached.
type AuthMonitor struct {
	store  AuthAttemptStore
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewAuthMonitor creates an AuthMonitor backed by the given store.
func NewAuthMonitor(store AuthAttemptStore, logger *slog.Logger) *AuthMonitor {
	return &AuthMonitor{store: store, logger: logger, now: time.Now}
}

// RecordEvent folds one auth event into the monitor's state. A
// login-failure that brings an identifier to the failure threshold
// returns a high-severity brute-force threat; every other outcome
// returns nil.
func (m *AuthMonitor) RecordEvent(event models.AuthEvent) *models.AuthThreat {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := event.Timestamp
	if now.IsZero() {
		now = m.now()
	}

	attempt, ok := m.store.Get(event.Identifier)
	if !ok {
		attempt = &models.AuthAttempt{}
	}

	switch event.Type {
	case models.AuthLoginSuccess:
		attempt.Failures = 0
		attempt.Locked = false
		attempt.LastAttempt = now
		m.store.Set(event.Identifier, attempt)
		return nil

	case models.AuthLoginFailure:
		// A stale window starts over instead of accumulating.
		if !attempt.LastAttempt.IsZero() && now.Sub(attempt.LastAttempt) > AttemptWindow {
			attempt.Failures = 0
		}
		attempt.Failures++
		attempt.LastAttempt = now

		if attempt.Failures >= MaxFailures {
			attempt.Locked = true
			m.store.Set(event.Identifier, attempt)
			m.logger.Warn("brute force threshold reached",
				slog.String("identifier", event.Identifier),
				slog.Int("failures", attempt.Failures))
			return &models.AuthThreat{
				Type:        models.ThreatBruteForce,
				Severity:    models.SeverityHigh,
				Identifier:  event.Identifier,
				Failures:    attempt.Failures,
				Description: fmt.Sprintf("%d consecutive login failures within %s", attempt.Failures, AttemptWindow),
			}
		}

		m.store.Set(event.Identifier, attempt)
		return nil

	case models.AuthPasswordReset, models.AuthAccountLocked:
		attempt.LastAttempt = now
		m.store.Set(event.Identifier, attempt)
		return nil

	default:
		m.logger.Warn("ignoring unknown auth event type", slog.String("type", string(event.Type)))
		return nil
	}
}

// IsLockedOut reports whether an identifier is currently locked. Lock
// state auto-clears once LockoutDuration has passed since the last
// attempt.
func (m *AuthMonitor) IsLockedOut(identifier string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt, ok := m.store.Get(identifier)
	if !ok || !attempt.Locked {
		return false
	}

	if m.now().Sub(attempt.LastAttempt) >= LockoutDuration {
		attempt.Locked = false
		attempt.Failures = 0
		m.store.Set(identifier, attempt)
		return false
	}
	return true
}

// Unlock manually clears lock state for an identifier.
func (m *AuthMonitor) Unlock(identifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt, ok := m.store.Get(identifier)
	if !ok {
		return
	}
	attempt.Locked = false
	attempt.Failures = 0
	m.store.Set(identifier, attempt)

	m.logger.Info("identifier unlocked", slog.String("identifier", identifier))
}

// Sweep deletes entries idle longer than the lockout duration.
func (m *AuthMonitor) Sweep(now time.Time) int {
	removed := m.store.SweepIdle(now, LockoutDuration)
	if removed > 0 {
		m.logger.Info("auth monitor sweep completed", slog.Int("removed", removed))
	}
	return removed
}
