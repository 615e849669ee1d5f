// Package background owns the periodic sweeps that bound in-memory
// state growth. Sweeps are explicit tasks started by main and
// cancelled on shutdown, never side effects of package import.
package background

import (
	"context"
	"log/slog"
	"time"
)

// SweepFunc removes expired state and reports how many entries went.
type SweepFunc func(now time.Time) int

type task struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
}

// CleanupManager runs registered sweeps on their own tickers,
// independent of request handling.
type CleanupManager struct {
	tasks  []task
	logger *slog.Logger
	stopCh chan struct{}
}

// NewCleanupManager creates an empty cleanup manager.
func NewCleanupManager(logger *slog.Logger) *CleanupManager {
	return &CleanupManager{
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Register adds a named sweep. Must be called before Start.
func (cm *CleanupManager) Register(name string, interval time.Duration, sweep SweepFunc) {
	cm.tasks = append(cm.tasks, task{name: name, interval: interval, sweep: sweep})
}

// Start runs every registered sweep until the context is cancelled or
// Stop is called. Each task gets its own goroutine so a slow sweep
// cannot delay the others.
func (cm *CleanupManager) Start(ctx context.Context) {
	for _, t := range cm.tasks {
		go cm.run(ctx, t)
	}
}

func (cm *CleanupManager) run(ctx context.Context, t task) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			removed := t.sweep(now)
			if removed > 0 {
				cm.logger.Info("sweep completed",
					slog.String("task", t.name),
					slog.Int("removed", removed))
			}
		case <-cm.stopCh:
			cm.logger.Info("sweep stopped", slog.String("task", t.name))
			return
		case <-ctx.Done():
			cm.logger.Info("sweep context cancelled", slog.String("task", t.name))
			return
		}
	}
}

// Stop signals every sweep to stop.
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
