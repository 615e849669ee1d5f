package security

import (
	"sync"
	"time"

	"portfolio-backend/internal/models"

	"github.com/google/uuid"
)

// DefaultEventCapacity bounds the in-memory event ring.
const DefaultEventCapacity = 1000

// EventLog is an append-only, bounded ring of SecurityEvents. Oldest
// entries are evicted past capacity. Process-lifetime only.
type EventLog struct {
	mu       sync.RWMutex
	events   []models.SecurityEvent
	start    int
	size     int
	capacity int
}

// NewEventLog creates an EventLog with the given capacity.
// capacity <= 0 falls back to DefaultEventCapacity.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{
		events:   make([]models.SecurityEvent, capacity),
		capacity: capacity,
	}
}

// Record appends an event, assigning an ID and timestamp when absent,
// and returns the stored event.
func (l *EventLog) Record(event models.SecurityEvent) models.SecurityEvent {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.start + l.size) % l.capacity
	l.events[idx] = event
	if l.size < l.capacity {
		l.size++
	} else {
		l.start = (l.start + 1) % l.capacity
	}
	return event
}

// Recent returns up to n events, newest first.
func (l *EventLog) Recent(n int) []models.SecurityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > l.size {
		n = l.size
	}
	out := make([]models.SecurityEvent, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.start + l.size - 1 - i + l.capacity) % l.capacity
		out = append(out, l.events[idx])
	}
	return out
}

// Len reports how many events are currently retained.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}
