package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// maxEvents bounds the log; older events are dropped first.
const maxEvents = 1000

// EventLog is an in-memory domain.EventPublisher used when no broker is
// configured. Every event is also written to the request logger.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Publish(ctx context.Context, ev domain.Event) error {
	l.mu.Lock()
	l.events = append(l.events, ev)
	if len(l.events) > maxEvents {
		l.events = append([]domain.Event(nil), l.events[len(l.events)-maxEvents:]...)
	}
	l.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("event published",
		"type", ev.Type,
		"session_id", ev.SessionID,
		"user_id", ev.UserID,
	)
	return nil
}

// Events returns the published events, optionally only those of one session.
func (l *EventLog) Events(sessionID domain.SessionID) []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Event
	for _, ev := range l.events {
		if sessionID == "" || ev.SessionID == sessionID {
			out = append(out, ev)
		}
	}
	return out
}
