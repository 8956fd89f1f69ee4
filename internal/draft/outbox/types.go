package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a draft event waiting to be published.
type Event struct {
	ID        uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}

// EventPublisher delivers events to whatever sits downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
