package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageEventInput is the DTO handed to the audit pipeline.
type MessageEventInput struct {
	MessageID  uuid.UUID
	Status     string
	Actor      string
	OccurredAt time.Time
}

// EventService records message lifecycle events.
type EventService interface {
	Process(ctx context.Context, event MessageEventInput) error
}

// EventPublisher hands events to the audit pipeline without blocking the caller
// on persistence.
type EventPublisher interface {
	Publish(event MessageEventInput)
}

// IdempotencyStore claims Idempotency-Key values per sender. Claim reports
// false when the key is already held; Release gives a key back after a
// failed send so the client can retry with it.
type IdempotencyStore interface {
	Claim(ctx context.Context, sender, key string) (bool, error)
	Release(ctx context.Context, sender, key string) error
}
