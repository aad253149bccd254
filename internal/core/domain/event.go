package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageEvent is an audit record of a message entering a status.
type MessageEvent struct {
	MessageID  uuid.UUID
	Status     MessageStatus
	Actor      string
	OccurredAt time.Time
}
