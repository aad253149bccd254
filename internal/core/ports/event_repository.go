package ports

import (
	"context"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// EventRepository persists the message audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.MessageEvent) error
}
