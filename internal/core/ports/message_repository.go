package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// ListMessagesFilter selects messages addressed to one recipient.
type ListMessagesFilter struct {
	RecipientID uuid.UUID
	Status      domain.MessageStatus // optional
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create inserts m. A zero ID is replaced by a freshly generated one.
	Create(ctx context.Context, m *domain.Message) error
	// List returns the recipient's messages in store order.
	List(ctx context.Context, filter ListMessagesFilter) ([]*domain.Message, error)
	// UpdateStatusForRecipient sets the status of message id only when it
	// belongs to recipientID, and reports how many rows matched.
	UpdateStatusForRecipient(ctx context.Context, id, recipientID uuid.UUID, status domain.MessageStatus) (int64, error)
}
