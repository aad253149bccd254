package ports

import (
	"context"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// SendMessageInput is the DTO passed from the transport layer to MessageService.
type SendMessageInput struct {
	Sender         string // authenticated username
	Title          string
	Body           string
	Recipient      string // recipient username
	IdempotencyKey string // optional
}

// MessageView pairs a message with the name of the user who sent it.
type MessageView struct {
	Message    *domain.Message
	SenderName string
}

// MessageService defines the message workflow use cases. Every method expects
// an already authenticated username.
type MessageService interface {
	List(ctx context.Context, username string) ([]MessageView, error)
	ListByStatus(ctx context.Context, username string, status domain.MessageStatus) ([]MessageView, error)
	Send(ctx context.Context, input SendMessageInput) error
	Acknowledge(ctx context.Context, username, messageID string) error
}
