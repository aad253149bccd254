package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

type MessageService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	events   ports.EventPublisher
	idem     ports.IdempotencyStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewMessageService wires the workflow. events and idem may be nil, in which
// case audit publishing and idempotent replay are disabled.
func NewMessageService(
	users ports.UserRepository,
	messages ports.MessageRepository,
	events ports.EventPublisher,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		users:    users,
		messages: messages,
		events:   events,
		idem:     idem,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns every message addressed to username, paired with sender names.
// No ordering is guaranteed beyond what the store returns.
func (s *MessageService) List(ctx context.Context, username string) ([]ports.MessageView, error) {
	return s.list(ctx, username, "")
}

// ListByStatus is List restricted to one live status.
func (s *MessageService) ListByStatus(ctx context.Context, username string, status domain.MessageStatus) ([]ports.MessageView, error) {
	if _, err := domain.ParseMessageStatus(string(status)); err != nil {
		return nil, err
	}
	return s.list(ctx, username, status)
}

func (s *MessageService) list(ctx context.Context, username string, status domain.MessageStatus) ([]ports.MessageView, error) {
	recipient, err := s.users.FindByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list messages: resolve recipient: %w", err)
	}

	msgs, err := s.messages.List(ctx, ports.ListMessagesFilter{RecipientID: recipient.ID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	senders := make(map[uuid.UUID]string)
	views := make([]ports.MessageView, 0, len(msgs))
	for _, m := range msgs {
		name, ok := senders[m.SenderID]
		if !ok {
			sender, err := s.users.FindByID(ctx, m.SenderID)
			if err != nil {
				return nil, fmt.Errorf("list messages: resolve sender %s: %w", m.SenderID, err)
			}
			name = sender.Name
			senders[m.SenderID] = name
		}
		views = append(views, ports.MessageView{Message: m, SenderName: name})
	}
	return views, nil
}

// Send stores a new message from input.Sender to input.Recipient with status New.
// A repeated IdempotencyKey from the same sender is acknowledged without a second insert.
// The key is claimed before the insert and released again if the send fails.
func (s *MessageService) Send(ctx context.Context, input ports.SendMessageInput) error {
	claimed := false
	if s.idem != nil && input.IdempotencyKey != "" {
		ok, err := s.idem.Claim(ctx, input.Sender, input.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("sender", input.Sender).Msg("idempotency claim failed, sending anyway")
		case !ok:
			s.logger.Info().Str("sender", input.Sender).Str("idempotency_key", input.IdempotencyKey).Msg("idempotent replay")
			return nil
		default:
			claimed = true
		}
	}

	if err := s.send(ctx, input); err != nil {
		if claimed {
			if rerr := s.idem.Release(ctx, input.Sender, input.IdempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("sender", input.Sender).Msg("failed to release idempotency key")
			}
		}
		return err
	}
	return nil
}

func (s *MessageService) send(ctx context.Context, input ports.SendMessageInput) error {
	sender, err := s.users.FindByName(ctx, input.Sender)
	if err != nil {
		s.logger.Error().Err(err).Str("sender", input.Sender).Msg("authenticated sender could not be resolved")
		return fmt.Errorf("send message: %w (sender %q: %v)", domain.ErrInternal, input.Sender, err)
	}

	recipient, err := s.users.FindByName(ctx, input.Recipient)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("send message: %w (%q)", domain.ErrRecipientNotFound, input.Recipient)
		}
		return fmt.Errorf("send message: %w (recipient %q: %v)", domain.ErrInternal, input.Recipient, err)
	}

	msg := &domain.Message{
		Title:       input.Title,
		Body:        input.Body,
		Status:      domain.StatusNew,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("sender", input.Sender).Str("recipient", input.Recipient).Msg("failed to save message")
		return fmt.Errorf("send message: %w (%v)", domain.ErrCannotSaveMessage, err)
	}

	s.publish(msg.ID, domain.StatusNew, input.Sender)
	s.logger.Info().
		Str("message_id", msg.ID.String()).
		Str("sender", input.Sender).
		Str("recipient", input.Recipient).
		Msg("message sent")

	return nil
}

// Acknowledge moves a message owned by username to Received. Unknown ids and
// ids owned by someone else fail identically with domain.ErrMessageNotFound.
func (s *MessageService) Acknowledge(ctx context.Context, username, messageID string) error {
	id, err := uuid.Parse(messageID)
	if err != nil {
		return fmt.Errorf("acknowledge: %w", domain.ErrInvalidMessageID)
	}

	user, err := s.users.FindByName(ctx, username)
	if err != nil {
		return fmt.Errorf("acknowledge: %w (user %q: %v)", domain.ErrInternal, username, err)
	}

	n, err := s.messages.UpdateStatusForRecipient(ctx, id, user.ID, domain.StatusReceived)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", id.String()).Msg("failed to update message status")
		return fmt.Errorf("acknowledge: %w (%v)", domain.ErrCannotModifyStatus, err)
	}
	if n == 0 {
		return fmt.Errorf("acknowledge: %w", domain.ErrMessageNotFound)
	}

	s.publish(id, domain.StatusReceived, username)
	s.logger.Info().Str("message_id", id.String()).Str("recipient", username).Msg("message acknowledged")

	return nil
}

func (s *MessageService) publish(id uuid.UUID, status domain.MessageStatus, actor string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.MessageEventInput{
		MessageID:  id,
		Status:     status.String(),
		Actor:      actor,
		OccurredAt: s.now(),
	})
}
