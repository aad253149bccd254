package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process validates and persists a single message event.
func (s *eventService) Process(ctx context.Context, in ports.MessageEventInput) error {
	if in.MessageID == uuid.Nil {
		return fmt.Errorf("process event: %w", domain.ErrInvalidMessageID)
	}
	status := domain.MessageStatus(in.Status)
	if _, err := domain.ParseMessageStatus(in.Status); err != nil {
		return fmt.Errorf("process event: %w", err)
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	event := &domain.MessageEvent{
		MessageID:  in.MessageID,
		Status:     status,
		Actor:      in.Actor,
		OccurredAt: occurred,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process event: insert: %w", err)
	}

	s.log.Debug().
		Str("message_id", in.MessageID.String()).
		Str("status", in.Status).
		Str("actor", in.Actor).
		Msg("event recorded")

	return nil
}
