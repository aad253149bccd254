package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// EventRepository implements ports.EventRepository on the message_events table.
type EventRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB, timeout time.Duration) ports.EventRepository {
	return &EventRepository{db: db, timeout: queryTimeout(timeout)}
}

// InsertEvent appends an entry to the message audit trail.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.MessageEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec := messageEventRecord{
		ID:         uuid.New(),
		MessageID:  event.MessageID,
		Status:     event.Status.String(),
		Actor:      event.Actor,
		OccurredAt: event.OccurredAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
