package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

type MessageRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewMessageRepository(db *gorm.DB, timeout time.Duration) *MessageRepository {
	return &MessageRepository{db: db, timeout: queryTimeout(timeout)}
}

// Create inserts a new message row, generating the id when m.ID is zero.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	rec := messageRecord{
		ID:          m.ID,
		Title:       m.Title,
		Body:        m.Body,
		Status:      m.Status.String(),
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List returns the recipient's messages, optionally filtered by status.
// No ORDER BY is applied.
func (r *MessageRepository) List(ctx context.Context, filter ports.ListMessagesFilter) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).Where("recipient_id = ?", filter.RecipientID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status.String())
	}

	var recs []messageRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]*domain.Message, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

// UpdateStatusForRecipient performs the ownership check and the status write in
// one statement. The returned count is zero when the message does not exist,
// belongs to another recipient, or sits in a status that cannot reach status.
func (r *MessageRepository) UpdateStatusForRecipient(ctx context.Context, id, recipientID uuid.UUID, status domain.MessageStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sources := domain.SourcesOf(status)
	from := make([]string, 0, len(sources))
	for _, s := range sources {
		from = append(from, s.String())
	}

	res := r.db.WithContext(ctx).
		Model(&messageRecord{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Where("status IN ?", from).
		Update("status", status.String())
	if res.Error != nil {
		return 0, fmt.Errorf("update message status: %w", res.Error)
	}
	return res.RowsAffected, nil
}
