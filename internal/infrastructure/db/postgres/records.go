package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// Row shapes for the tables created by the migrations in ./migrations.

type userRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"not null;uniqueIndex"`
	Surname  string    `gorm:"not null;default:''"`
	Email    string    `gorm:"not null;default:''"`
	Role     string    `gorm:"column:rule;not null;default:''"`
	Password *string
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:       r.ID,
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Role:     r.Role,
		Password: r.Password,
	}
}

type messageRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Body        string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;not null"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (messageRecord) TableName() string { return "messages" }

func (r *messageRecord) toDomain() *domain.Message {
	return &domain.Message{
		ID:          r.ID,
		Title:       r.Title,
		Body:        r.Body,
		Status:      domain.MessageStatus(r.Status),
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
	}
}

type messageEventRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"size:20;not null"`
	Actor      string    `gorm:"not null"`
	OccurredAt time.Time `gorm:"not null"`
}

func (messageEventRecord) TableName() string { return "message_events" }
