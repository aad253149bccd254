package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: queryTimeout(timeout)}
}

// FindByCredentials matches name and password verbatim. Rows with a NULL
// password never match.
func (r *UserRepository) FindByCredentials(ctx context.Context, name, password string) (*domain.User, error) {
	return r.first(ctx, "find user by credentials", "name = ? AND password = ?", name, password)
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	return r.first(ctx, "find user by name", "name = ?", name)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.first(ctx, "find user by id", "id = ?", id)
}

func (r *UserRepository) first(ctx context.Context, op string, query string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec.toDomain(), nil
}
