package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// UserRepository is the read side of the users table. It doubles as the
// credential store and the identity resolver.
type UserRepository interface {
	// FindByCredentials returns the user whose name and stored password both
	// equal the given values. Returns domain.ErrUserNotFound when no row matches.
	FindByCredentials(ctx context.Context, name, password string) (*domain.User, error)
	// FindByName returns domain.ErrUserNotFound when no row matches.
	FindByName(ctx context.Context, name string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
