package ports

import (
	"context"

	"github.com/msgbox/messaging-service/internal/core/domain"
)

// AuthService checks Basic credentials against the credential store.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
