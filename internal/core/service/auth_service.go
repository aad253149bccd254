package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// AuthService validates Basic credentials against the users table.
type AuthService struct {
	repo   ports.UserRepository
	scheme PasswordScheme
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, scheme PasswordScheme, log zerolog.Logger) *AuthService {
	if scheme == "" {
		scheme = SchemePlain
	}
	return &AuthService{repo: repo, scheme: scheme, log: log}
}

// Authenticate returns the matching user, domain.ErrEmptyCredentials when
// either part is empty (no store access), or domain.ErrInvalidCredentials when
// nothing matches. Any other error means the store could not answer.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrEmptyCredentials
	}

	var (
		user *domain.User
		err  error
	)
	switch s.scheme {
	case SchemeBcrypt:
		user, err = s.repo.FindByName(ctx, username)
		if err == nil && !bcryptMatches(user.Password, password) {
			user, err = nil, domain.ErrUserNotFound
		}
	default:
		user, err = s.repo.FindByCredentials(ctx, username, password)
	}

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("username", username).Msg("authentication rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}
