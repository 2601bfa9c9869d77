package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

var (
	ErrInvalidAPIKey = errors.New("invalid api key")
	ErrUserLocked    = errors.New("user is locked")
)

// AuthService resolves the internal user a webhook acts as.
type AuthService interface {
	AuthenticateAPIKey(ctx context.Context, apiKey string) (*model.User, error)
}

type authService struct {
	userStore store.UserStore
}

func NewAuthService(userStore store.UserStore) AuthService {
	return &authService{userStore: userStore}
}

func (s *authService) AuthenticateAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	user, err := s.userStore.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("looking up api key: %w", err)
	}

	if !user.Active() {
		slog.WarnContext(ctx, "locked user attempted api access", "user_id", user.ID)
		return nil, ErrUserLocked
	}
	return user, nil
}
