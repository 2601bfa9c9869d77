package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/phoexer/openproject/core/db/sqlc"
	"github.com/phoexer/openproject/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	row, err := s.queries.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toUserModel(row), nil
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:        row.ID,
		Login:     row.Login,
		Name:      row.Name,
		Email:     row.Email,
		Admin:     row.Admin,
		Locked:    row.Locked,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
