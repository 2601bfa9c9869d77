package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/phoexer/openproject/core/db/sqlc"
	"github.com/phoexer/openproject/internal/model"
)

type projectStore struct {
	queries *sqlc.Queries
}

func newProjectStore(queries *sqlc.Queries) ProjectStore {
	return &projectStore{queries: queries}
}

func (s *projectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row, err := s.queries.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.Project{
		ID:         row.ID,
		Identifier: row.Identifier,
		Name:       row.Name,
		Public:     row.Public,
		CreatedAt:  row.CreatedAt.Time,
	}, nil
}

func (s *projectStore) HasPermission(ctx context.Context, userID, projectID int64, permission model.Permission) (bool, error) {
	return s.queries.UserHasProjectPermission(ctx, sqlc.UserHasProjectPermissionParams{
		ProjectID:  projectID,
		UserID:     userID,
		Permission: string(permission),
	})
}
