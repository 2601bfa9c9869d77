package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/phoexer/openproject/core/db/sqlc"
	"github.com/phoexer/openproject/internal/model"
)

type workPackageStore struct {
	queries *sqlc.Queries
}

func newWorkPackageStore(queries *sqlc.Queries) WorkPackageStore {
	return &workPackageStore{queries: queries}
}

func (s *workPackageStore) GetByID(ctx context.Context, id int64) (*model.WorkPackage, error) {
	row, err := s.queries.GetWorkPackage(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.WorkPackage{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Subject:   row.Subject,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

func (s *workPackageStore) Touch(ctx context.Context, id int64, at time.Time) error {
	_, err := s.queries.TouchWorkPackage(ctx, sqlc.TouchWorkPackageParams{
		ID:        id,
		UpdatedAt: toTimestamp(at),
	})
	return err
}
