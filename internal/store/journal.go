package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/phoexer/openproject/core/db/sqlc"
	"github.com/phoexer/openproject/internal/model"
)

type journalStore struct {
	queries *sqlc.Queries
}

func newJournalStore(queries *sqlc.Queries) JournalStore {
	return &journalStore{queries: queries}
}

func (s *journalStore) Append(ctx context.Context, journal *model.Journal) (bool, error) {
	row, err := s.queries.InsertJournal(ctx, sqlc.InsertJournalParams{
		ID:            journal.ID,
		WorkPackageID: journal.WorkPackageID,
		UserID:        journal.UserID,
		DeliveryID:    journal.DeliveryID,
		Notes:         journal.Notes,
	})
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	*journal = *toJournalModel(row)
	return true, nil
}

func (s *journalStore) ListByWorkPackage(ctx context.Context, workPackageID int64, limit int32) ([]model.Journal, error) {
	rows, err := s.queries.ListJournalsByWorkPackage(ctx, sqlc.ListJournalsByWorkPackageParams{
		WorkPackageID: workPackageID,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Journal, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toJournalModel(row))
	}
	return result, nil
}

func toJournalModel(row sqlc.Journal) *model.Journal {
	return &model.Journal{
		ID:            row.ID,
		WorkPackageID: row.WorkPackageID,
		UserID:        row.UserID,
		DeliveryID:    row.DeliveryID,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt.Time,
	}
}
