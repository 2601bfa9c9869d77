package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/phoexer/openproject/core/db/sqlc"
	"github.com/phoexer/openproject/internal/model"
)

type deliveryRecordStore struct {
	queries *sqlc.Queries
}

func newDeliveryRecordStore(queries *sqlc.Queries) DeliveryRecordStore {
	return &deliveryRecordStore{queries: queries}
}

func (s *deliveryRecordStore) Get(ctx context.Context, deliveryID string) (*model.DeliveryRecord, error) {
	row, err := s.queries.GetDeliveryRecord(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDeliveryRecordModel(row), nil
}

func (s *deliveryRecordStore) PutIfAbsent(ctx context.Context, record *model.DeliveryRecord) (bool, error) {
	n, err := s.queries.InsertDeliveryRecord(ctx, sqlc.InsertDeliveryRecordParams{
		DeliveryID: record.DeliveryID,
		Provider:   record.Provider,
		Status:     string(record.Status),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *deliveryRecordStore) Retry(ctx context.Context, deliveryID string, staleBefore time.Time) (bool, error) {
	n, err := s.queries.RetryDeliveryRecord(ctx, sqlc.RetryDeliveryRecordParams{
		DeliveryID:  deliveryID,
		StaleBefore: toTimestamp(staleBefore),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *deliveryRecordStore) Complete(ctx context.Context, deliveryID string, status model.DeliveryStatus, outcome json.RawMessage, errMsg *string) error {
	n, err := s.queries.CompleteDeliveryRecord(ctx, sqlc.CompleteDeliveryRecordParams{
		DeliveryID: deliveryID,
		Status:     string(status),
		Outcome:    []byte(outcome),
		Error:      errMsg,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeliveryNotPending
	}
	return nil
}

func toDeliveryRecordModel(row sqlc.DeliveryRecord) *model.DeliveryRecord {
	return &model.DeliveryRecord{
		DeliveryID: row.DeliveryID,
		Provider:   row.Provider,
		Status:     model.DeliveryStatus(row.Status),
		Outcome:    json.RawMessage(row.Outcome),
		Error:      row.Error,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

func toTimestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
