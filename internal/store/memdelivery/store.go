// Package memdelivery keeps delivery records in a bounded in-process LRU.
// Records are lost on restart and are not shared between replicas, so it
// only suits single-instance deployments and tests.
package memdelivery

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

type Store struct {
	mu      sync.Mutex
	records *expirable.LRU[string, model.DeliveryRecord]
	now     func() time.Time
}

var _ store.DeliveryRecordStore = (*Store)(nil)

func New(size int, ttl time.Duration) *Store {
	return &Store{
		records: expirable.NewLRU[string, model.DeliveryRecord](size, nil, ttl),
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, deliveryID string) (*model.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records.Peek(deliveryID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneRecord(record), nil
}

func (s *Store) PutIfAbsent(_ context.Context, record *model.DeliveryRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records.Contains(record.DeliveryID) {
		return false, nil
	}

	now := s.now()
	stored := *cloneRecord(*record)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.records.Add(record.DeliveryID, stored)
	return true, nil
}

func (s *Store) Retry(_ context.Context, deliveryID string, staleBefore time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records.Peek(deliveryID)
	if !ok {
		return false, store.ErrNotFound
	}

	switch {
	case record.Status == model.DeliveryStatusFailed:
	case record.Status == model.DeliveryStatusPending && record.UpdatedAt.Before(staleBefore):
	default:
		return false, nil
	}

	record.Status = model.DeliveryStatusPending
	record.Error = nil
	record.UpdatedAt = s.now()
	s.records.Add(deliveryID, record)
	return true, nil
}

func (s *Store) Complete(_ context.Context, deliveryID string, status model.DeliveryStatus, outcome json.RawMessage, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records.Peek(deliveryID)
	if !ok {
		return store.ErrNotFound
	}
	if record.Status != model.DeliveryStatusPending {
		return store.ErrDeliveryNotPending
	}

	record.Status = status
	record.Outcome = append(json.RawMessage(nil), outcome...)
	record.Error = errMsg
	record.UpdatedAt = s.now()
	s.records.Add(deliveryID, record)
	return nil
}

func cloneRecord(r model.DeliveryRecord) *model.DeliveryRecord {
	out := r
	if r.Outcome != nil {
		out.Outcome = append(json.RawMessage(nil), r.Outcome...)
	}
	if r.Error != nil {
		msg := *r.Error
		out.Error = &msg
	}
	return &out
}
