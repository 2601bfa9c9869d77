package service

import (
	"context"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

type DeliveryService interface {
	// Get returns the stored processing state of a delivery. Admins only.
	Get(ctx context.Context, actor *model.User, deliveryID string) (*model.DeliveryRecord, error)
}

type deliveryService struct {
	records store.DeliveryRecordStore
}

func NewDeliveryService(records store.DeliveryRecordStore) DeliveryService {
	return &deliveryService{records: records}
}

func (s *deliveryService) Get(ctx context.Context, actor *model.User, deliveryID string) (*model.DeliveryRecord, error) {
	if !actor.Active() || !actor.Admin {
		return nil, ErrForbidden
	}
	return s.records.Get(ctx, deliveryID)
}
