package service

import (
	"github.com/phoexer/openproject/internal/store"
)

type Services struct {
	stores          *store.Stores
	txRunner        TxRunner
	deliveryRecords store.DeliveryRecordStore
}

// NewServices wires services over the postgres stores. deliveryRecords is
// the configured delivery record backend and may live outside postgres.
func NewServices(stores *store.Stores, txRunner TxRunner, deliveryRecords store.DeliveryRecordStore) *Services {
	return &Services{
		stores:          stores,
		txRunner:        txRunner,
		deliveryRecords: deliveryRecords,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users())
}

func (s *Services) Authorization() AuthorizationService {
	return NewAuthorizationService(s.stores.Projects())
}

func (s *Services) Journals() JournalService {
	return NewJournalService(s.txRunner, s.stores.WorkPackages(), s.stores.Journals(), s.Authorization())
}

func (s *Services) Deliveries() DeliveryService {
	return NewDeliveryService(s.deliveryRecords)
}

func (s *Services) WorkPackages() store.WorkPackageStore {
	return s.stores.WorkPackages()
}
