package store

import (
	"github.com/phoexer/openproject/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.queries)
}

func (s *Stores) WorkPackages() WorkPackageStore {
	return newWorkPackageStore(s.queries)
}

func (s *Stores) Journals() JournalStore {
	return newJournalStore(s.queries)
}

func (s *Stores) DeliveryRecords() DeliveryRecordStore {
	return newDeliveryRecordStore(s.queries)
}
