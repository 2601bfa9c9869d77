package webhook_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

type fakeLookup struct {
	workPackages map[int64]*model.WorkPackage
	errs         map[int64]error
	calls        []int64
}

func newFakeLookup(wps ...*model.WorkPackage) *fakeLookup {
	l := &fakeLookup{workPackages: map[int64]*model.WorkPackage{}, errs: map[int64]error{}}
	for _, wp := range wps {
		l.workPackages[wp.ID] = wp
	}
	return l
}

func (l *fakeLookup) GetByID(_ context.Context, id int64) (*model.WorkPackage, error) {
	l.calls = append(l.calls, id)
	if err, ok := l.errs[id]; ok {
		return nil, err
	}
	wp, ok := l.workPackages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return wp, nil
}

type fakeAuthorizer struct {
	allowed map[int64]bool
	errs    map[int64]error
	calls   map[int64]int
}

func newFakeAuthorizer(allowed map[int64]bool) *fakeAuthorizer {
	return &fakeAuthorizer{allowed: allowed, errs: map[int64]error{}, calls: map[int64]int{}}
}

func (a *fakeAuthorizer) Allowed(_ context.Context, _ *model.User, projectID int64, permission model.Permission) (bool, error) {
	a.calls[projectID]++
	if permission != model.PermissionViewWorkPackages {
		return false, fmt.Errorf("unexpected permission %q", permission)
	}
	if err, ok := a.errs[projectID]; ok {
		return false, err
	}
	return a.allowed[projectID], nil
}

type journalKey struct {
	deliveryID    string
	workPackageID int64
}

// fakeJournals mimics the unique (delivery_id, work_package_id) index.
type fakeJournals struct {
	mu      sync.Mutex
	byKey   map[journalKey]model.Journal
	order   []model.Journal
	failFor map[int64]error
	appends atomic.Int32
}

func newFakeJournals() *fakeJournals {
	return &fakeJournals{byKey: map[journalKey]model.Journal{}, failFor: map[int64]error{}}
}

func (j *fakeJournals) Append(_ context.Context, journal *model.Journal) (bool, error) {
	j.appends.Add(1)
	j.mu.Lock()
	defer j.mu.Unlock()

	if err, ok := j.failFor[journal.WorkPackageID]; ok {
		return false, err
	}
	key := journalKey{journal.DeliveryID, journal.WorkPackageID}
	if _, exists := j.byKey[key]; exists {
		return false, nil
	}
	j.byKey[key] = *journal
	j.order = append(j.order, *journal)
	return true, nil
}

func (j *fakeJournals) forWorkPackage(id int64) []model.Journal {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []model.Journal
	for _, journal := range j.order {
		if journal.WorkPackageID == id {
			out = append(out, journal)
		}
	}
	return out
}

func (j *fakeJournals) writtenOrder() []int64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	ids := make([]int64, 0, len(j.order))
	for _, journal := range j.order {
		ids = append(ids, journal.WorkPackageID)
	}
	return ids
}

func counter() func() int64 {
	var n atomic.Int64
	return func() int64 { return n.Add(1) }
}
