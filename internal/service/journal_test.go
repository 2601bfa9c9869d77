package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/service"
	"github.com/phoexer/openproject/internal/store"
)

var _ = Describe("JournalService", func() {
	var (
		ctx          context.Context
		journals     *mockJournalStore
		workPackages *mockWorkPackageStore
		authz        *mockAuthorization
		txRunner     *mockTxRunner
		svc          service.JournalService
	)

	BeforeEach(func() {
		ctx = context.Background()
		journals = &mockJournalStore{}
		workPackages = &mockWorkPackageStore{}
		authz = &mockAuthorization{}
		txRunner = &mockTxRunner{provider: &mockStoreProvider{journals: journals, workPackages: workPackages}}
		svc = service.NewJournalService(txRunner, workPackages, journals, authz)
	})

	Describe("Append", func() {
		It("touches the work package when a journal is created", func() {
			createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
			journals.appendFn = func(_ context.Context, j *model.Journal) (bool, error) {
				j.CreatedAt = createdAt
				return true, nil
			}
			var touchedAt time.Time
			workPackages.touchFn = func(_ context.Context, _ int64, at time.Time) error {
				touchedAt = at
				return nil
			}

			created, err := svc.Append(ctx, &model.Journal{ID: 1, WorkPackageID: 42, DeliveryID: "d-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(workPackages.touched).To(Equal([]int64{42}))
			Expect(touchedAt).To(Equal(createdAt))
		})

		It("leaves the work package alone for an existing journal", func() {
			journals.appendFn = func(context.Context, *model.Journal) (bool, error) {
				return false, nil
			}

			created, err := svc.Append(ctx, &model.Journal{WorkPackageID: 42})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(workPackages.touched).To(BeEmpty())
		})

		It("fails the transaction when the touch fails", func() {
			cause := errors.New("deadlock detected")
			workPackages.touchFn = func(context.Context, int64, time.Time) error {
				return cause
			}

			created, err := svc.Append(ctx, &model.Journal{WorkPackageID: 42})
			Expect(err).To(MatchError(cause))
			Expect(created).To(BeFalse())
		})

		It("surfaces transaction errors", func() {
			cause := errors.New("beginning transaction: pool closed")
			txRunner.withTxFn = func(context.Context, func(service.StoreProvider) error) error {
				return cause
			}

			_, err := svc.Append(ctx, &model.Journal{WorkPackageID: 42})
			Expect(err).To(MatchError(cause))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			workPackages.getByIDFn = func(_ context.Context, id int64) (*model.WorkPackage, error) {
				return &model.WorkPackage{ID: id, ProjectID: 10}, nil
			}
		})

		It("lists journals visible to the actor", func() {
			authz.allowedFn = func(context.Context, *model.User, int64, model.Permission) (bool, error) {
				return true, nil
			}
			journals.listFn = func(_ context.Context, id int64, limit int32) ([]model.Journal, error) {
				Expect(limit).To(Equal(int32(100)))
				return []model.Journal{{ID: 1, WorkPackageID: id}}, nil
			}

			result, err := svc.List(ctx, &model.User{ID: 1}, 42, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
		})

		It("hides work packages the actor cannot view", func() {
			_, err := svc.List(ctx, &model.User{ID: 1}, 42, 10)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("passes through missing work packages", func() {
			workPackages.getByIDFn = nil

			_, err := svc.List(ctx, &model.User{ID: 1}, 42, 10)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})
})
