package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/service"
)

var _ = Describe("AuthorizationService", func() {
	var (
		ctx      context.Context
		projects *mockProjectStore
		svc      service.AuthorizationService
	)

	BeforeEach(func() {
		ctx = context.Background()
		projects = &mockProjectStore{}
		svc = service.NewAuthorizationService(projects)
	})

	DescribeTable("short circuits",
		func(user *model.User, want bool) {
			ok, err := svc.Allowed(ctx, user, 1, model.PermissionViewWorkPackages)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(Equal(want))
			Expect(projects.calls).To(BeZero())
		},
		Entry("no user", nil, false),
		Entry("locked user", &model.User{ID: 1, Locked: true}, false),
		Entry("locked admin", &model.User{ID: 1, Locked: true, Admin: true}, false),
		Entry("admin", &model.User{ID: 1, Admin: true}, true),
	)

	It("asks the project store for members", func() {
		projects.hasPermissionFn = func(_ context.Context, userID, projectID int64, permission model.Permission) (bool, error) {
			Expect(userID).To(Equal(int64(5)))
			Expect(projectID).To(Equal(int64(10)))
			Expect(permission).To(Equal(model.PermissionViewWorkPackages))
			return true, nil
		}

		ok, err := svc.Allowed(ctx, &model.User{ID: 5}, 10, model.PermissionViewWorkPackages)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("wraps store failures", func() {
		cause := errors.New("timeout")
		projects.hasPermissionFn = func(context.Context, int64, int64, model.Permission) (bool, error) {
			return false, cause
		}

		_, err := svc.Allowed(ctx, &model.User{ID: 5}, 10, model.PermissionViewWorkPackages)
		Expect(err).To(MatchError(cause))
	})
})
