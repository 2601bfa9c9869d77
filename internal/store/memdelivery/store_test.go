package memdelivery_test

import (
	"context"
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
	"github.com/phoexer/openproject/internal/store/memdelivery"
)

var _ = Describe("Store", func() {
	var (
		s   *memdelivery.Store
		ctx context.Context
	)

	pending := func(id string) *model.DeliveryRecord {
		return &model.DeliveryRecord{DeliveryID: id, Provider: "github", Status: model.DeliveryStatusPending}
	}

	BeforeEach(func() {
		s = memdelivery.New(100, time.Hour)
		ctx = context.Background()
	})

	It("returns ErrNotFound for unknown deliveries", func() {
		_, err := s.Get(ctx, "missing")
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("stores a record only once", func() {
		created, err := s.PutIfAbsent(ctx, pending("d-1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = s.PutIfAbsent(ctx, pending("d-1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		record, err := s.Get(ctx, "d-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(model.DeliveryStatusPending))
		Expect(record.CreatedAt).NotTo(BeZero())
	})

	It("completes a record with its outcome", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))

		outcome := json.RawMessage(`{"items_journaled":2}`)
		Expect(s.Complete(ctx, "d-1", model.DeliveryStatusSucceeded, outcome, nil)).To(Succeed())

		record, err := s.Get(ctx, "d-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
		Expect(record.Outcome).To(MatchJSON(`{"items_journaled":2}`))
	})

	It("fails to complete unknown deliveries", func() {
		err := s.Complete(ctx, "missing", model.DeliveryStatusFailed, nil, nil)
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("does not overwrite a record that is no longer pending", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))
		Expect(s.Complete(ctx, "d-1", model.DeliveryStatusSucceeded, json.RawMessage(`{"items_journaled":1}`), nil)).To(Succeed())

		msg := "late owner"
		err := s.Complete(ctx, "d-1", model.DeliveryStatusFailed, nil, &msg)
		Expect(err).To(MatchError(store.ErrDeliveryNotPending))

		record, _ := s.Get(ctx, "d-1")
		Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
		Expect(record.Error).To(BeNil())
	})

	Describe("Retry", func() {
		BeforeEach(func() {
			_, _ = s.PutIfAbsent(ctx, pending("d-1"))
		})

		It("reclaims failed records", func() {
			msg := "boom"
			Expect(s.Complete(ctx, "d-1", model.DeliveryStatusFailed, nil, &msg)).To(Succeed())

			ok, err := s.Retry(ctx, "d-1", time.Now().Add(-time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			record, _ := s.Get(ctx, "d-1")
			Expect(record.Status).To(Equal(model.DeliveryStatusPending))
			Expect(record.Error).To(BeNil())
		})

		It("leaves fresh pending records alone", func() {
			ok, err := s.Retry(ctx, "d-1", time.Now().Add(-time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("reclaims stale pending records", func() {
			ok, err := s.Retry(ctx, "d-1", time.Now().Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("never reclaims succeeded records", func() {
			Expect(s.Complete(ctx, "d-1", model.DeliveryStatusSucceeded, nil, nil)).To(Succeed())

			ok, err := s.Retry(ctx, "d-1", time.Now().Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	It("hands out copies", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))
		record, _ := s.Get(ctx, "d-1")
		record.Status = model.DeliveryStatusSucceeded

		again, _ := s.Get(ctx, "d-1")
		Expect(again.Status).To(Equal(model.DeliveryStatusPending))
	})
})
