package redisdelivery_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
	"github.com/phoexer/openproject/internal/store/redisdelivery"
)

var _ = Describe("Store", func() {
	var (
		client *redis.Client
		s      *redisdelivery.Store
		ctx    context.Context
		prefix string
	)

	BeforeEach(func() {
		url := os.Getenv("REDIS_TEST_URL")
		if url == "" {
			Skip("REDIS_TEST_URL not set")
		}
		opts, err := redis.ParseURL(url)
		Expect(err).NotTo(HaveOccurred())

		client = redis.NewClient(opts)
		ctx = context.Background()
		prefix = fmt.Sprintf("openproject:test:%d", GinkgoRandomSeed()+int64(GinkgoParallelProcess()))
		s = redisdelivery.New(client, prefix)

		DeferCleanup(func() {
			keys, _ := client.Keys(ctx, prefix+":*").Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
			_ = client.Close()
		})
	})

	pending := func(id string) *model.DeliveryRecord {
		return &model.DeliveryRecord{DeliveryID: id, Provider: "github", Status: model.DeliveryStatusPending}
	}

	It("returns ErrNotFound for unknown deliveries", func() {
		_, err := s.Get(ctx, "missing")
		Expect(err).To(MatchError(store.ErrNotFound))

		_, err = s.Retry(ctx, "missing", time.Now())
		Expect(err).To(MatchError(store.ErrNotFound))

		err = s.Complete(ctx, "missing", model.DeliveryStatusFailed, nil, nil)
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
		Expect(record.Provider).To(Equal("github"))
		Expect(record.Status).To(Equal(model.DeliveryStatusPending))
	})

	It("round-trips outcome and error through Complete", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))

		msg := "journal write failed"
		Expect(s.Complete(ctx, "d-1", model.DeliveryStatusFailed, json.RawMessage(`{"items_failed":[]}`), &msg)).To(Succeed())

		record, err := s.Get(ctx, "d-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(model.DeliveryStatusFailed))
		Expect(record.Outcome).To(MatchJSON(`{"items_failed":[]}`))
		Expect(record.Error).To(HaveValue(Equal(msg)))
	})

	It("reclaims failed and stale pending records only", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))

		ok, err := s.Retry(ctx, "d-1", time.Now().Add(-time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		ok, err = s.Retry(ctx, "d-1", time.Now().Add(time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		Expect(s.Complete(ctx, "d-1", model.DeliveryStatusSucceeded, nil, nil)).To(Succeed())
		ok, err = s.Retry(ctx, "d-1", time.Now().Add(time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("does not overwrite a record that is no longer pending", func() {
		_, _ = s.PutIfAbsent(ctx, pending("d-1"))
		Expect(s.Complete(ctx, "d-1", model.DeliveryStatusSucceeded, nil, nil)).To(Succeed())

		err := s.Complete(ctx, "d-1", model.DeliveryStatusFailed, nil, nil)
		Expect(err).To(MatchError(store.ErrDeliveryNotPending))

		record, err := s.Get(ctx, "d-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
	})
})
