package webhook_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store/memdelivery"
	"github.com/phoexer/openproject/internal/webhook"
)

var _ = Describe("Deduplicator", func() {
	var (
		ctx     context.Context
		records *memdelivery.Store
		dedup   *webhook.Deduplicator
		runs    atomic.Int32
	)

	succeed := func(journaled int) webhook.Operation {
		return func(context.Context) (*webhook.Outcome, error) {
			runs.Add(1)
			return &webhook.Outcome{ItemsConsidered: journaled, ItemsJournaled: journaled}, nil
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		runs.Store(0)
		records = memdelivery.New(100, time.Hour)
		dedup = webhook.NewDeduplicator(records, webhook.DedupConfig{
			InFlightTimeout: 200 * time.Millisecond,
			PendingLease:    time.Hour,
			PollInterval:    5 * time.Millisecond,
		})
	})

	It("runs a new delivery and records success", func() {
		out, err := dedup.Guard(ctx, "github", "d-1", succeed(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.ItemsJournaled).To(Equal(2))
		Expect(out.Replayed).To(BeFalse())

		record, err := records.Get(ctx, "d-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
		Expect(record.Provider).To(Equal("github"))
	})

	It("replays a succeeded delivery without running it again", func() {
		first, err := dedup.Guard(ctx, "github", "d-1", succeed(2))
		Expect(err).NotTo(HaveOccurred())

		second, err := dedup.Guard(ctx, "github", "d-1", succeed(5))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Replayed).To(BeTrue())
		Expect(second.ItemsJournaled).To(Equal(first.ItemsJournaled))
		Expect(runs.Load()).To(Equal(int32(1)))
	})

	It("re-runs a failed delivery", func() {
		boom := errors.New("boom")
		_, err := dedup.Guard(ctx, "github", "d-1", func(context.Context) (*webhook.Outcome, error) {
			runs.Add(1)
			return nil, boom
		})
		Expect(err).To(MatchError(boom))

		record, _ := records.Get(ctx, "d-1")
		Expect(record.Status).To(Equal(model.DeliveryStatusFailed))
		Expect(record.Error).To(HaveValue(Equal("boom")))

		out, err := dedup.Guard(ctx, "github", "d-1", succeed(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Replayed).To(BeFalse())
		Expect(runs.Load()).To(Equal(int32(2)))

		record, _ = records.Get(ctx, "d-1")
		Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
	})

	It("keeps the outcome of a failed run", func() {
		out, err := dedup.Guard(ctx, "github", "d-1", func(context.Context) (*webhook.Outcome, error) {
			return &webhook.Outcome{ItemsFailed: []webhook.ItemFailure{{WorkPackageID: 3, Reason: "journal write failed"}}}, webhook.ErrDeliveryFailed
		})
		Expect(err).To(MatchError(webhook.ErrDeliveryFailed))
		Expect(out.ItemsFailed).To(HaveLen(1))

		record, _ := records.Get(ctx, "d-1")
		Expect(record.Outcome).To(MatchJSON(`{"items_considered":0,"items_journaled":0,"items_already_journaled":0,"items_skipped_for_permission":0,"items_not_found":0,"items_failed":[{"work_package_id":3,"reason":"journal write failed"}]}`))
	})

	It("runs concurrent duplicates in one process once", func() {
		release := make(chan struct{})
		op := func(context.Context) (*webhook.Outcome, error) {
			runs.Add(1)
			<-release
			return &webhook.Outcome{ItemsJournaled: 1}, nil
		}

		var wg sync.WaitGroup
		results := make([]*webhook.Outcome, 5)
		errs := make([]error, 5)
		for i := range 5 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				results[i], errs[i] = dedup.Guard(ctx, "github", "d-1", op)
			}()
		}

		Eventually(runs.Load).Should(Equal(int32(1)))
		close(release)
		wg.Wait()

		Expect(runs.Load()).To(Equal(int32(1)))
		for i := range 5 {
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(results[i].ItemsJournaled).To(Equal(1))
		}
	})

	It("waits for a delivery owned by another process", func() {
		_, _ = records.PutIfAbsent(ctx, &model.DeliveryRecord{DeliveryID: "d-1", Provider: "github", Status: model.DeliveryStatusPending})

		go func() {
			time.Sleep(30 * time.Millisecond)
			_ = records.Complete(context.Background(), "d-1", model.DeliveryStatusSucceeded, []byte(`{"items_journaled":4}`), nil)
		}()

		out, err := dedup.Guard(ctx, "github", "d-1", succeed(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Replayed).To(BeTrue())
		Expect(out.ItemsJournaled).To(Equal(4))
		Expect(runs.Load()).To(BeZero())
	})

	It("gives up with ErrDeliveryInFlight when the owner does not finish", func() {
		_, _ = records.PutIfAbsent(ctx, &model.DeliveryRecord{DeliveryID: "d-1", Provider: "github", Status: model.DeliveryStatusPending})

		_, err := dedup.Guard(ctx, "github", "d-1", succeed(1))
		Expect(err).To(MatchError(webhook.ErrDeliveryInFlight))
		Expect(runs.Load()).To(BeZero())
	})

	Context("when the owner's op outlasts the in-flight timeout", func() {
		var release chan struct{}

		slow := func() webhook.Operation {
			return func(context.Context) (*webhook.Outcome, error) {
				runs.Add(1)
				<-release
				return &webhook.Outcome{ItemsConsidered: 1, ItemsJournaled: 1}, nil
			}
		}

		BeforeEach(func() {
			release = make(chan struct{})
			dedup = webhook.NewDeduplicator(records, webhook.DedupConfig{
				InFlightTimeout: 50 * time.Millisecond,
				PendingLease:    time.Hour,
				PollInterval:    5 * time.Millisecond,
			})
		})

		It("lets the owner finish", func() {
			go func() {
				time.Sleep(200 * time.Millisecond)
				close(release)
			}()

			out, err := dedup.Guard(ctx, "github", "d-1", slow())
			Expect(err).NotTo(HaveOccurred())
			Expect(out.ItemsJournaled).To(Equal(1))

			record, err := records.Get(ctx, "d-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal(model.DeliveryStatusSucceeded))
		})

		It("bounds only the duplicate waiting on it", func() {
			ownerDone := make(chan error, 1)
			go func() {
				_, err := dedup.Guard(ctx, "github", "d-1", slow())
				ownerDone <- err
			}()
			Eventually(runs.Load).Should(Equal(int32(1)))

			_, err := dedup.Guard(ctx, "github", "d-1", slow())
			Expect(err).To(MatchError(webhook.ErrDeliveryInFlight))

			close(release)
			Eventually(ownerDone).Should(Receive(BeNil()))
			Expect(runs.Load()).To(Equal(int32(1)))
		})
	})

	It("takes over a pending delivery past its lease", func() {
		dedup = webhook.NewDeduplicator(records, webhook.DedupConfig{
			InFlightTimeout: 200 * time.Millisecond,
			PendingLease:    time.Millisecond,
			PollInterval:    5 * time.Millisecond,
		})
		_, _ = records.PutIfAbsent(ctx, &model.DeliveryRecord{DeliveryID: "d-1", Provider: "github", Status: model.DeliveryStatusPending})
		time.Sleep(5 * time.Millisecond)

		out, err := dedup.Guard(ctx, "github", "d-1", succeed(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Replayed).To(BeFalse())
		Expect(runs.Load()).To(Equal(int32(1)))
	})

	It("runs deliveries without an id unguarded", func() {
		for range 2 {
			_, err := dedup.Guard(ctx, "github", "", succeed(1))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(runs.Load()).To(Equal(int32(2)))
	})
})
