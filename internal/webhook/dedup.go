package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

// DeliveryRecordStore is implemented by the postgres, redis and memory
// delivery stores.
type DeliveryRecordStore interface {
	Get(ctx context.Context, deliveryID string) (*model.DeliveryRecord, error)
	PutIfAbsent(ctx context.Context, record *model.DeliveryRecord) (bool, error)
	Retry(ctx context.Context, deliveryID string, staleBefore time.Time) (bool, error)
	Complete(ctx context.Context, deliveryID string, status model.DeliveryStatus, outcome json.RawMessage, errMsg *string) error
}

type Operation func(ctx context.Context) (*Outcome, error)

type DedupConfig struct {
	// InFlightTimeout bounds how long a duplicate waits for the attempt that
	// owns the delivery.
	InFlightTimeout time.Duration
	// PendingLease is how long a pending record is honored before another
	// process may take it over.
	PendingLease time.Duration
	PollInterval time.Duration
}

// Deduplicator runs each delivery id at most once at a time and never again
// after it succeeded. Same-process duplicates share one execution; duplicates
// in other processes poll the delivery record.
type Deduplicator struct {
	store DeliveryRecordStore
	cfg   DedupConfig
	group singleflight.Group
	now   func() time.Time
}

func NewDeduplicator(store DeliveryRecordStore, cfg DedupConfig) *Deduplicator {
	if cfg.InFlightTimeout <= 0 {
		cfg.InFlightTimeout = 15 * time.Second
	}
	if cfg.PendingLease <= 0 {
		cfg.PendingLease = 5 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	return &Deduplicator{store: store, cfg: cfg, now: time.Now}
}

func (d *Deduplicator) Guard(ctx context.Context, provider, deliveryID string, op Operation) (*Outcome, error) {
	if deliveryID == "" {
		slog.WarnContext(ctx, "delivery without id processed without deduplication", "provider", provider)
		return op(ctx)
	}

	// owner is closed only when this caller's function is the one singleflight
	// runs. The owner waits for its own op; only waiters are bounded.
	owner := make(chan struct{})
	ch := d.group.DoChan(deliveryID, func() (any, error) {
		close(owner)
		return d.guard(ctx, provider, deliveryID, op)
	})

	timer := time.NewTimer(d.cfg.InFlightTimeout)
	defer timer.Stop()
	expired := timer.C
	started := (<-chan struct{})(owner)

	for {
		select {
		case res := <-ch:
			out, _ := res.Val.(*Outcome)
			if res.Shared {
				out = out.clone()
			}
			return out, res.Err
		case <-started:
			started = nil
			expired = nil
		case <-expired:
			return nil, ErrDeliveryInFlight
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (d *Deduplicator) guard(ctx context.Context, provider, deliveryID string, op Operation) (*Outcome, error) {
	deadline := d.now().Add(d.cfg.InFlightTimeout)

	for {
		record, err := d.store.Get(ctx, deliveryID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			created, err := d.store.PutIfAbsent(ctx, &model.DeliveryRecord{
				DeliveryID: deliveryID,
				Provider:   provider,
				Status:     model.DeliveryStatusPending,
			})
			if err != nil {
				return nil, fmt.Errorf("claiming delivery: %w", err)
			}
			if created {
				return d.run(ctx, deliveryID, op)
			}
			continue
		case err != nil:
			return nil, fmt.Errorf("reading delivery record: %w", err)
		}

		switch record.Status {
		case model.DeliveryStatusSucceeded:
			return replay(record)

		case model.DeliveryStatusFailed:
			slog.InfoContext(ctx, "retrying failed delivery")
			claimed, err := d.store.Retry(ctx, deliveryID, d.now().Add(-d.cfg.PendingLease))
			if err != nil {
				return nil, fmt.Errorf("reclaiming delivery: %w", err)
			}
			if claimed {
				return d.run(ctx, deliveryID, op)
			}

		default:
			if record.UpdatedAt.Before(d.now().Add(-d.cfg.PendingLease)) {
				slog.WarnContext(ctx, "taking over abandoned delivery", "pending_since", record.UpdatedAt)
				claimed, err := d.store.Retry(ctx, deliveryID, d.now().Add(-d.cfg.PendingLease))
				if err != nil {
					return nil, fmt.Errorf("reclaiming delivery: %w", err)
				}
				if claimed {
					return d.run(ctx, deliveryID, op)
				}
			}
		}

		if !d.now().Before(deadline) {
			return nil, ErrDeliveryInFlight
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.cfg.PollInterval):
		}
	}
}

func (d *Deduplicator) run(ctx context.Context, deliveryID string, op Operation) (*Outcome, error) {
	out, opErr := op(ctx)

	status := model.DeliveryStatusSucceeded
	var errMsg *string
	if opErr != nil {
		status = model.DeliveryStatusFailed
		msg := opErr.Error()
		errMsg = &msg
	}

	var payload json.RawMessage
	if out != nil {
		var err error
		if payload, err = json.Marshal(out); err != nil {
			return out, fmt.Errorf("encoding outcome: %w", err)
		}
	}

	// Completion must land even if the request was cancelled.
	if err := d.store.Complete(context.WithoutCancel(ctx), deliveryID, status, payload, errMsg); err != nil {
		if errors.Is(err, store.ErrDeliveryNotPending) {
			slog.WarnContext(ctx, "delivery was completed by another owner", "status", status)
		} else {
			slog.ErrorContext(ctx, "failed to record delivery outcome", "status", status, "error", err)
		}
	}
	return out, opErr
}

func replay(record *model.DeliveryRecord) (*Outcome, error) {
	out := &Outcome{}
	if len(record.Outcome) > 0 {
		if err := json.Unmarshal(record.Outcome, out); err != nil {
			return nil, fmt.Errorf("decoding stored outcome: %w", err)
		}
	}
	out.Replayed = true
	return out, nil
}
