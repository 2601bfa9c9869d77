package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/phoexer/openproject/common/logger"
	"github.com/phoexer/openproject/internal/model"
)

type FailurePolicy string

const (
	// FailOnAny fails the delivery when any eligible work package could not be journaled.
	FailOnAny FailurePolicy = "any"
	// FailOnAll fails the delivery only when no eligible work package was journaled.
	FailOnAll FailurePolicy = "all"
)

type Request struct {
	Provider   string
	EventType  string
	DeliveryID string
	Payload    map[string]any
	Actor      *model.User
}

type DispatcherConfig struct {
	// AllowedHosts limits references to links on these hosts. Empty allows any host.
	AllowedHosts  []string
	FailurePolicy FailurePolicy
}

type Dispatcher struct {
	classifier   *Classifier
	filter       *PermissionFilter
	recorder     *Recorder
	dedup        *Deduplicator
	allowedHosts map[string]struct{}
	policy       FailurePolicy
}

func NewDispatcher(classifier *Classifier, filter *PermissionFilter, recorder *Recorder, dedup *Deduplicator, cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		classifier: classifier,
		filter:     filter,
		recorder:   recorder,
		dedup:      dedup,
		policy:     cfg.FailurePolicy,
	}
	if d.policy == "" {
		d.policy = FailOnAny
	}
	if len(cfg.AllowedHosts) > 0 {
		d.allowedHosts = make(map[string]struct{}, len(cfg.AllowedHosts))
		for _, h := range cfg.AllowedHosts {
			d.allowedHosts[strings.ToLower(h)] = struct{}{}
		}
	}
	return d
}

// Process handles one webhook delivery. A delivery id that already succeeded
// returns the stored outcome with Replayed set. When the failure policy marks
// the delivery failed, the outcome is returned together with ErrDeliveryFailed.
func (d *Dispatcher) Process(ctx context.Context, req Request) (*Outcome, error) {
	if req.Actor == nil {
		return nil, ErrMissingActor
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeliveryID: logger.Ptr(req.DeliveryID),
		Provider:   logger.Ptr(req.Provider),
		EventType:  logger.Ptr(req.EventType),
		UserID:     logger.Ptr(req.Actor.ID),
		Component:  "openproject.webhook.dispatcher",
	})

	span := logger.StartSpan(ctx, "webhook.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("webhook.provider", req.Provider),
		attribute.String("webhook.event_type", req.EventType),
		attribute.String("webhook.delivery_id", req.DeliveryID),
	)

	out, err := d.dedup.Guard(span.Context(), req.Provider, req.DeliveryID, func(ctx context.Context) (*Outcome, error) {
		return d.handle(ctx, req)
	})
	if err != nil {
		span.RecordError(err)
	}
	if out != nil {
		span.SetAttributes(
			attribute.Bool("webhook.replayed", out.Replayed),
			attribute.Bool("webhook.ignored", out.Ignored),
			attribute.Int("webhook.items_journaled", out.ItemsJournaled),
		)
	}
	return out, err
}

func (d *Dispatcher) handle(ctx context.Context, req Request) (*Outcome, error) {
	event, ok, err := d.classifier.Classify(req.EventType, req.Payload)
	if err != nil {
		slog.WarnContext(ctx, "malformed webhook payload", "error", err)
		return nil, err
	}
	if !ok {
		slog.DebugContext(ctx, "ignoring webhook event", "action", req.Payload["action"])
		return &Outcome{Ignored: true}, nil
	}
	// Journals are unique per (delivery, work package). Deliveries without an
	// id get a key of their own so they never collide with each other.
	journalKey := req.DeliveryID
	if journalKey == "" {
		journalKey = "local-" + uuid.NewString()
	}
	event = withDelivery(event, req.Provider, journalKey)

	refs := d.references(ctx, event)
	out := &Outcome{ItemsConsidered: len(refs)}
	if len(refs) == 0 {
		return out, nil
	}

	filtered, err := d.filter.Filter(ctx, req.Actor, refs)
	if err != nil {
		return nil, fmt.Errorf("filtering references: %w", err)
	}
	out.ItemsSkippedForPermission = filtered.Denied
	out.ItemsNotFound = filtered.NotFound
	out.ItemsFailed = append(out.ItemsFailed, filtered.Failed...)

	for _, item := range filtered.Eligible {
		itemCtx := logger.WithLogFields(ctx, logger.LogFields{WorkPackageID: logger.Ptr(item.WorkPackage.ID)})

		created, err := d.recorder.Record(itemCtx, item.WorkPackage, req.Actor, event)
		switch {
		case err != nil:
			slog.ErrorContext(itemCtx, "failed to journal work package", "error", err)
			out.ItemsFailed = append(out.ItemsFailed, ItemFailure{
				WorkPackageID: item.WorkPackage.ID,
				Reason:        reasonJournalFailed,
			})
		case created:
			out.ItemsJournaled++
		default:
			out.ItemsAlreadyJournaled++
		}
	}

	slog.InfoContext(ctx, "webhook processed",
		"kind", event.Kind(),
		"considered", out.ItemsConsidered,
		"journaled", out.ItemsJournaled,
		"already_journaled", out.ItemsAlreadyJournaled,
		"failed", len(out.ItemsFailed))

	if d.failed(out) {
		return out, fmt.Errorf("%w: %d of %d work packages not journaled", ErrDeliveryFailed, len(out.ItemsFailed), out.eligible())
	}
	return out, nil
}

// references collects links from every body. The host policy is applied per
// link before ids are collapsed, so an allowed link is kept even when a
// foreign link to the same id came first.
func (d *Dispatcher) references(ctx context.Context, event Event) []Reference {
	bodies := event.Meta().Bodies
	groups := make([][]Reference, 0, len(bodies))
	for _, body := range bodies {
		refs := scanReferences(body)
		if d.allowedHosts != nil {
			kept := refs[:0]
			for _, ref := range refs {
				if d.hostAllowed(ref.URL) {
					kept = append(kept, ref)
					continue
				}
				slog.DebugContext(ctx, "dropping reference to foreign host", "url", logger.Truncate(ref.URL, 200))
			}
			refs = kept
		}
		groups = append(groups, refs)
	}
	return mergeReferences(groups...)
}

func (d *Dispatcher) hostAllowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	_, ok := d.allowedHosts[strings.ToLower(u.Hostname())]
	return ok
}

func (d *Dispatcher) failed(out *Outcome) bool {
	if len(out.ItemsFailed) == 0 {
		return false
	}
	if d.policy == FailOnAll {
		return out.ItemsJournaled+out.ItemsAlreadyJournaled == 0
	}
	return true
}
