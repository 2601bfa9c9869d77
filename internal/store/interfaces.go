package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/phoexer/openproject/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDeliveryNotPending is returned by Complete when the record is no longer
// pending, e.g. another owner took it over after the lease and finished first.
var ErrDeliveryNotPending = errors.New("delivery record is not pending")

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	// HasPermission reports whether the user holds the permission on the project
	// through a membership role, or through the non-member role on a public project.
	HasPermission(ctx context.Context, userID, projectID int64, permission model.Permission) (bool, error)
}

type WorkPackageStore interface {
	GetByID(ctx context.Context, id int64) (*model.WorkPackage, error)
	// Touch moves updated_at forward to at. Older timestamps are ignored.
	Touch(ctx context.Context, id int64, at time.Time) error
}

type JournalStore interface {
	// Append inserts the journal unless one already exists for the same
	// delivery and work package. created is false in that case.
	Append(ctx context.Context, journal *model.Journal) (created bool, err error)
	ListByWorkPackage(ctx context.Context, workPackageID int64, limit int32) ([]model.Journal, error)
}

// DeliveryRecordStore persists the processing state of webhook deliveries.
// Implementations live here (postgres), in redisdelivery and in memdelivery.
type DeliveryRecordStore interface {
	Get(ctx context.Context, deliveryID string) (*model.DeliveryRecord, error)
	// PutIfAbsent stores record only if no record exists for its delivery id.
	PutIfAbsent(ctx context.Context, record *model.DeliveryRecord) (bool, error)
	// Retry moves a failed record, or a pending one last updated before
	// staleBefore, back to pending. It reports whether the caller now owns it.
	Retry(ctx context.Context, deliveryID string, staleBefore time.Time) (bool, error)
	// Complete records the final status of a pending record.
	Complete(ctx context.Context, deliveryID string, status model.DeliveryStatus, outcome json.RawMessage, errMsg *string) error
}
