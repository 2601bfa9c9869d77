package webhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phoexer/openproject/common/logger"
	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

type Authorizer interface {
	Allowed(ctx context.Context, user *model.User, projectID int64, permission model.Permission) (bool, error)
}

// WorkPackageLookup returns store.ErrNotFound or ErrWorkPackageNotFound for
// missing work packages.
type WorkPackageLookup interface {
	GetByID(ctx context.Context, id int64) (*model.WorkPackage, error)
}

// Eligible is a reference the actor may see, resolved to its work package.
type Eligible struct {
	Reference   Reference
	WorkPackage *model.WorkPackage
}

type FilterResult struct {
	Eligible []Eligible
	Denied   int
	NotFound int
	Failed   []ItemFailure
}

const (
	reasonLookupFailed     = "work package lookup failed"
	reasonPermissionFailed = "permission check failed"
	reasonJournalFailed    = "journal write failed"
)

type PermissionFilter struct {
	lookup     WorkPackageLookup
	authorizer Authorizer
}

func NewPermissionFilter(lookup WorkPackageLookup, authorizer Authorizer) *PermissionFilter {
	return &PermissionFilter{lookup: lookup, authorizer: authorizer}
}

// Filter keeps the references whose project grants the actor
// view_work_packages, preserving order. Each project is checked at most once
// per call. Missing work packages are skipped; lookup and authorization
// errors are reported per item and do not stop the remaining items.
func (f *PermissionFilter) Filter(ctx context.Context, actor *model.User, refs []Reference) (FilterResult, error) {
	var result FilterResult
	allowed := make(map[int64]bool)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		itemCtx := logger.WithLogFields(ctx, logger.LogFields{WorkPackageID: logger.Ptr(ref.ID)})

		wp, err := f.lookup.GetByID(itemCtx, ref.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrWorkPackageNotFound) {
				result.NotFound++
				continue
			}
			slog.WarnContext(itemCtx, "work package lookup failed", "error", err)
			result.Failed = append(result.Failed, ItemFailure{WorkPackageID: ref.ID, Reason: reasonLookupFailed})
			continue
		}

		ok, cached := allowed[wp.ProjectID]
		if !cached {
			ok, err = f.authorizer.Allowed(itemCtx, actor, wp.ProjectID, model.PermissionViewWorkPackages)
			if err != nil {
				slog.WarnContext(itemCtx, "permission check failed", "project_id", wp.ProjectID, "error", err)
				result.Failed = append(result.Failed, ItemFailure{WorkPackageID: ref.ID, Reason: reasonPermissionFailed})
				continue
			}
			allowed[wp.ProjectID] = ok
		}

		if !ok {
			result.Denied++
			continue
		}
		result.Eligible = append(result.Eligible, Eligible{Reference: ref, WorkPackage: wp})
	}

	return result, nil
}
