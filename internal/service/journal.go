package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

var ErrForbidden = errors.New("forbidden")

const maxJournalPage = 100

type JournalService interface {
	// Append writes the journal and bumps the work package's updated_at in
	// one transaction. created is false when the journal already existed.
	Append(ctx context.Context, journal *model.Journal) (created bool, err error)
	List(ctx context.Context, actor *model.User, workPackageID int64, limit int32) ([]model.Journal, error)
}

type journalService struct {
	txRunner     TxRunner
	workPackages store.WorkPackageStore
	journals     store.JournalStore
	authz        AuthorizationService
	now          func() time.Time
}

func NewJournalService(txRunner TxRunner, workPackages store.WorkPackageStore, journals store.JournalStore, authz AuthorizationService) JournalService {
	return &journalService{
		txRunner:     txRunner,
		workPackages: workPackages,
		journals:     journals,
		authz:        authz,
		now:          time.Now,
	}
}

func (s *journalService) Append(ctx context.Context, journal *model.Journal) (bool, error) {
	var created bool
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		created, err = stores.Journals().Append(ctx, journal)
		if err != nil {
			return fmt.Errorf("appending journal: %w", err)
		}
		if !created {
			return nil
		}

		at := journal.CreatedAt
		if at.IsZero() {
			at = s.now()
		}
		if err := stores.WorkPackages().Touch(ctx, journal.WorkPackageID, at); err != nil {
			return fmt.Errorf("touching work package: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		slog.DebugContext(ctx, "journal appended", "journal_id", journal.ID, "work_package_id", journal.WorkPackageID)
	}
	return created, nil
}

func (s *journalService) List(ctx context.Context, actor *model.User, workPackageID int64, limit int32) ([]model.Journal, error) {
	wp, err := s.workPackages.GetByID(ctx, workPackageID)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.Allowed(ctx, actor, wp.ProjectID, model.PermissionViewWorkPackages)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Indistinguishable from a missing work package.
		return nil, store.ErrNotFound
	}

	if limit <= 0 || limit > maxJournalPage {
		limit = maxJournalPage
	}
	return s.journals.ListByWorkPackage(ctx, workPackageID, limit)
}
