package service

import (
	"context"
	"fmt"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

// AuthorizationService answers project permission questions. Admins hold
// every permission; locked users hold none.
type AuthorizationService interface {
	Allowed(ctx context.Context, user *model.User, projectID int64, permission model.Permission) (bool, error)
}

type authorizationService struct {
	projectStore store.ProjectStore
}

func NewAuthorizationService(projectStore store.ProjectStore) AuthorizationService {
	return &authorizationService{projectStore: projectStore}
}

func (s *authorizationService) Allowed(ctx context.Context, user *model.User, projectID int64, permission model.Permission) (bool, error) {
	if !user.Active() {
		return false, nil
	}
	if user.Admin {
		return true, nil
	}

	ok, err := s.projectStore.HasPermission(ctx, user.ID, projectID, permission)
	if err != nil {
		return false, fmt.Errorf("checking %s on project %d: %w", permission, projectID, err)
	}
	return ok, nil
}
