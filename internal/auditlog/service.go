package auditlog

import (
	"context"
	"fmt"

	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service defines the audit log query surface consumed by the controllers.
type Service interface {
	UserActivity(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error)
	RecentActions(ctx context.Context, action enums.LogAction, params pagination.Params) (*PageDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an auditlog query service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auditlog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) UserActivity(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error) {
	page, err := s.repo.UserActivity(ctx, userID, params)
	if err != nil {
		return nil, wrapQueryErr(err, "db: user activity")
	}
	return pageFromRepo(page), nil
}

func (s *service) RecentActions(ctx context.Context, action enums.LogAction, params pagination.Params) (*PageDTO, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid log action %q", action))
	}
	page, err := s.repo.RecentActions(ctx, action, params)
	if err != nil {
		return nil, wrapQueryErr(err, "db: recent actions")
	}
	return pageFromRepo(page), nil
}

// wrapQueryErr keeps typed errors (bad cursors) intact and tags everything
// else as a dependency failure.
func wrapQueryErr(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
