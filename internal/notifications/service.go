package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

// Service defines notification list/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error) {
	if params.UserID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "user id required")
	}

	page := pagination.Params{Limit: params.Limit, Offset: params.Offset}.Normalize()
	rows, total, err := s.repo.List(ctx, listParams{
		UserID:     params.UserID,
		UnreadOnly: params.UnreadOnly,
		Page:       page,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "list notifications")
	}

	return &pagination.Page[models.Notification]{
		Items:  rows,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return apperrors.New(apperrors.CodeNotificationNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, apperrors.New(apperrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
