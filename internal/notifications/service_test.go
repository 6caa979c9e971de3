package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
)

type fakeRepo struct {
	rows []models.Notification

	lastListParams listParams
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	f.rows = append(f.rows, *notification)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, params listParams) ([]models.Notification, int64, error) {
	f.lastListParams = params
	var matched []models.Notification
	for _, row := range f.rows {
		if row.UserID != params.UserID {
			continue
		}
		if params.UnreadOnly && row.ReadAt != nil {
			continue
		}
		matched = append(matched, row)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (markResult, error) {
	for i := range f.rows {
		if f.rows[i].ID != notificationID || f.rows[i].UserID != userID {
			continue
		}
		if f.rows[i].ReadAt != nil {
			return markResult{Found: true}, nil
		}
		f.rows[i].ReadAt = &now
		return markResult{Found: true, Updated: true}, nil
	}
	return markResult{}, nil
}

func (f *fakeRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].ReadAt == nil {
			f.rows[i].ReadAt = &now
			count++
		}
	}
	return count, nil
}

func seedNotification(repo *fakeRepo, userID uuid.UUID, read bool) uuid.UUID {
	row := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    enums.NotificationTypeOrder,
		Title:   "Order shipped",
		Message: "Order TW-20260801-AAAA0001 is on its way.",
	}
	if read {
		now := time.Now()
		row.ReadAt = &now
	}
	repo.rows = append(repo.rows, row)
	return row.ID
}

func TestServiceList(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, true)
	seedNotification(repo, uuid.New(), false)

	page, err := svc.List(context.Background(), ListParams{UserID: userID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 notifications, got total=%d items=%d", page.Total, len(page.Items))
	}
	if repo.lastListParams.Page.Limit == 0 {
		t.Fatal("expected normalized limit to be applied")
	}

	unread, err := svc.List(context.Background(), ListParams{UserID: userID, UnreadOnly: true})
	if err != nil {
		t.Fatalf("List unread: %v", err)
	}
	if unread.Total != 1 {
		t.Fatalf("expected 1 unread notification, got %d", unread.Total)
	}
}

func TestServiceListRequiresUser(t *testing.T) {
	svc, err := NewService(&fakeRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.List(context.Background(), ListParams{}); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceMarkRead(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	id := seedNotification(repo, userID, false)

	if err := svc.MarkRead(context.Background(), userID, id); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if repo.rows[0].ReadAt == nil {
		t.Fatal("expected notification to be marked read")
	}

	// Marking an already-read row is not an error.
	if err := svc.MarkRead(context.Background(), userID, id); err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}

	if err := svc.MarkRead(context.Background(), userID, uuid.New()); !apperrors.HasCode(err, apperrors.CodeNotificationNotFound) {
		t.Fatalf("expected NOTIFICATION_NOT_FOUND, got %v", err)
	}

	// A different user cannot read someone else's notification.
	otherID := seedNotification(repo, uuid.New(), false)
	if err := svc.MarkRead(context.Background(), userID, otherID); !apperrors.HasCode(err, apperrors.CodeNotificationNotFound) {
		t.Fatalf("expected NOTIFICATION_NOT_FOUND, got %v", err)
	}
}

func TestServiceMarkAllRead(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, true)

	count, err := svc.MarkAllRead(context.Background(), userID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows updated, got %d", count)
	}
}
