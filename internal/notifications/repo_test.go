package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  data TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func insertNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, read bool, created time.Time) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationTypeOrder,
		Title:     "Order update",
		Message:   "Your order moved forward.",
		CreatedAt: created,
	}
	if read {
		readAt := created.Add(time.Minute)
		notification.ReadAt = &readAt
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestRepositoryListUnreadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	insertNotification(t, db, userID, true, now.Add(-2*time.Hour))
	unread := insertNotification(t, db, userID, false, now.Add(-time.Hour))
	insertNotification(t, db, uuid.New(), false, now)

	records, total, err := repo.List(context.Background(), listParams{
		UserID:     userID,
		UnreadOnly: true,
		Page:       pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, unread.ID, records[0].ID)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	insertNotification(t, db, userID, false, now.Add(-time.Hour))
	latest := insertNotification(t, db, userID, false, now)

	records, total, err := repo.List(context.Background(), listParams{
		UserID: userID,
		Page:   pagination.Params{Limit: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, records, 1)
	assert.Equal(t, latest.ID, records[0].ID)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	notification := insertNotification(t, db, userID, false, time.Now().UTC())

	now := time.Now().UTC()
	mark, err := repo.MarkRead(context.Background(), userID, notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	// A second mark is a no-op but the row is still found.
	mark, err = repo.MarkRead(context.Background(), userID, notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)
}

func TestRepositoryMarkReadWrongUser(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	notification := insertNotification(t, db, uuid.New(), false, time.Now().UTC())

	mark, err := repo.MarkRead(context.Background(), uuid.New(), notification.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, mark.Found)
	assert.False(t, mark.Updated)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	insertNotification(t, db, userID, false, now.Add(-2*time.Minute))
	insertNotification(t, db, userID, false, now.Add(-time.Minute))
	insertNotification(t, db, userID, true, now)

	updated, err := repo.MarkAllRead(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	records, total, err := repo.List(context.Background(), listParams{
		UserID:     userID,
		UnreadOnly: true,
		Page:       pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, records)
}
