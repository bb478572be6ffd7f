// Package repo – in-app Notification persistence.
//
// Functions:
//
//   - CreateNotification(ctx, db, n) -> *domain.Notification, error
//     Inserts the persistent record written by the database channel.
//
//   - CountNotifications / CountUnread(ctx, db, userID)
//     Totals for pagination metadata and unread badges.
//
//   - ListNotificationsPage(ctx, db, userID, offset, limit)
//     Returns a page of the user's feed, most recent first.
//
//   - MarkNotificationRead(ctx, db, id, userID)
//     Sets read state; ErrNotFound when the row is missing or not owned.
//
//   - MarkAllNotificationsRead(ctx, db, userID)
//     Bulk read-state update, returns the number of rows touched.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// CreateNotification inserts a new in-app notification owned by userID.
func CreateNotification(ctx context.Context, db *gorm.DB, userID, eventKey, title, body, actionURL string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventKey:  eventKey,
		Title:     title,
		Body:      body,
		ActionURL: actionURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// CountNotifications returns the total number of notifications for userID.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// CountUnread returns the number of unread notifications for userID.
func CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&total).Error
	return total, err
}

// ListNotificationsPage returns a paginated slice of the user's feed,
// ordered by creation time descending.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead sets the read flag on one notification, enforcing
// ownership. Marking an already-read notification is an idempotent no-op.
// Returns ErrNotFound when the row is missing or owned by someone else.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID string) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"read": true, "read_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification for userID as
// read and returns the number of rows updated.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": &now})
	return res.RowsAffected, res.Error
}
