// Package services – NotificationService
//
// This file implements NotificationService, the read side of the database
// channel: the user's paginated in-app feed, unread counts, and read-state
// transitions. All operations are scoped to the owning user.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
)

// FeedPage is one page of a user's notification feed plus its counters.
type FeedPage struct {
	Items  []domain.Notification
	Total  int64
	Unread int64
}

// NotificationService serves the in-app notification feed.
type NotificationService struct {
	DB *gorm.DB
}

// List returns one page of the user's feed, newest first, with total and
// unread counts for pagination and badges.
func (s *NotificationService) List(ctx context.Context, userID string, page, perPage int) (*FeedPage, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := repo.CountNotifications(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	unread, err := repo.CountUnread(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListNotificationsPage(ctx, s.DB, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Items: items, Total: total, Unread: unread}, nil
}

// MarkRead marks one owned notification as read. Idempotent for already
// read rows; ErrNotificationNotFound for missing or foreign rows.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	err := repo.MarkNotificationRead(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// MarkAllRead marks the user's whole feed as read and returns how many
// rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return repo.MarkAllNotificationsRead(ctx, s.DB, userID)
}
