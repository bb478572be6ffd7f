package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
	"gorm.io/gorm"
)

func seedFeed(t *testing.T, db *gorm.DB, userID string, n int) []domain.Notification {
	t.Helper()
	out := make([]domain.Notification, 0, n)
	for i := 0; i < n; i++ {
		created, err := repo.CreateNotification(context.Background(), db, userID, "booking.created", "Booking confirmed", "body", "")
		if err != nil {
			t.Fatalf("seed notification: %v", err)
		}
		out = append(out, *created)
	}
	return out
}

func TestFeed_ListPagination(t *testing.T) {
	db := newTestDB(t)
	svc := &NotificationService{DB: db}
	seedFeed(t, db, "u1", 25)
	seedFeed(t, db, "u2", 3)

	page, err := svc.List(context.Background(), "u1", 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 25 || page.Unread != 25 || len(page.Items) != 20 {
		t.Fatalf("page 1 = total=%d unread=%d items=%d", page.Total, page.Unread, len(page.Items))
	}

	page, err = svc.List(context.Background(), "u1", 2, 20)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page.Items) != 5 {
		t.Fatalf("page 2 items = %d; want 5", len(page.Items))
	}

	// Out-of-range inputs are clamped rather than erroring.
	page, err = svc.List(context.Background(), "u1", 0, 1000)
	if err != nil {
		t.Fatalf("List clamped: %v", err)
	}
	if len(page.Items) != 20 {
		t.Fatalf("clamped page items = %d; want default per-page", len(page.Items))
	}
}

func TestFeed_MarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := &NotificationService{DB: db}
	ns := seedFeed(t, db, "u1", 2)

	if err := svc.MarkRead(context.Background(), "u1", ns[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// Idempotent on a second call.
	if err := svc.MarkRead(context.Background(), "u1", ns[0].ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}

	page, err := svc.List(context.Background(), "u1", 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Unread != 1 {
		t.Fatalf("unread = %d; want 1", page.Unread)
	}

	// Missing and foreign rows are indistinguishable to the caller.
	if err := svc.MarkRead(context.Background(), "u1", "missing"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
	if err := svc.MarkRead(context.Background(), "u2", ns[1].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign: err = %v", err)
	}
}

func TestFeed_MarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc := &NotificationService{DB: db}
	seedFeed(t, db, "u1", 3)

	n, err := svc.MarkAllRead(context.Background(), "u1")
	if err != nil || n != 3 {
		t.Fatalf("MarkAllRead: n=%d err=%v", n, err)
	}
	n, err = svc.MarkAllRead(context.Background(), "u1")
	if err != nil || n != 0 {
		t.Fatalf("second MarkAllRead: n=%d err=%v", n, err)
	}
}
