// Package handlers – handler wiring.
//
// Handlers groups the service interfaces behind the HTTP surface. Each
// endpoint depends on a narrow interface rather than a concrete service so
// tests can swap in fakes without a database.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/services"
)

// Dispatcher runs one notification dispatch attempt to completion.
type Dispatcher interface {
	Dispatch(ctx context.Context, attempt *domain.DispatchAttempt) (*domain.DispatchResult, error)
}

// NotificationReader serves the in-app notification feed.
type NotificationReader interface {
	List(ctx context.Context, userID string, page, perPage int) (*services.FeedPage, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// PreferenceStore reads and writes per-event user preferences.
type PreferenceStore interface {
	Get(ctx context.Context, userID, eventKey string) (*domain.UserPreference, error)
	Update(ctx context.Context, userID, eventKey string, in services.PreferenceUpdate) (*domain.UserPreference, error)
}

// Handlers bundles all HTTP endpoint implementations.
type Handlers struct {
	Dispatch      Dispatcher
	Notifications NotificationReader
	Preferences   PreferenceStore
}

// New constructs the handler set over the given services.
func New(d Dispatcher, n NotificationReader, p PreferenceStore) *Handlers {
	return &Handlers{Dispatch: d, Notifications: n, Preferences: p}
}

// userID resolves the caller identity. Auth middleware (when present) sets
// the "userID" context key; the X-User-ID header is the development fallback,
// and "demo-user" the last resort so local exploration works out of the box.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if s := c.GetHeader("X-User-ID"); s != "" {
		return s
	}
	return "demo-user"
}
