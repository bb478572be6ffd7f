// Package repo – UserPreference persistence.
//
// Preferences are created lazily: a missing row is a valid state meaning
// "all template defaults, instant frequency". GetPreference therefore
// returns (nil, nil) rather than an error when no row exists.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// GetPreference fetches the stored preference for (userID, eventKey).
// A missing row returns (nil, nil); absence of data is not an error.
func GetPreference(ctx context.Context, db *gorm.DB, userID, eventKey string) (*domain.UserPreference, error) {
	var p domain.UserPreference
	err := db.WithContext(ctx).
		Where("user_id = ? AND event_key = ?", userID, eventKey).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPreference stores the user's explicit choice for one event,
// creating the row on first write and replacing mutable fields afterwards.
func UpsertPreference(ctx context.Context, db *gorm.DB, p *domain.UserPreference) (*domain.UserPreference, error) {
	return p, db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.UserPreference
		err := tx.Where("user_id = ? AND event_key = ?", p.UserID, p.EventKey).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p.ID = uuid.NewString()
			p.CreatedAt = time.Now().UTC()
			return tx.Create(p).Error
		case err != nil:
			return err
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return tx.Model(&domain.UserPreference{}).
			Where("id = ?", existing.ID).
			Select("email_enabled", "toast_enabled", "database_enabled", "push_enabled",
				"quiet_hours_enabled", "quiet_hours_start", "quiet_hours_end",
				"frequency", "batch_enabled", "timezone").
			Updates(p).Error
	})
}
