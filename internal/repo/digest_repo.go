// Package repo – digest queue persistence.
//
// Digest items are the durable form of deferred dispatches. Enqueue inserts
// one item; the flush worker drains due items per recipient and deletes
// them after delivery; the retention sweep removes items that sat unflushed
// past their expiry.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// EnqueueDigestItem inserts one deferred payload into the digest queue.
func EnqueueDigestItem(ctx context.Context, db *gorm.DB, item *domain.DigestItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(item).Error
}

// ListDueRecipients returns the distinct recipient ids that have at least
// one item of the given cadence due at or before now.
func ListDueRecipients(ctx context.Context, db *gorm.DB, cadence domain.Frequency, now time.Time) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.DigestItem{}).
		Where("cadence = ? AND deliver_at <= ?", cadence, now).
		Distinct("recipient_id").
		Pluck("recipient_id", &out).Error
	return out, err
}

// ListDueItems returns one recipient's due items for a cadence, oldest first.
func ListDueItems(ctx context.Context, db *gorm.DB, recipientID string, cadence domain.Frequency, now time.Time) ([]domain.DigestItem, error) {
	var out []domain.DigestItem
	err := db.WithContext(ctx).
		Where("recipient_id = ? AND cadence = ? AND deliver_at <= ?", recipientID, cadence, now).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// DeleteDigestItems removes delivered items by id.
func DeleteDigestItems(ctx context.Context, db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.DigestItem{}).Error
}

// ListExpiredItems returns items that sat unflushed past their retention
// ceiling. They are about to be dropped and audited as frequency_dropped.
func ListExpiredItems(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]domain.DigestItem, error) {
	if limit <= 0 {
		limit = 500
	}
	var out []domain.DigestItem
	err := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
