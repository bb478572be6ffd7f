// Package repo – audit log persistence.
//
// The audit log is append-only: entries are inserted once after a dispatch
// attempt settles and are never updated or deleted. Reads exist for
// debugging and abuse investigation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// AppendAudit inserts one immutable audit entry.
func AppendAudit(ctx context.Context, db *gorm.DB, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(e).Error
}

// ListAuditByRecipient returns the most recent entries for one recipient,
// newest first, capped at limit.
func ListAuditByRecipient(ctx context.Context, db *gorm.DB, recipientID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.AuditEntry
	err := db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountAuditByOutcome returns how many entries carry the given outcome for
// an event key. Used by preference-effectiveness reporting.
func CountAuditByOutcome(ctx context.Context, db *gorm.DB, eventKey string, outcome domain.Outcome) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AuditEntry{}).
		Where("event_key = ? AND outcome = ?", eventKey, outcome).
		Count(&total).Error
	return total, err
}
