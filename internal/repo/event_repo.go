// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Event and
// Template models used by the registry.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ListActiveEvents returns every active event, ordered by key. Used by the
// registry to build its lookup snapshot.
func ListActiveEvents(ctx context.Context, db *gorm.DB) ([]domain.Event, error) {
	var out []domain.Event
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("key asc").
		Find(&out).Error
	return out, err
}

// ListActiveTemplates returns every active template, most recently updated
// first, so the registry keeps the freshest row per (event, role) pair.
func ListActiveTemplates(ctx context.Context, db *gorm.DB) ([]domain.Template, error) {
	var out []domain.Template
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// CreateEvent inserts a new Event row. The ID is a generated UUID and
// CreatedAt is set to UTC.
func CreateEvent(ctx context.Context, db *gorm.DB, key, name, dedupKeys string) (*domain.Event, error) {
	e := &domain.Event{
		ID:        uuid.NewString(),
		Key:       key,
		Name:      name,
		Active:    true,
		DedupKeys: dedupKeys,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CreateTemplate inserts a new Template row with a generated UUID.
func CreateTemplate(ctx context.Context, db *gorm.DB, t *domain.Template) (*domain.Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// CountEvents returns the total number of event rows (including inactive).
// Used by the seeder to decide whether the catalogue needs populating.
func CountEvents(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Event{}).Count(&total).Error
	return total, err
}
