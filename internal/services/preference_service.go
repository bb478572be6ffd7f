// Package services – PreferenceService
//
// This file implements PreferenceService, the surface through which users
// inspect and change their per-event delivery settings. Rows are created
// lazily on the first explicit choice; reading a never-configured event
// returns the synthesized defaults rather than an error.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/registry"
	"github.com/tbourn/go-notify-backend/internal/repo"
	"github.com/tbourn/go-notify-backend/internal/schedule"
)

// PreferenceUpdate carries one user's explicit settings for an event.
// Channel pointers follow the inherit-when-nil convention of the stored
// model.
type PreferenceUpdate struct {
	EmailEnabled    *bool
	ToastEnabled    *bool
	DatabaseEnabled *bool
	PushEnabled     *bool

	QuietHoursEnabled bool
	QuietHoursStart   string
	QuietHoursEnd     string

	Frequency    string
	BatchEnabled bool
	Timezone     string
}

// PreferenceService reads and stores per-event user preferences.
type PreferenceService struct {
	DB       *gorm.DB
	Registry *registry.Registry
}

// Get returns the stored preference for (userID, eventKey), or a defaults
// row (instant, inherit all channels) when the user never configured the
// event. ErrUnknownEvent when the key names no active event.
func (s *PreferenceService) Get(ctx context.Context, userID, eventKey string) (*domain.UserPreference, error) {
	if !s.Registry.Has(eventKey) {
		return nil, ErrUnknownEvent
	}
	stored, err := repo.GetPreference(ctx, s.DB, userID, eventKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return &domain.UserPreference{
			UserID:    userID,
			EventKey:  eventKey,
			Frequency: domain.FreqInstant,
		}, nil
	}
	return stored, nil
}

// Update validates and stores the user's explicit choice, creating the row
// on first write.
func (s *PreferenceService) Update(ctx context.Context, userID, eventKey string, in PreferenceUpdate) (*domain.UserPreference, error) {
	tr := otel.Tracer("services/PreferenceService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("event.key", eventKey),
		),
	)
	defer span.End()

	if !s.Registry.Has(eventKey) {
		return nil, ErrUnknownEvent
	}

	freq, ok := domain.ParseFrequency(in.Frequency)
	if !ok {
		return nil, ErrInvalidFrequency
	}
	if in.QuietHoursEnabled {
		if _, err := schedule.ParseClock(in.QuietHoursStart); err != nil {
			return nil, ErrInvalidQuietHours
		}
		if _, err := schedule.ParseClock(in.QuietHoursEnd); err != nil {
			return nil, ErrInvalidQuietHours
		}
	}
	if in.Timezone != "" {
		if _, err := time.LoadLocation(in.Timezone); err != nil {
			return nil, ErrInvalidTimezone
		}
	}

	return repo.UpsertPreference(ctx, s.DB, &domain.UserPreference{
		UserID:            userID,
		EventKey:          eventKey,
		EmailEnabled:      in.EmailEnabled,
		ToastEnabled:      in.ToastEnabled,
		DatabaseEnabled:   in.DatabaseEnabled,
		PushEnabled:       in.PushEnabled,
		QuietHoursEnabled: in.QuietHoursEnabled,
		QuietHoursStart:   in.QuietHoursStart,
		QuietHoursEnd:     in.QuietHoursEnd,
		Frequency:         freq,
		BatchEnabled:      in.BatchEnabled,
		Timezone:          in.Timezone,
	})
}
