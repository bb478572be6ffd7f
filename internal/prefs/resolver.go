// Package prefs implements the preference resolver: it merges a recipient's
// stored per-event preference record over the template defaults into one
// fully-defined EffectivePreference.
//
// Resolution never fails on missing data. No stored row means "inherit
// everything": all template-enabled channels active, instant frequency,
// quiet hours disabled, UTC timezone.
package prefs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
)

// EffectivePreference is the merged, fully-defined delivery policy for one
// (user, event) pair. Every field has a concrete value; there is no
// "unset" state left after resolution.
type EffectivePreference struct {
	// Channels holds the final per-channel enablement:
	// template flag AND (explicit user flag, defaulting to true when unset).
	Channels map[domain.Channel]bool

	Frequency    domain.Frequency
	BatchEnabled bool

	QuietHoursEnabled bool
	QuietHoursStart   string // "HH:MM" recipient-local
	QuietHoursEnd     string // "HH:MM" recipient-local

	// Location is the recipient's resolved timezone (UTC when unset or
	// unparseable). Quiet hours and digest cadence boundaries are
	// evaluated in this location.
	Location *time.Location
}

// EnabledChannels returns the channels enabled after the merge, in fan-out
// order.
func (e *EffectivePreference) EnabledChannels() []domain.Channel {
	var out []domain.Channel
	for _, ch := range domain.AllChannels {
		if e.Channels[ch] {
			out = append(out, ch)
		}
	}
	return out
}

// Resolver loads stored preferences and merges them over template defaults.
type Resolver struct {
	// DB is the GORM handle used to load stored preference rows.
	DB *gorm.DB
}

// NewResolver constructs a Resolver bound to the given database handle.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{DB: db}
}

// Resolve returns the effective preference for userID and the given
// template. A storage error falls back to pure template defaults rather
// than failing the dispatch: a broken preference read must not block
// delivery.
func (r *Resolver) Resolve(ctx context.Context, userID string, tpl *domain.Template) *EffectivePreference {
	stored, err := repo.GetPreference(ctx, r.DB, userID, tpl.EventKey)
	if err != nil {
		stored = nil
	}
	return Merge(tpl, stored)
}

// Merge computes the effective preference from template defaults and an
// optional stored record. stored may be nil.
func Merge(tpl *domain.Template, stored *domain.UserPreference) *EffectivePreference {
	eff := &EffectivePreference{
		Channels:  make(map[domain.Channel]bool, len(domain.AllChannels)),
		Frequency: domain.FreqInstant,
		Location:  time.UTC,
	}

	for _, ch := range domain.AllChannels {
		enabled := tpl.ChannelEnabled(ch)
		if stored != nil {
			if ov := stored.ChannelOverride(ch); ov != nil {
				enabled = enabled && *ov
			}
		}
		eff.Channels[ch] = enabled
	}

	if stored == nil {
		return eff
	}

	if _, ok := domain.ParseFrequency(string(stored.Frequency)); ok {
		eff.Frequency = stored.Frequency
	}
	eff.BatchEnabled = stored.BatchEnabled
	eff.QuietHoursEnabled = stored.QuietHoursEnabled
	eff.QuietHoursStart = stored.QuietHoursStart
	eff.QuietHoursEnd = stored.QuietHoursEnd

	if stored.Timezone != "" {
		if loc, err := time.LoadLocation(stored.Timezone); err == nil {
			eff.Location = loc
		}
	}
	return eff
}
