// Package domain defines the persistence models for the notification engine:
// events, templates, user preferences, in-app notifications, digest items,
// and the append-only audit log. These types are mapped with GORM and form
// the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event is a named domain occurrence that may trigger notifications
// (e.g. "booking.created"). Events are created by configuration/seed,
// rarely mutated, and never deleted while templates reference them.
//
// Fields:
//   - Key: unique, stable identifier supplied by callers of dispatch.
//   - Name: human-readable description for back-office tooling.
//   - Active: inactive events fail dispatch with UnknownEvent.
//   - DedupKeys: CSV of variable names considered identity-bearing for
//     duplicate suppression (e.g. "booking_id"). Empty means the full
//     canonicalized variable bag is fingerprinted.
type Event struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Key       string         `json:"key"        gorm:"type:varchar(64);not null;uniqueIndex:ux_event_key"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	// No column default: GORM drops zero-valued fields that carry one, which
	// would turn an explicit Active=false into true on insert.
	Active    bool           `json:"active"     gorm:"not null"`
	DedupKeys string         `json:"dedup_keys" gorm:"type:varchar(255);not null;default:''"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }

// Template holds the channel enablement flags and content fragments for one
// (event, recipient role) pair. Content fragments may contain {placeholder}
// tokens substituted from the dispatch variable bag; missing placeholders
// render as empty strings rather than failing the dispatch.
//
// Exactly one active template per (event, role) is used at dispatch time;
// the registry picks the most recently updated active row when several exist.
type Template struct {
	ID            string `json:"id"             gorm:"type:char(36);primaryKey"`
	EventKey      string `json:"event_key"      gorm:"type:varchar(64);not null;index:idx_tpl_event_role,priority:1"`
	RecipientRole Role   `json:"recipient_role" gorm:"type:varchar(16);not null;index:idx_tpl_event_role,priority:2;check:recipient_role IN ('customer','provider','admin')"`
	Active        bool   `json:"active"         gorm:"not null"`

	// Per-channel enable flags.
	EmailEnabled    bool `json:"email_enabled"    gorm:"not null;default:false"`
	ToastEnabled    bool `json:"toast_enabled"    gorm:"not null;default:false"`
	DatabaseEnabled bool `json:"database_enabled" gorm:"not null;default:false"`
	PushEnabled     bool `json:"push_enabled"     gorm:"not null;default:false"`

	// Content fragments.
	EmailSubject  string `json:"email_subject"  gorm:"type:varchar(255)"`
	EmailBody     string `json:"email_body"     gorm:"type:text"`
	ToastType     string `json:"toast_type"     gorm:"type:varchar(16);not null;default:'info'"`
	ToastTitle    string `json:"toast_title"    gorm:"type:varchar(255)"`
	ToastMessage  string `json:"toast_message"  gorm:"type:text"`
	ToastDuration int    `json:"toast_duration" gorm:"not null;default:5000"` // milliseconds
	InAppTitle    string `json:"in_app_title"   gorm:"type:varchar(255)"`
	InAppBody     string `json:"in_app_body"    gorm:"type:text"`
	ActionURL     string `json:"action_url"     gorm:"type:varchar(512)"`
	PushTitle     string `json:"push_title"     gorm:"type:varchar(255)"`
	PushBody      string `json:"push_body"      gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Template.
func (Template) TableName() string { return "templates" }

// ChannelEnabled reports the template-level enable flag for ch. Resolution
// through the typed switch keeps channel dispatch enum-keyed instead of
// stringly-typed property lookups.
func (t *Template) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return t.EmailEnabled
	case ChannelToast:
		return t.ToastEnabled
	case ChannelDatabase:
		return t.DatabaseEnabled
	case ChannelPush:
		return t.PushEnabled
	}
	return false
}

// UserPreference is a user's override of template defaults for one event.
// Rows are created lazily on first explicit user choice; absence means all
// template-enabled channels are active at instant frequency.
//
// Channel override pointers are nullable: nil inherits the template default,
// a non-nil value overrides it. Quiet hours are recipient-local times of day
// ("HH:MM", 24h) and may wrap past midnight (start > end).
type UserPreference struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID   string `json:"user_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_pref_user_event,priority:1"`
	EventKey string `json:"event_key" gorm:"type:varchar(64);not null;uniqueIndex:ux_pref_user_event,priority:2"`

	EmailEnabled    *bool `json:"email_enabled"    gorm:"default:null"`
	ToastEnabled    *bool `json:"toast_enabled"    gorm:"default:null"`
	DatabaseEnabled *bool `json:"database_enabled" gorm:"default:null"`
	PushEnabled     *bool `json:"push_enabled"     gorm:"default:null"`

	QuietHoursEnabled bool   `json:"quiet_hours_enabled" gorm:"not null;default:false"`
	QuietHoursStart   string `json:"quiet_hours_start"   gorm:"type:varchar(5);not null;default:'22:00'"`
	QuietHoursEnd     string `json:"quiet_hours_end"     gorm:"type:varchar(5);not null;default:'08:00'"`

	Frequency    Frequency `json:"frequency"     gorm:"type:varchar(16);not null;default:'instant';check:frequency IN ('instant','hourly','daily','weekly','off')"`
	BatchEnabled bool      `json:"batch_enabled" gorm:"not null;default:false"`

	// Timezone is the IANA zone used for quiet hours and digest cadence
	// boundaries. Empty means UTC.
	Timezone string `json:"timezone" gorm:"type:varchar(64);not null;default:''"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for UserPreference.
func (UserPreference) TableName() string { return "user_preferences" }

// ChannelOverride returns the user's explicit override for ch, or nil when
// the template default should be inherited.
func (p *UserPreference) ChannelOverride(ch Channel) *bool {
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelToast:
		return p.ToastEnabled
	case ChannelDatabase:
		return p.DatabaseEnabled
	case ChannelPush:
		return p.PushEnabled
	}
	return nil
}

// Notification is one persistent in-app record produced by the database
// channel. It backs the user's notification feed and read-state tracking.
type Notification struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_notifications,priority:1"`
	EventKey  string         `json:"event_key"  gorm:"type:varchar(64);not null"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"       gorm:"type:text;not null"`
	ActionURL string         `json:"action_url" gorm:"type:varchar(512)"`
	Read      bool           `json:"read"       gorm:"not null;default:false;index"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_user_notifications,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// DigestItem is one queued payload awaiting a scheduled flush. Items are
// created when the scheduler defers a dispatch (digest frequency or quiet
// hours) and deleted when the periodic flush delivers them. Items unflushed
// past ExpiresAt are dropped and audited as frequency_dropped.
type DigestItem struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	RecipientID   string    `gorm:"type:varchar(64);not null;index:idx_digest_due,priority:2"`
	RecipientRole Role      `gorm:"type:varchar(16);not null"`
	EventKey      string    `gorm:"type:varchar(64);not null"`
	Cadence       Frequency `gorm:"type:varchar(16);not null"`
	Variables     string    `gorm:"type:text;not null"` // JSON-encoded variable bag
	DeliverAt     time.Time `gorm:"not null;index:idx_digest_due,priority:1"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

// TableName returns the database table name for DigestItem.
func (DigestItem) TableName() string { return "digest_items" }

// AuditEntry is the immutable record of one dispatch attempt and its final
// per-channel outcome. Entries are written once after the attempt settles
// and never updated in place.
type AuditEntry struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	EventKey         string    `json:"event_key"         gorm:"type:varchar(64);not null;index:idx_audit_event"`
	RecipientID      string    `json:"recipient_id"      gorm:"type:varchar(64);not null;index:idx_audit_recipient"`
	RecipientRole    Role      `json:"recipient_role"    gorm:"type:varchar(16);not null"`
	ChannelsEnabled  string    `json:"channels_enabled"  gorm:"type:varchar(64);not null;default:''"`
	ChannelsAdmitted string    `json:"channels_admitted" gorm:"type:varchar(64);not null;default:''"`
	ChannelsSent     string    `json:"channels_sent"     gorm:"type:varchar(64);not null;default:''"`
	ChannelsFailed   string    `json:"channels_failed"   gorm:"type:varchar(64);not null;default:''"`
	Outcome          Outcome   `json:"outcome"           gorm:"type:varchar(32);not null;index"`
	RequestedAt      time.Time `json:"requested_at"      gorm:"not null"`
	CompletedAt      time.Time `json:"completed_at"      gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for AuditEntry.
func (AuditEntry) TableName() string { return "audit_log" }

// SetEnabled records the enabled channel set on the entry.
func (a *AuditEntry) SetEnabled(chs []Channel) { a.ChannelsEnabled = joinChannels(chs) }

// SetAdmitted records the admitted channel set on the entry.
func (a *AuditEntry) SetAdmitted(chs []Channel) { a.ChannelsAdmitted = joinChannels(chs) }

// SetSent records the successfully sent channel set on the entry.
func (a *AuditEntry) SetSent(chs []Channel) { a.ChannelsSent = joinChannels(chs) }

// SetFailed records the failed channel set on the entry.
func (a *AuditEntry) SetFailed(chs []Channel) { a.ChannelsFailed = joinChannels(chs) }
