// Package domain defines the persistence models and core value types for the
// notification dispatch engine. This file declares the closed enumerations
// used across the pipeline: delivery channels, recipient roles, delivery
// frequencies, per-channel send statuses, and final dispatch outcomes.
//
// Channel enablement and template content are always resolved through these
// typed constants rather than free-form strings, so an unsupported channel is
// a compile-time impossibility instead of a silent no-op.
package domain

import "strings"

// Channel identifies one delivery channel of the fan-out.
type Channel string

// Supported delivery channels.
const (
	// ChannelToast is a synchronous, ephemeral UI payload returned to the caller.
	ChannelToast Channel = "toast"
	// ChannelDatabase is a persistent in-app notification record.
	ChannelDatabase Channel = "database"
	// ChannelEmail is a best-effort outbound email send.
	ChannelEmail Channel = "email"
	// ChannelPush is a best-effort mobile/web push send.
	ChannelPush Channel = "push"
)

// AllChannels lists every supported channel in fan-out order. Synchronous
// channels (toast, database) come first so the caller-visible payload is
// produced before background sends are handed off.
var AllChannels = []Channel{ChannelToast, ChannelDatabase, ChannelEmail, ChannelPush}

// Role identifies the recipient's role in the marketplace.
type Role string

// Recipient roles.
const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes and validates a role string. The boolean reports
// whether the input named a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleProvider:
		return RoleProvider, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Frequency is a user's delivery cadence for one event.
type Frequency string

// Delivery frequencies. Instant sends immediately (subject to quiet hours);
// hourly/daily/weekly defer into the recipient's digest queue; off drops.
const (
	FreqInstant Frequency = "instant"
	FreqHourly  Frequency = "hourly"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqOff     Frequency = "off"
)

// ParseFrequency normalizes and validates a frequency string.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FreqInstant:
		return FreqInstant, true
	case FreqHourly:
		return FreqHourly, true
	case FreqDaily:
		return FreqDaily, true
	case FreqWeekly:
		return FreqWeekly, true
	case FreqOff:
		return FreqOff, true
	}
	return "", false
}

// ChannelStatus is the result of one channel within a single dispatch.
type ChannelStatus string

// Per-channel send statuses.
const (
	StatusSent    ChannelStatus = "sent"
	StatusFailed  ChannelStatus = "failed"
	StatusSkipped ChannelStatus = "skipped"
)

// Outcome is the single final outcome of one dispatch attempt. Every attempt
// produces exactly one outcome, recorded once in the audit log.
type Outcome string

// Dispatch outcomes. Only OutcomeSent reports Success=true to the caller;
// the rest are normal, non-error control-flow results.
const (
	OutcomeSent              Outcome = "sent"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeDeduplicated      Outcome = "deduplicated"
	OutcomeQuietHours        Outcome = "quiet_hours_deferred"
	OutcomeFrequencyDropped  Outcome = "frequency_dropped"
	OutcomeFrequencyDeferred Outcome = "frequency_deferred"
	OutcomeNoTemplate        Outcome = "no_template"
	OutcomeAllChannelsFailed Outcome = "all_channels_failed"
)

// joinChannels renders a channel set as a stable CSV for audit storage.
// Output order follows AllChannels regardless of input order.
func joinChannels(chs []Channel) string {
	if len(chs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(chs))
	for _, ch := range AllChannels {
		for _, c := range chs {
			if c == ch {
				parts = append(parts, string(ch))
				break
			}
		}
	}
	return strings.Join(parts, ",")
}

// SplitChannels parses an audit CSV back into typed channels, dropping
// anything unknown.
func SplitChannels(s string) []Channel {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []Channel
	for _, p := range strings.Split(s, ",") {
		switch Channel(strings.TrimSpace(p)) {
		case ChannelToast:
			out = append(out, ChannelToast)
		case ChannelDatabase:
			out = append(out, ChannelDatabase)
		case ChannelEmail:
			out = append(out, ChannelEmail)
		case ChannelPush:
			out = append(out, ChannelPush)
		}
	}
	return out
}
