// Package schedule decides when an admitted dispatch is delivered. Each
// attempt resolves to exactly one of three actions:
//
//   - Immediate: fan out now,
//   - Deferred: queue a digest item with a concrete delivery time,
//   - Dropped: the recipient opted out (frequency "off").
//
// Instant-frequency attempts are deferred only while the recipient's quiet
// hours window is open, and then only until the window closes. Digest
// frequencies always defer to the next cadence boundary. All time-of-day
// arithmetic happens in the recipient's resolved location.
package schedule

import (
	"fmt"
	"time"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/prefs"
)

// Action classifies the scheduler's verdict for one attempt.
type Action string

// Scheduler verdicts.
const (
	Immediate Action = "immediate"
	Deferred  Action = "deferred"
	Dropped   Action = "dropped"
)

// Decision is the scheduler's verdict plus the queueing parameters needed
// when the attempt is deferred.
type Decision struct {
	Action Action

	// Cadence buckets the queued digest item. Quiet-hours deferrals keep
	// the instant cadence; digest deferrals carry their frequency.
	Cadence domain.Frequency

	// DeliverAt is the UTC instant the queued item becomes due. Zero for
	// Immediate and Dropped.
	DeliverAt time.Time
}

// Scheduler evaluates frequency and quiet hours for dispatch attempts.
// Cadence boundary hours are recipient-local.
type Scheduler struct {
	DailyHour  int // daily digests flush at this local hour
	WeeklyHour int // weekly digests flush Mondays at this local hour
}

// NewScheduler builds a Scheduler with the standard boundary hours
// (daily 08:00, weekly Monday 09:00).
func NewScheduler() *Scheduler {
	return &Scheduler{DailyHour: 8, WeeklyHour: 9}
}

// Evaluate runs the per-attempt state machine against the recipient's
// effective preference at the given instant.
func (s *Scheduler) Evaluate(eff *prefs.EffectivePreference, now time.Time) Decision {
	switch eff.Frequency {
	case domain.FreqOff:
		return Decision{Action: Dropped}
	case domain.FreqHourly, domain.FreqDaily, domain.FreqWeekly:
		return Decision{
			Action:    Deferred,
			Cadence:   eff.Frequency,
			DeliverAt: s.NextBoundary(eff.Frequency, now.In(eff.Location)).UTC(),
		}
	}

	if eff.QuietHoursEnabled {
		local := now.In(eff.Location)
		start, err1 := ParseClock(eff.QuietHoursStart)
		end, err2 := ParseClock(eff.QuietHoursEnd)
		// Unparseable windows never block delivery.
		if err1 == nil && err2 == nil && inWindow(minuteOfDay(local), start, end) {
			return Decision{
				Action:    Deferred,
				Cadence:   domain.FreqInstant,
				DeliverAt: nextClock(local, end).UTC(),
			}
		}
	}
	return Decision{Action: Immediate}
}

// NextBoundary returns the next cadence flush instant strictly after the
// given local time: hourly at the top of the next hour, daily at DailyHour,
// weekly on Monday at WeeklyHour.
func (s *Scheduler) NextBoundary(cadence domain.Frequency, local time.Time) time.Time {
	switch cadence {
	case domain.FreqHourly:
		top := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, local.Location())
		return top.Add(time.Hour)
	case domain.FreqDaily:
		return nextClock(local, s.DailyHour*60)
	case domain.FreqWeekly:
		at := nextClock(local, s.WeeklyHour*60)
		for at.Weekday() != time.Monday {
			at = at.AddDate(0, 0, 1)
		}
		return at
	}
	return local
}

// ParseClock parses a 24h "HH:MM" time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// minuteOfDay returns t's minute offset from local midnight.
func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

// inWindow reports whether minute m falls in [start, end), wrapping past
// midnight when start > end. A zero-length window matches nothing.
func inWindow(m, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}

// nextClock returns the next occurrence of the given minute-of-day at or
// after local, in local's location.
func nextClock(local time.Time, minute int) time.Time {
	at := time.Date(local.Year(), local.Month(), local.Day(), minute/60, minute%60, 0, 0, local.Location())
	if !at.After(local) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
