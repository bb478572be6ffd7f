package schedule

import (
	"testing"
	"time"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/prefs"
)

func instantPref(quietEnabled bool, start, end string) *prefs.EffectivePreference {
	return &prefs.EffectivePreference{
		Frequency:         domain.FreqInstant,
		QuietHoursEnabled: quietEnabled,
		QuietHoursStart:   start,
		QuietHoursEnd:     end,
		Location:          time.UTC,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 4, hour, min, 0, 0, time.UTC) // a Wednesday
}

func TestEvaluate_InstantOutsideQuietHours(t *testing.T) {
	d := NewScheduler().Evaluate(instantPref(true, "22:00", "06:00"), at(10, 0))
	if d.Action != Immediate {
		t.Fatalf("10:00 inside a 22:00-06:00 window: %+v", d)
	}
}

func TestEvaluate_QuietHoursWrapPastMidnight(t *testing.T) {
	s := NewScheduler()
	pref := instantPref(true, "22:00", "06:00")

	// Before midnight: deferred until 06:00 the next day.
	d := s.Evaluate(pref, at(23, 30))
	if d.Action != Deferred || d.Cadence != domain.FreqInstant {
		t.Fatalf("23:30: %+v; want instant-cadence deferral", d)
	}
	if want := time.Date(2026, time.March, 5, 6, 0, 0, 0, time.UTC); !d.DeliverAt.Equal(want) {
		t.Fatalf("23:30 DeliverAt = %v; want %v", d.DeliverAt, want)
	}

	// After midnight: deferred until 06:00 the same day.
	d = s.Evaluate(pref, at(2, 0))
	if d.Action != Deferred {
		t.Fatalf("02:00: %+v; want deferral", d)
	}
	if want := at(6, 0); !d.DeliverAt.Equal(want) {
		t.Fatalf("02:00 DeliverAt = %v; want %v", d.DeliverAt, want)
	}
}

func TestEvaluate_QuietHoursRespectTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	pref := instantPref(true, "22:00", "06:00")
	pref.Location = loc

	// 03:00 UTC is 22:00 or 23:00 in New York, inside the window either way.
	d := NewScheduler().Evaluate(pref, at(3, 0))
	if d.Action != Deferred {
		t.Fatalf("recipient-local night treated as daytime: %+v", d)
	}
}

func TestEvaluate_UnparseableQuietHoursFailOpen(t *testing.T) {
	d := NewScheduler().Evaluate(instantPref(true, "bogus", "06:00"), at(23, 30))
	if d.Action != Immediate {
		t.Fatalf("bad window string blocked delivery: %+v", d)
	}
}

func TestEvaluate_FrequencyOff(t *testing.T) {
	pref := instantPref(false, "", "")
	pref.Frequency = domain.FreqOff
	if d := NewScheduler().Evaluate(pref, at(10, 0)); d.Action != Dropped {
		t.Fatalf("off frequency: %+v; want dropped", d)
	}
}

func TestEvaluate_DigestFrequenciesDefer(t *testing.T) {
	s := NewScheduler()
	cases := []struct {
		freq domain.Frequency
		want time.Time
	}{
		{domain.FreqHourly, at(11, 0)},                                       // top of next hour
		{domain.FreqDaily, time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)},  // 08:00 tomorrow (today's passed)
		{domain.FreqWeekly, time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)}, // next Monday 09:00
	}
	for _, tc := range cases {
		pref := instantPref(false, "", "")
		pref.Frequency = tc.freq
		d := s.Evaluate(pref, at(10, 15))
		if d.Action != Deferred || d.Cadence != tc.freq {
			t.Fatalf("%s: %+v", tc.freq, d)
		}
		if !d.DeliverAt.Equal(tc.want) {
			t.Fatalf("%s DeliverAt = %v; want %v", tc.freq, d.DeliverAt, tc.want)
		}
	}
}

func TestNextBoundary_DailyBeforeHour(t *testing.T) {
	got := NewScheduler().NextBoundary(domain.FreqDaily, at(6, 30))
	if want := at(8, 0); !got.Equal(want) {
		t.Fatalf("NextBoundary = %v; want same-day %v", got, want)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"22:00", 1320, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseClock(%q) err = %v; wantErr=%v", tc.in, err, tc.wantErr)
		}
		if err == nil && got != tc.want {
			t.Fatalf("ParseClock(%q) = %d; want %d", tc.in, got, tc.want)
		}
	}
}

func TestInWindow(t *testing.T) {
	cases := []struct {
		m, start, end int
		want          bool
	}{
		{600, 540, 660, true},   // 10:00 in 09:00-11:00
		{660, 540, 660, false},  // end exclusive
		{540, 540, 660, true},   // start inclusive
		{1410, 1320, 360, true}, // 23:30 in 22:00-06:00
		{120, 1320, 360, true},  // 02:00 in 22:00-06:00
		{600, 1320, 360, false}, // 10:00 outside 22:00-06:00
		{600, 600, 600, false},  // zero-length window
	}
	for _, tc := range cases {
		if got := inWindow(tc.m, tc.start, tc.end); got != tc.want {
			t.Fatalf("inWindow(%d, %d, %d) = %v; want %v", tc.m, tc.start, tc.end, got, tc.want)
		}
	}
}
