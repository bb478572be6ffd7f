package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/kvstore"
)

func eventWithKeys(dedupKeys string) *domain.Event {
	return &domain.Event{Key: "booking.created", Name: "Booking created", Active: true, DedupKeys: dedupKeys}
}

func TestFingerprint_DeclaredKeysOnly(t *testing.T) {
	ev := eventWithKeys("booking_id")

	a := Fingerprint(ev, "u1", map[string]string{"booking_id": "b-42", "customer_name": "Alice"})
	b := Fingerprint(ev, "u1", map[string]string{"booking_id": "b-42", "customer_name": "Bob"})
	if a != b {
		t.Fatalf("non-identity variable changed the fingerprint")
	}

	c := Fingerprint(ev, "u1", map[string]string{"booking_id": "b-43"})
	if a == c {
		t.Fatalf("distinct booking_id produced identical fingerprints")
	}
}

func TestFingerprint_RecipientAndEventScoped(t *testing.T) {
	ev := eventWithKeys("booking_id")
	vars := map[string]string{"booking_id": "b-42"}

	if Fingerprint(ev, "u1", vars) == Fingerprint(ev, "u2", vars) {
		t.Fatalf("fingerprint not scoped to recipient")
	}

	other := eventWithKeys("booking_id")
	other.Key = "booking.cancelled"
	if Fingerprint(ev, "u1", vars) == Fingerprint(other, "u1", vars) {
		t.Fatalf("fingerprint not scoped to event")
	}
}

func TestFingerprint_FullBagWhenNoDeclaredKeys(t *testing.T) {
	ev := eventWithKeys("")

	a := Fingerprint(ev, "u1", map[string]string{"x": "1", "y": "2"})
	b := Fingerprint(ev, "u1", map[string]string{"y": "2", "x": "1"})
	if a != b {
		t.Fatalf("map iteration order leaked into the fingerprint")
	}

	c := Fingerprint(ev, "u1", map[string]string{"x": "1", "y": "3"})
	if a == c {
		t.Fatalf("changed variable did not change the fingerprint")
	}
}

func TestFingerprint_MissingDeclaredKeyHashesEmpty(t *testing.T) {
	ev := eventWithKeys("booking_id")

	a := Fingerprint(ev, "u1", map[string]string{"booking_id": ""})
	b := Fingerprint(ev, "u1", map[string]string{})
	if a != b {
		t.Fatalf("absent and empty declared key should hash identically")
	}
}

func TestShouldSuppress_SecondAttemptSuppressed(t *testing.T) {
	s := NewSuppressor(kvstore.NewMemoryStore(), time.Minute)
	ev := eventWithKeys("booking_id")
	vars := map[string]string{"booking_id": "b-42"}
	ctx := context.Background()

	dup, err := s.ShouldSuppress(ctx, ev, "u1", vars)
	if err != nil || dup {
		t.Fatalf("first attempt: dup=%v err=%v", dup, err)
	}
	dup, err = s.ShouldSuppress(ctx, ev, "u1", vars)
	if err != nil || !dup {
		t.Fatalf("second attempt: dup=%v err=%v; want suppression", dup, err)
	}

	// Different recipient is not a duplicate.
	dup, err = s.ShouldSuppress(ctx, ev, "u2", vars)
	if err != nil || dup {
		t.Fatalf("other recipient: dup=%v err=%v", dup, err)
	}
}

func TestShouldSuppress_ConcurrentExactlyOneWinner(t *testing.T) {
	s := NewSuppressor(kvstore.NewMemoryStore(), time.Minute)
	ev := eventWithKeys("booking_id")
	vars := map[string]string{"booking_id": "b-42"}

	const callers = 50
	var winners int64
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			dup, err := s.ShouldSuppress(context.Background(), ev, "u1", vars)
			if err != nil {
				t.Errorf("ShouldSuppress: %v", err)
				return
			}
			if !dup {
				atomic.AddInt64(&winners, 1)
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("%d concurrent attempts won; want exactly 1", winners)
	}
}

func TestNewSuppressor_DefaultWindow(t *testing.T) {
	s := NewSuppressor(kvstore.NewMemoryStore(), 0)
	if s.window != DefaultWindow {
		t.Fatalf("window = %v; want %v", s.window, DefaultWindow)
	}
}
