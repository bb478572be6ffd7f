// Package dedupe implements duplicate suppression for dispatch attempts.
//
// Every attempt is reduced to a deterministic fingerprint over the event
// key, the recipient, and the identity-bearing variables of the payload.
// The first attempt to claim a fingerprint inside the suppression window
// wins; later identical attempts are suppressed without touching any
// channel. The claim is a single atomic insert-if-absent on the shared
// keyed store, so concurrent duplicates cannot both win.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/kvstore"
)

// DefaultWindow is the suppression window applied when none is configured.
const DefaultWindow = 5 * time.Minute

// Fingerprint computes the stable identity of one dispatch attempt.
//
// When the event declares dedup keys, only those variables participate;
// a declared key missing from the bag contributes an empty value, so
// "booking_id unset" and "booking_id absent" hash identically. Without
// declared keys the whole variable bag participates, canonicalized by
// sorting the keys. Variable iteration order never affects the result.
func Fingerprint(ev *domain.Event, recipientID string, vars map[string]string) string {
	keys := dedupKeys(ev)
	if len(keys) == 0 {
		keys = make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	h := sha256.New()
	h.Write([]byte(ev.Key))
	h.Write([]byte{0})
	h.Write([]byte(recipientID))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(vars[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// dedupKeys parses the event's declared identity variables, sorted for a
// stable hash input order.
func dedupKeys(ev *domain.Event) []string {
	if strings.TrimSpace(ev.DedupKeys) == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(ev.DedupKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Suppressor claims dispatch fingerprints against the shared keyed store.
type Suppressor struct {
	store  kvstore.Store
	window time.Duration
}

// NewSuppressor builds a Suppressor with the given suppression window.
// A non-positive window falls back to DefaultWindow.
func NewSuppressor(store kvstore.Store, window time.Duration) *Suppressor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Suppressor{store: store, window: window}
}

// ShouldSuppress claims the attempt's fingerprint and reports whether the
// attempt is a duplicate of an earlier claim still inside the window. The
// winning claim's window is fixed at first insert and never extended by
// later duplicates.
//
// A store error fails open (not suppressed): a degraded store may let the
// occasional duplicate through but must never swallow notifications.
func (s *Suppressor) ShouldSuppress(ctx context.Context, ev *domain.Event, recipientID string, vars map[string]string) (bool, error) {
	inserted, err := s.store.SetNX(ctx, "dedupe:"+Fingerprint(ev, recipientID, vars), s.window)
	if err != nil {
		return false, err
	}
	return !inserted, nil
}
