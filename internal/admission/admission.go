// Package admission implements the pre-send rate limiter guarding the
// dispatch pipeline. Two independent windowed budgets must both pass before
// any channel is touched:
//
//   - per-event: at most N admitted dispatches per (event, recipient) per
//     rolling window (defaults 10 per 60s),
//   - global: at most M admitted dispatches per recipient across all
//     events (defaults 50 per 1h).
//
// Each budget is one TTL-backed counter in the shared keyed store, advanced
// with a single atomic compare-and-increment so concurrent attempts can
// never both slip past a limit. Counters expire with their window; there is
// no cleanup sweep.
//
// This protects recipients from event storms (e.g. retried webhook
// triggers) and outbound email/push quota from runaway fan-out. It is
// distinct from the HTTP layer's edge token-bucket limiter, which guards
// the transport rather than the recipient.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/tbourn/go-notify-backend/internal/kvstore"
)

// Limits holds both windowed budgets.
type Limits struct {
	PerEventLimit  int64
	PerEventWindow time.Duration
	GlobalLimit    int64
	GlobalWindow   time.Duration
}

// DefaultLimits mirrors the documented defaults: 10/min per event,
// 50/hour per recipient.
func DefaultLimits() Limits {
	return Limits{
		PerEventLimit:  10,
		PerEventWindow: time.Minute,
		GlobalLimit:    50,
		GlobalWindow:   time.Hour,
	}
}

// Decision is the outcome of one admission check.
type Decision struct {
	Admitted bool
	// Reason names the budget that rejected the attempt ("per_event" or
	// "global"); empty when admitted.
	Reason string
}

// Controller checks dispatch attempts against both budgets.
type Controller struct {
	store  kvstore.Store
	limits Limits
}

// NewController builds a Controller over the given store. Zero-valued
// limits fall back to the defaults.
func NewController(store kvstore.Store, limits Limits) *Controller {
	def := DefaultLimits()
	if limits.PerEventLimit <= 0 {
		limits.PerEventLimit = def.PerEventLimit
	}
	if limits.PerEventWindow <= 0 {
		limits.PerEventWindow = def.PerEventWindow
	}
	if limits.GlobalLimit <= 0 {
		limits.GlobalLimit = def.GlobalLimit
	}
	if limits.GlobalWindow <= 0 {
		limits.GlobalWindow = def.GlobalWindow
	}
	return &Controller{store: store, limits: limits}
}

// Admit checks both budgets for one attempt. The per-event budget is
// consulted first; a rejection there leaves the global budget untouched.
// Only admitted attempts consume budget on the counters they passed.
//
// A store error fails open (admitted): a degraded limiter store must not
// silence every notification in the system.
func (c *Controller) Admit(ctx context.Context, eventKey, recipientID string) (Decision, error) {
	ok, _, err := c.store.IncrWithLimit(ctx, perEventKey(eventKey, recipientID), c.limits.PerEventLimit, c.limits.PerEventWindow)
	if err != nil {
		return Decision{Admitted: true}, err
	}
	if !ok {
		return Decision{Admitted: false, Reason: "per_event"}, nil
	}

	ok, _, err = c.store.IncrWithLimit(ctx, globalKey(recipientID), c.limits.GlobalLimit, c.limits.GlobalWindow)
	if err != nil {
		return Decision{Admitted: true}, err
	}
	if !ok {
		return Decision{Admitted: false, Reason: "global"}, nil
	}
	return Decision{Admitted: true}, nil
}

// perEventKey builds the counter key for one (event, recipient) budget.
func perEventKey(eventKey, recipientID string) string {
	return fmt.Sprintf("admit:ev:%s:%s", eventKey, recipientID)
}

// globalKey builds the counter key for one recipient's global budget.
func globalKey(recipientID string) string {
	return fmt.Sprintf("admit:all:%s", recipientID)
}
