// Package registry implements the event and template lookup used at the
// head of the dispatch pipeline. The registry is a read-only snapshot of the
// active catalogue, built from the database at startup and replaced
// wholesale on Reload, so resolution is a pure map lookup safe for
// unlimited concurrent callers.
package registry

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
)

var (
	// ErrUnknownEvent indicates the event key matches no active event.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrNoTemplate indicates the event exists but has no active template
	// for the requested recipient role.
	ErrNoTemplate = errors.New("no template for role")
)

// templateKey identifies one (event, role) template slot.
type templateKey struct {
	eventKey string
	role     domain.Role
}

// Registry resolves event keys to their Event record and role-specific
// Template. Lookups never touch the database.
type Registry struct {
	mu        sync.RWMutex
	events    map[string]*domain.Event
	templates map[templateKey]*domain.Template
}

// Load builds a registry snapshot from the active catalogue rows.
func Load(ctx context.Context, db *gorm.DB) (*Registry, error) {
	r := &Registry{}
	if err := r.Reload(ctx, db); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the snapshot with the current active catalogue. When
// several active templates exist for one (event, role) pair, the most
// recently updated row wins.
func (r *Registry) Reload(ctx context.Context, db *gorm.DB) error {
	events, err := repo.ListActiveEvents(ctx, db)
	if err != nil {
		return err
	}
	templates, err := repo.ListActiveTemplates(ctx, db)
	if err != nil {
		return err
	}

	evs := make(map[string]*domain.Event, len(events))
	for i := range events {
		evs[events[i].Key] = &events[i]
	}
	tpls := make(map[templateKey]*domain.Template, len(templates))
	for i := range templates {
		k := templateKey{eventKey: templates[i].EventKey, role: templates[i].RecipientRole}
		// Rows arrive newest-first; keep the first seen per slot.
		if _, ok := tpls[k]; !ok {
			tpls[k] = &templates[i]
		}
	}

	r.mu.Lock()
	r.events = evs
	r.templates = tpls
	r.mu.Unlock()
	return nil
}

// Resolve returns the active event and the active template for the given
// recipient role. It fails with ErrUnknownEvent when the key matches no
// active event and ErrNoTemplate when the event carries no active template
// for the role. Pure lookup, no side effects.
func (r *Registry) Resolve(eventKey string, role domain.Role) (*domain.Event, *domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.events[eventKey]
	if !ok {
		return nil, nil, ErrUnknownEvent
	}
	tpl, ok := r.templates[templateKey{eventKey: eventKey, role: role}]
	if !ok {
		return nil, nil, ErrNoTemplate
	}
	return ev, tpl, nil
}

// EventKeys returns the set of known active event keys in no particular
// order. Used by the preference surface to validate user input.
func (r *Registry) EventKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.events))
	for k := range r.events {
		out = append(out, k)
	}
	return out
}

// Has reports whether eventKey names an active event.
func (r *Registry) Has(eventKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.events[eventKey]
	return ok
}
