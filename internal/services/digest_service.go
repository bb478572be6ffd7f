// Package services – DigestService
//
// This file implements DigestService, which owns the deferred side of the
// dispatch pipeline: enqueueing digest items when the scheduler defers an
// attempt, flushing due items per recipient at cadence boundaries into one
// aggregated send, and dropping items that sat unflushed past retention.
//
// Enqueue and flush are mutually exclusive per recipient (a keyed mutex),
// independent across recipients, so a flush never races a concurrent
// deferral for the same user.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-notify-backend/internal/audit"
	"github.com/tbourn/go-notify-backend/internal/channels"
	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/registry"
	"github.com/tbourn/go-notify-backend/internal/repo"
	"github.com/tbourn/go-notify-backend/internal/schedule"
)

// digestEventKey tags aggregated sends and their audit entries, e.g.
// "digest.daily".
func digestEventKey(cadence domain.Frequency) string {
	return "digest." + string(cadence)
}

// flushCadences lists every cadence bucket the flush worker drains.
// FreqInstant holds quiet-hours deferrals.
var flushCadences = []domain.Frequency{domain.FreqInstant, domain.FreqHourly, domain.FreqDaily, domain.FreqWeekly}

// keyedMutex provides one lock per recipient id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// DigestService queues deferred dispatches and delivers them in aggregate.
type DigestService struct {
	DB       *gorm.DB
	Registry *registry.Registry
	FanOut   *channels.FanOut
	Audit    *audit.Recorder

	// Retention bounds how long an unflushed item may wait past its due
	// time before it is dropped.
	Retention time.Duration

	recipients keyedMutex
}

// Enqueue stores one deferred attempt in the recipient's digest queue.
func (s *DigestService) Enqueue(ctx context.Context, attempt *domain.DispatchAttempt, verdict schedule.Decision) error {
	lock := s.recipients.get(attempt.RecipientID)
	lock.Lock()
	defer lock.Unlock()

	return repo.EnqueueDigestItem(ctx, s.DB, &domain.DigestItem{
		RecipientID:   attempt.RecipientID,
		RecipientRole: attempt.RecipientRole,
		EventKey:      attempt.EventKey,
		Cadence:       verdict.Cadence,
		Variables:     encodeVariables(attempt.Variables),
		DeliverAt:     verdict.DeliverAt,
		ExpiresAt:     verdict.DeliverAt.Add(s.Retention),
	})
}

// FlushDue drains every recipient's due items for one cadence into a single
// aggregated send each, and returns how many recipients were flushed. A
// failing recipient is logged and skipped; the rest still flush.
func (s *DigestService) FlushDue(ctx context.Context, cadence domain.Frequency, now time.Time) (int, error) {
	tr := otel.Tracer("services/DigestService")
	ctx, span := tr.Start(ctx, "FlushDue",
		trace.WithAttributes(attribute.String("digest.cadence", string(cadence))),
	)
	defer span.End()

	recipients, err := repo.ListDueRecipients(ctx, s.DB, cadence, now)
	if err != nil {
		return 0, err
	}

	flushed := 0
	for _, rid := range recipients {
		if err := s.flushRecipient(ctx, rid, cadence, now); err != nil {
			log.Error().Err(err).Str("recipient", rid).Str("cadence", string(cadence)).Msg("digest flush failed")
			continue
		}
		flushed++
	}
	return flushed, nil
}

// flushRecipient aggregates and delivers one recipient's due items, then
// removes them from the queue. Holds the recipient's lock for the whole
// drain so concurrent enqueues cannot interleave with the delete.
func (s *DigestService) flushRecipient(ctx context.Context, recipientID string, cadence domain.Frequency, now time.Time) error {
	lock := s.recipients.get(recipientID)
	lock.Lock()
	defer lock.Unlock()

	items, err := repo.ListDueItems(ctx, s.DB, recipientID, cadence, now)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	title, body, wantEmail := s.aggregate(cadence, items)

	statuses := map[domain.Channel]domain.ChannelStatus{}
	if _, err := repo.CreateNotification(ctx, s.DB, recipientID, digestEventKey(cadence), title, body, ""); err != nil {
		statuses[domain.ChannelDatabase] = domain.StatusFailed
	} else {
		statuses[domain.ChannelDatabase] = domain.StatusSent
	}
	if wantEmail {
		err := s.FanOut.Email.Send(ctx, channels.Message{
			EventKey:    digestEventKey(cadence),
			RecipientID: recipientID,
			Subject:     title,
			Body:        body,
		})
		if err != nil {
			statuses[domain.ChannelEmail] = domain.StatusFailed
		} else {
			statuses[domain.ChannelEmail] = domain.StatusSent
		}
	}

	outcome := domain.OutcomeSent
	sent := false
	for _, st := range statuses {
		if st == domain.StatusSent {
			sent = true
			break
		}
	}
	if !sent {
		outcome = domain.OutcomeAllChannelsFailed
	}

	e := &domain.AuditEntry{
		EventKey:      digestEventKey(cadence),
		RecipientID:   recipientID,
		RecipientRole: items[0].RecipientRole,
		Outcome:       outcome,
		RequestedAt:   now.UTC(),
		CompletedAt:   time.Now().UTC(),
	}
	enabled := []domain.Channel{domain.ChannelDatabase}
	if wantEmail {
		enabled = append(enabled, domain.ChannelEmail)
	}
	e.SetEnabled(enabled)
	e.SetAdmitted(enabled)
	var sentChs, failedChs []domain.Channel
	for ch, st := range statuses {
		if st == domain.StatusSent {
			sentChs = append(sentChs, ch)
		} else {
			failedChs = append(failedChs, ch)
		}
	}
	e.SetSent(sentChs)
	e.SetFailed(failedChs)
	s.Audit.Record(ctx, e, statuses)
	audit.ObserveDigestFlush(cadence)

	if !sent {
		// Keep the items queued so the next flush retries them.
		return fmt.Errorf("digest delivery failed for %s", recipientID)
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return repo.DeleteDigestItems(ctx, s.DB, ids)
}

// aggregate renders the queued items into one title and body, and reports
// whether any contributing template enables email.
func (s *DigestService) aggregate(cadence domain.Frequency, items []domain.DigestItem) (title, body string, wantEmail bool) {
	// Casers carry internal buffers and are not safe for shared use.
	caser := cases.Title(language.English)

	lines := make([]string, 0, len(items))
	for _, it := range items {
		vars := decodeVariables(it.Variables)
		line := it.EventKey
		if _, tpl, err := s.Registry.Resolve(it.EventKey, it.RecipientRole); err == nil {
			if rendered := channels.Render(tpl.InAppTitle, vars); rendered != "" {
				line = rendered
			}
			if tpl.EmailEnabled {
				wantEmail = true
			}
		}
		lines = append(lines, line)
	}

	label := string(cadence)
	if cadence == domain.FreqInstant {
		label = "missed"
	}
	title = fmt.Sprintf("%s: %d update", caser.String(label+" digest"), len(items))
	if len(items) != 1 {
		title += "s"
	}
	return title, strings.Join(lines, "\n"), wantEmail
}

// FlushAll drains every cadence bucket. Retention is separate: the
// timer-driven worker in cmd/server calls SweepExpired after each flush
// pass, so expired items are swept exactly once per tick.
func (s *DigestService) FlushAll(ctx context.Context, now time.Time) {
	for _, cadence := range flushCadences {
		if _, err := s.FlushDue(ctx, cadence, now); err != nil {
			log.Error().Err(err).Str("cadence", string(cadence)).Msg("digest flush pass failed")
		}
	}
}

// SweepExpired drops items that sat unflushed past retention, auditing each
// as frequency_dropped, and returns how many were removed.
func (s *DigestService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	items, err := repo.ListExpiredItems(ctx, s.DB, now, 500)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
		s.Audit.Record(ctx, &domain.AuditEntry{
			EventKey:      it.EventKey,
			RecipientID:   it.RecipientID,
			RecipientRole: it.RecipientRole,
			Outcome:       domain.OutcomeFrequencyDropped,
			RequestedAt:   it.CreatedAt,
			CompletedAt:   now.UTC(),
		}, nil)
	}
	if err := repo.DeleteDigestItems(ctx, s.DB, ids); err != nil {
		return 0, err
	}
	return len(items), nil
}
