// Package services – DispatchService
//
// This file implements DispatchService, the application-level component that
// owns the dispatch pipeline: registry lookup, preference resolution,
// admission control, duplicate suppression, quiet-hours/frequency
// scheduling, channel fan-out, and the audit write.
//
// Control flow mirrors the component order exactly; every attempt settles
// with exactly one audit outcome, and only configuration errors
// (ErrUnknownEvent, ErrNoTemplate, invalid input) surface to the caller as
// errors. Rate-limited, deduplicated, deferred, and dropped attempts are
// normal returns with Success=false.
//
// Observability: Dispatch is OpenTelemetry-instrumented; the span carries
// the event key, recipient, and final outcome.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-notify-backend/internal/admission"
	"github.com/tbourn/go-notify-backend/internal/audit"
	"github.com/tbourn/go-notify-backend/internal/channels"
	"github.com/tbourn/go-notify-backend/internal/dedupe"
	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/prefs"
	"github.com/tbourn/go-notify-backend/internal/registry"
	"github.com/tbourn/go-notify-backend/internal/schedule"
)

// DispatchService coordinates one notification dispatch end to end.
type DispatchService struct {
	DB        *gorm.DB
	Registry  *registry.Registry
	Prefs     *prefs.Resolver
	Admission *admission.Controller
	Dedupe    *dedupe.Suppressor
	Scheduler *schedule.Scheduler
	FanOut    *channels.FanOut
	Audit     *audit.Recorder
	Digests   *DigestService

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *DispatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Dispatch routes one event occurrence to a recipient's enabled channels.
//
// Returns an error only for invalid input and configuration failures
// (unknown event, missing template). All other paths return a
// DispatchResult whose Outcome states what happened; Success is true only
// when at least one channel sent.
func (s *DispatchService) Dispatch(ctx context.Context, attempt *domain.DispatchAttempt) (*domain.DispatchResult, error) {
	tr := otel.Tracer("services/DispatchService")
	ctx, span := tr.Start(ctx, "Dispatch",
		trace.WithAttributes(
			attribute.String("event.key", attempt.EventKey),
			attribute.String("recipient.id", attempt.RecipientID),
		),
	)
	defer span.End()

	if attempt.RecipientID == "" {
		return nil, ErrEmptyRecipient
	}
	if _, ok := domain.ParseRole(string(attempt.RecipientRole)); !ok {
		return nil, ErrInvalidRole
	}
	if attempt.RequestedAt.IsZero() {
		attempt.RequestedAt = s.now().UTC()
	}

	// Registry: configuration errors stop the pipeline before any side
	// effect. An unknown event leaves no trace beyond the error itself.
	ev, tpl, err := s.Registry.Resolve(attempt.EventKey, attempt.RecipientRole)
	switch {
	case errors.Is(err, registry.ErrUnknownEvent):
		return nil, ErrUnknownEvent
	case errors.Is(err, registry.ErrNoTemplate):
		s.settle(ctx, span, attempt, nil, domain.OutcomeNoTemplate, nil)
		return nil, ErrNoTemplate
	}

	eff := s.Prefs.Resolve(ctx, attempt.RecipientID, tpl)
	enabled := eff.EnabledChannels()
	if len(enabled) == 0 {
		// Every channel muted is an opt-out, same terminal state as
		// frequency "off".
		return s.settle(ctx, span, attempt, enabled, domain.OutcomeFrequencyDropped, nil), nil
	}

	dec, err := s.Admission.Admit(ctx, attempt.EventKey, attempt.RecipientID)
	if err != nil {
		log.Warn().Err(err).Str("event", attempt.EventKey).Msg("admission store degraded")
	}
	if !dec.Admitted {
		return s.settle(ctx, span, attempt, enabled, domain.OutcomeRateLimited, nil), nil
	}

	dup, err := s.Dedupe.ShouldSuppress(ctx, ev, attempt.RecipientID, attempt.Variables)
	if err != nil {
		log.Warn().Err(err).Str("event", attempt.EventKey).Msg("dedup store degraded")
	}
	if dup {
		return s.settle(ctx, span, attempt, enabled, domain.OutcomeDeduplicated, nil), nil
	}

	// Once admitted the attempt runs to completion even if the calling
	// request is aborted; channel sends and the audit record must stay
	// consistent with the admission and dedup state already committed.
	ctx = context.WithoutCancel(ctx)

	verdict := s.Scheduler.Evaluate(eff, s.now())
	switch verdict.Action {
	case schedule.Dropped:
		return s.settle(ctx, span, attempt, enabled, domain.OutcomeFrequencyDropped, nil), nil
	case schedule.Deferred:
		outcome := domain.OutcomeFrequencyDeferred
		if verdict.Cadence == domain.FreqInstant {
			outcome = domain.OutcomeQuietHours
		}
		if err := s.Digests.Enqueue(ctx, attempt, verdict); err != nil {
			log.Error().Err(err).Str("event", attempt.EventKey).Msg("digest enqueue failed")
			return s.settle(ctx, span, attempt, enabled, domain.OutcomeAllChannelsFailed, nil), nil
		}
		return s.settle(ctx, span, attempt, enabled, outcome, nil), nil
	}

	statuses, toast := s.FanOut.Deliver(ctx, tpl, attempt, enabled)

	outcome := domain.OutcomeSent
	result := &domain.DispatchResult{Channels: statuses, Toast: toast}
	if len(result.SentChannels()) == 0 {
		outcome = domain.OutcomeAllChannelsFailed
	}
	res := s.settle(ctx, span, attempt, enabled, outcome, statuses)
	res.Toast = toast
	return res, nil
}

// settle writes the single audit entry for the attempt and builds the
// caller-facing result.
func (s *DispatchService) settle(ctx context.Context, span trace.Span, attempt *domain.DispatchAttempt, enabled []domain.Channel, outcome domain.Outcome, statuses map[domain.Channel]domain.ChannelStatus) *domain.DispatchResult {
	span.SetAttributes(attribute.String("dispatch.outcome", string(outcome)))

	res := &domain.DispatchResult{
		Success:  outcome == domain.OutcomeSent,
		Outcome:  outcome,
		Channels: statuses,
	}

	e := &domain.AuditEntry{
		EventKey:      attempt.EventKey,
		RecipientID:   attempt.RecipientID,
		RecipientRole: attempt.RecipientRole,
		Outcome:       outcome,
		RequestedAt:   attempt.RequestedAt,
		CompletedAt:   s.now().UTC(),
	}
	e.SetEnabled(enabled)
	if statuses != nil {
		e.SetAdmitted(enabled)
		e.SetSent(res.SentChannels())
		e.SetFailed(res.FailedChannels())
	}
	s.Audit.Record(ctx, e, statuses)
	return res
}

// encodeVariables serializes a dispatch variable bag for digest storage.
func encodeVariables(vars map[string]string) string {
	if len(vars) == 0 {
		return "{}"
	}
	b, err := json.Marshal(vars)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// decodeVariables restores a digest item's variable bag.
func decodeVariables(s string) map[string]string {
	out := map[string]string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]string{}
	}
	return out
}
