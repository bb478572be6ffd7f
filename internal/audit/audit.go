// Package audit records the immutable outcome of every dispatch attempt.
//
// Each settled attempt produces exactly one AuditEntry row plus Prometheus
// counter increments, so the log answers "what happened to this user's
// notifications" while the counters answer "what is happening to everyone's".
// Audit failures are logged and swallowed: a broken audit write must not
// turn an otherwise delivered notification into a caller-visible error.
package audit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
)

var (
	// dispatchOutcomes counts settled dispatch attempts by event key and
	// final outcome. Event keys come from the seeded catalogue, so the
	// label cardinality is bounded by configuration.
	dispatchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_dispatch_outcomes_total",
			Help: "Total dispatch attempts by event key and final outcome.",
		},
		[]string{"event", "outcome"},
	)

	// channelSends counts per-channel delivery results.
	channelSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_channel_sends_total",
			Help: "Total per-channel delivery results.",
		},
		[]string{"channel", "status"},
	)

	// digestFlushes counts aggregated digest deliveries by cadence.
	digestFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_digest_flushes_total",
			Help: "Total aggregated digest deliveries by cadence.",
		},
		[]string{"cadence"},
	)
)

func init() {
	prometheus.MustRegister(dispatchOutcomes, channelSends, digestFlushes)
}

// Recorder persists audit entries and keeps the dispatch counters current.
type Recorder struct {
	DB *gorm.DB
}

// NewRecorder builds a Recorder over the given database handle.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Record writes one settled attempt to the audit log and increments the
// outcome and channel counters. Never returns an error; a failed write is
// logged and the dispatch result stands.
func (r *Recorder) Record(ctx context.Context, e *domain.AuditEntry, statuses map[domain.Channel]domain.ChannelStatus) {
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now().UTC()
	}

	dispatchOutcomes.WithLabelValues(e.EventKey, string(e.Outcome)).Inc()
	for ch, st := range statuses {
		channelSends.WithLabelValues(string(ch), string(st)).Inc()
	}

	if err := repo.AppendAudit(ctx, r.DB, e); err != nil {
		log.Error().
			Err(err).
			Str("event", e.EventKey).
			Str("recipient", e.RecipientID).
			Str("outcome", string(e.Outcome)).
			Msg("audit append failed")
	}
}

// ObserveDigestFlush increments the digest delivery counter for a cadence.
func ObserveDigestFlush(cadence domain.Frequency) {
	digestFlushes.WithLabelValues(string(cadence)).Inc()
}
