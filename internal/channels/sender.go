package channels

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Message is the rendered content handed to one channel sender. Subject is
// only meaningful for email; the other fields apply per channel.
type Message struct {
	EventKey    string
	RecipientID string
	Subject     string
	Title       string
	Body        string
	ActionURL   string
}

// Sender delivers one rendered message over a single channel. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogSender is a stand-in for an external provider integration: it logs the
// delivery instead of performing it. Used for email and push until real
// provider credentials are wired.
type LogSender struct {
	// Channel tags the log lines ("email" or "push").
	Channel string
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("channel", s.Channel).
		Str("event", msg.EventKey).
		Str("recipient", msg.RecipientID).
		Str("subject", msg.Subject).
		Msg("outbound send")
	return nil
}

// ErrQueueFull is returned by Pool.Send when the bounded queue cannot accept
// another message without blocking the dispatch path.
var ErrQueueFull = errors.New("sender queue full")

// Pool wraps a Sender with a fixed worker pool and a bounded queue so slow
// external sends never block the synchronous dispatch path. Send enqueues
// and returns immediately; delivery errors are logged by the workers, not
// surfaced to the dispatcher. At-most-once: a message dropped by a full
// queue or a failed worker send is not retried.
type Pool struct {
	inner   Sender
	channel string
	queue   chan Message
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewPool starts workers goroutines draining a queue of the given size into
// inner. Non-positive sizes fall back to 1 worker / 64 slots.
func NewPool(inner Sender, channel string, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	p := &Pool{inner: inner, channel: channel, queue: make(chan Message, queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for msg := range p.queue {
		if err := p.inner.Send(context.Background(), msg); err != nil {
			log.Warn().
				Err(err).
				Str("channel", p.channel).
				Str("event", msg.EventKey).
				Str("recipient", msg.RecipientID).
				Msg("background send failed")
		}
	}
}

// Send enqueues the message for background delivery. It fails only when the
// queue is full; acceptance means "handed off", not "delivered".
func (p *Pool) Send(_ context.Context, msg Message) error {
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting new messages and blocks until queued messages are
// drained. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
		p.wg.Wait()
	})
}
