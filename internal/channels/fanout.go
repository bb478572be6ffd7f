package channels

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/repo"
)

// FanOut delivers one attempt across its enabled channels with per-channel
// failure isolation: a channel that errors is marked failed and logged, and
// the remaining channels still run. No error ever escapes Deliver.
type FanOut struct {
	DB    *gorm.DB // database channel target
	Email Sender
	Push  Sender
}

// NewFanOut builds a FanOut over the given database handle and outbound
// senders.
func NewFanOut(db *gorm.DB, email, push Sender) *FanOut {
	return &FanOut{DB: db, Email: email, Push: push}
}

// Deliver runs every enabled channel for the attempt and returns the
// per-channel statuses plus the toast payload when the toast channel ran.
// Channels absent from enabled are reported as skipped and never run.
func (f *FanOut) Deliver(ctx context.Context, tpl *domain.Template, attempt *domain.DispatchAttempt, enabled []domain.Channel) (map[domain.Channel]domain.ChannelStatus, *domain.ToastPayload) {
	statuses := make(map[domain.Channel]domain.ChannelStatus, len(domain.AllChannels))
	for _, ch := range domain.AllChannels {
		statuses[ch] = domain.StatusSkipped
	}
	var toast *domain.ToastPayload

	for _, ch := range enabled {
		var err error
		switch ch {
		case domain.ChannelToast:
			toast = RenderToast(tpl, attempt.Variables)
		case domain.ChannelDatabase:
			_, err = repo.CreateNotification(ctx, f.DB,
				attempt.RecipientID,
				attempt.EventKey,
				Render(tpl.InAppTitle, attempt.Variables),
				Render(tpl.InAppBody, attempt.Variables),
				Render(tpl.ActionURL, attempt.Variables),
			)
		case domain.ChannelEmail:
			err = f.Email.Send(ctx, Message{
				EventKey:    attempt.EventKey,
				RecipientID: attempt.RecipientID,
				Subject:     Render(tpl.EmailSubject, attempt.Variables),
				Body:        Render(tpl.EmailBody, attempt.Variables),
				ActionURL:   Render(tpl.ActionURL, attempt.Variables),
			})
		case domain.ChannelPush:
			err = f.Push.Send(ctx, Message{
				EventKey:    attempt.EventKey,
				RecipientID: attempt.RecipientID,
				Title:       Render(tpl.PushTitle, attempt.Variables),
				Body:        Render(tpl.PushBody, attempt.Variables),
				ActionURL:   Render(tpl.ActionURL, attempt.Variables),
			})
		}

		if err != nil {
			statuses[ch] = domain.StatusFailed
			log.Warn().
				Err(err).
				Str("channel", string(ch)).
				Str("event", attempt.EventKey).
				Str("recipient", attempt.RecipientID).
				Msg("channel send failed")
			continue
		}
		statuses[ch] = domain.StatusSent
	}
	return statuses, toast
}
