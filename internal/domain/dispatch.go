// Package domain – dispatch value types.
//
// This file defines the ephemeral types exchanged across the dispatch
// pipeline: the attempt handed in by a caller, the toast payload returned to
// it, and the structured result of one dispatch.
package domain

import "time"

// DispatchAttempt is one request to notify a recipient about an event.
// Attempts are ephemeral: they are not persisted beyond the audit entry
// produced for them.
type DispatchAttempt struct {
	EventKey      string            `json:"event_key"`
	RecipientID   string            `json:"recipient_id"`
	RecipientRole Role              `json:"recipient_role"`
	Variables     map[string]string `json:"variables"`
	RequestedAt   time.Time         `json:"requested_at"`
}

// Variable returns the named variable or "" when absent. Missing
// placeholders render as empty strings by contract.
func (a *DispatchAttempt) Variable(name string) string {
	if a.Variables == nil {
		return ""
	}
	return a.Variables[name]
}

// ToastPayload is the synchronous in-response toast produced by the toast
// channel. It is returned to the caller for inclusion in its own HTTP
// response and never persisted.
type ToastPayload struct {
	Type     string `json:"type"`     // info|success|warning|error
	Title    string `json:"title"`
	Message  string `json:"message"`
	Duration int    `json:"duration"` // display time in milliseconds
}

// DispatchResult is the structured outcome of one dispatch attempt.
//
// Success is true only when at least one channel actually sent
// (Outcome == sent). Deferred, dropped, and rejected attempts report
// Success=false with a nil error; the Outcome tells the caller what
// happened.
type DispatchResult struct {
	Success  bool                      `json:"success"`
	Outcome  Outcome                   `json:"outcome"`
	Channels map[Channel]ChannelStatus `json:"channels"`
	Toast    *ToastPayload             `json:"toast_payload,omitempty"`
}

// SentChannels returns the channels that reported sent.
func (r *DispatchResult) SentChannels() []Channel {
	var out []Channel
	for _, ch := range AllChannels {
		if r.Channels[ch] == StatusSent {
			out = append(out, ch)
		}
	}
	return out
}

// FailedChannels returns the channels that reported failed.
func (r *DispatchResult) FailedChannels() []Channel {
	var out []Channel
	for _, ch := range AllChannels {
		if r.Channels[ch] == StatusFailed {
			out = append(out, ch)
		}
	}
	return out
}
