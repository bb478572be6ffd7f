// Package channels implements the delivery side of the dispatch pipeline:
// placeholder rendering, the per-channel sender abstraction, the async
// sender pool for slow external channels, and the failure-isolated fan-out
// across all enabled channels.
package channels

import (
	"regexp"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Render substitutes {name} placeholders in a template fragment from the
// dispatch variable bag. A placeholder with no matching variable renders as
// the empty string; rendering never fails.
func Render(fragment string, vars map[string]string) string {
	if fragment == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(fragment, func(tok string) string {
		return vars[tok[1:len(tok)-1]]
	})
}

// RenderToast builds the synchronous toast payload for one attempt.
func RenderToast(tpl *domain.Template, vars map[string]string) *domain.ToastPayload {
	return &domain.ToastPayload{
		Type:     tpl.ToastType,
		Title:    Render(tpl.ToastTitle, vars),
		Message:  Render(tpl.ToastMessage, vars),
		Duration: tpl.ToastDuration,
	}
}
