// Package handlers – stable API error codes.
//
// Codes are part of the public contract: clients branch on them, so they
// never change once shipped. Messages are advisory and may be reworded.
package handlers

// Transport-level codes used by the router fallbacks and shared helpers.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

// Dispatch codes.
const (
	CodeUnknownEvent   = "unknown_event"
	CodeNoTemplate     = "no_template"
	CodeDispatchFailed = "dispatch_failed"
)

// Preference codes.
const (
	CodeInvalidFrequency  = "invalid_frequency"
	CodeInvalidQuietHours = "invalid_quiet_hours"
	CodeInvalidTimezone   = "invalid_timezone"
	CodePreferenceFailed  = "preference_update_failed"
)

// Notification feed codes.
const (
	CodeListFailed = "list_failed"
	CodeMarkFailed = "mark_read_failed"
)
