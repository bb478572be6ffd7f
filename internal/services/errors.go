// Package services implements the business logic of the notification engine:
// the dispatch pipeline, digest flushing, preference management, and the
// in-app notification feed. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers with errors.Is.
//
// These errors are internal to the service layer; translation into
// user-facing messages or HTTP status codes happens at the handler layer.
package services

import "errors"

// Dispatch configuration errors. Per the error taxonomy these are the only
// caller-visible dispatch failures; every other outcome is a normal return.
var (
	// ErrUnknownEvent indicates the event key matches no active event.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrNoTemplate indicates the event exists but carries no active
	// template for the recipient's role.
	ErrNoTemplate = errors.New("no template for recipient role")

	// ErrInvalidRole is returned when the recipient role is outside
	// {customer, provider, admin}.
	ErrInvalidRole = errors.New("invalid recipient role")

	// ErrEmptyRecipient is returned when a dispatch attempt names no
	// recipient.
	ErrEmptyRecipient = errors.New("recipient id is empty")
)

// Preference errors.
var (
	// ErrInvalidFrequency is returned when a frequency is outside
	// {instant, hourly, daily, weekly, off}.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidQuietHours is returned when a quiet hours bound is not a
	// valid 24h "HH:MM" clock time.
	ErrInvalidQuietHours = errors.New("invalid quiet hours window")

	// ErrInvalidTimezone is returned when a timezone is not a loadable
	// IANA zone name.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// Notification feed errors.
var (
	// ErrNotificationNotFound indicates the notification does not exist or
	// is not owned by the current user.
	ErrNotificationNotFound = errors.New("notification not found")
)
