// Package repo – marketplace event catalogue seed.
//
// SeedCatalogue populates the events and templates tables on first boot so
// the registry has a working catalogue without an authoring UI. Seeding is
// idempotent: it is skipped entirely when any event row already exists.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

// seedEvent couples one catalogue event with its per-role templates.
type seedEvent struct {
	key       string
	name      string
	dedupKeys string
	templates []domain.Template
}

// catalogue is the default marketplace event set. Dedup keys name the
// identity-bearing variables per event; timestamps and display strings are
// deliberately excluded so cosmetic differences still count as duplicates.
var catalogue = []seedEvent{
	{
		key: "booking.created", name: "Booking created", dedupKeys: "booking_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleProvider,
				ToastEnabled:  true, DatabaseEnabled: true, EmailEnabled: true, PushEnabled: true,
				ToastType: "info", ToastTitle: "New booking request",
				ToastMessage: "{customer_name} requested {service_name} on {booking_date}",
				InAppTitle:   "New booking request",
				InAppBody:    "{customer_name} requested {service_name} on {booking_date}.",
				ActionURL:    "/bookings/{booking_id}",
				EmailSubject: "New booking request for {service_name}",
				EmailBody:    "{customer_name} requested {service_name} on {booking_date}. Open {action_url} to respond.",
				PushTitle:    "New booking request",
				PushBody:     "{customer_name} requested {service_name}",
			},
			{
				RecipientRole: domain.RoleCustomer,
				ToastEnabled:  true, DatabaseEnabled: true,
				ToastType: "success", ToastTitle: "Booking sent",
				ToastMessage: "Your request for {service_name} was sent to {provider_name}",
				InAppTitle:   "Booking request sent",
				InAppBody:    "Your request for {service_name} was sent to {provider_name}.",
				ActionURL:    "/bookings/{booking_id}",
			},
		},
	},
	{
		key: "booking.accepted", name: "Booking accepted", dedupKeys: "booking_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleCustomer,
				ToastEnabled:  true, DatabaseEnabled: true, EmailEnabled: true, PushEnabled: true,
				ToastType: "success", ToastTitle: "Booking confirmed",
				ToastMessage: "{provider_name} accepted your booking for {booking_date}",
				InAppTitle:   "Booking confirmed",
				InAppBody:    "{provider_name} accepted your booking for {booking_date}.",
				ActionURL:    "/bookings/{booking_id}",
				EmailSubject: "Your booking on {booking_date} is confirmed",
				EmailBody:    "{provider_name} accepted your booking for {service_name} on {booking_date}.",
				PushTitle:    "Booking confirmed",
				PushBody:     "{provider_name} accepted your booking",
			},
		},
	},
	{
		key: "booking.declined", name: "Booking declined", dedupKeys: "booking_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleCustomer,
				ToastEnabled:  true, DatabaseEnabled: true, EmailEnabled: true,
				ToastType: "warning", ToastTitle: "Booking declined",
				ToastMessage: "{provider_name} can't take your booking on {booking_date}",
				InAppTitle:   "Booking declined",
				InAppBody:    "{provider_name} declined your booking for {booking_date}.",
				ActionURL:    "/search",
				EmailSubject: "Your booking on {booking_date} was declined",
				EmailBody:    "{provider_name} declined your booking for {service_name}. Find another provider at {action_url}.",
			},
		},
	},
	{
		key: "booking.cancelled", name: "Booking cancelled", dedupKeys: "booking_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleProvider,
				ToastEnabled:  true, DatabaseEnabled: true, EmailEnabled: true, PushEnabled: true,
				ToastType: "warning", ToastTitle: "Booking cancelled",
				ToastMessage: "{customer_name} cancelled the booking on {booking_date}",
				InAppTitle:   "Booking cancelled",
				InAppBody:    "{customer_name} cancelled the booking for {service_name} on {booking_date}.",
				ActionURL:    "/bookings/{booking_id}",
				EmailSubject: "Booking on {booking_date} cancelled",
				EmailBody:    "{customer_name} cancelled the booking for {service_name} on {booking_date}.",
				PushTitle:    "Booking cancelled",
				PushBody:     "{customer_name} cancelled a booking",
			},
		},
	},
	{
		key: "review.received", name: "Review received", dedupKeys: "review_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleProvider,
				ToastEnabled:  true, DatabaseEnabled: true, EmailEnabled: true,
				ToastType: "info", ToastTitle: "New review",
				ToastMessage: "{customer_name} left a {rating}-star review",
				InAppTitle:   "New review",
				InAppBody:    "{customer_name} left a {rating}-star review: {review_excerpt}",
				ActionURL:    "/reviews/{review_id}",
				EmailSubject: "You received a {rating}-star review",
				EmailBody:    "{customer_name} reviewed {service_name}: {review_excerpt}",
			},
		},
	},
	{
		key: "message.received", name: "Message received", dedupKeys: "message_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleCustomer,
				ToastEnabled:  true, DatabaseEnabled: true, PushEnabled: true,
				ToastType: "info", ToastTitle: "New message",
				ToastMessage: "{sender_name}: {message_preview}",
				InAppTitle:   "New message from {sender_name}",
				InAppBody:    "{message_preview}",
				ActionURL:    "/messages/{conversation_id}",
				PushTitle:    "{sender_name}",
				PushBody:     "{message_preview}",
			},
			{
				RecipientRole: domain.RoleProvider,
				ToastEnabled:  true, DatabaseEnabled: true, PushEnabled: true,
				ToastType: "info", ToastTitle: "New message",
				ToastMessage: "{sender_name}: {message_preview}",
				InAppTitle:   "New message from {sender_name}",
				InAppBody:    "{message_preview}",
				ActionURL:    "/messages/{conversation_id}",
				PushTitle:    "{sender_name}",
				PushBody:     "{message_preview}",
			},
		},
	},
	{
		key: "invoice.paid", name: "Invoice paid", dedupKeys: "invoice_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleProvider,
				DatabaseEnabled: true, EmailEnabled: true,
				InAppTitle:   "Invoice {invoice_number} paid",
				InAppBody:    "{customer_name} paid {amount} for invoice {invoice_number}.",
				ActionURL:    "/invoices/{invoice_id}",
				EmailSubject: "Invoice {invoice_number} paid",
				EmailBody:    "{customer_name} paid {amount} for invoice {invoice_number}.",
			},
		},
	},
	{
		key: "boost.expiring", name: "Listing boost expiring", dedupKeys: "boost_id",
		templates: []domain.Template{
			{
				RecipientRole: domain.RoleProvider,
				DatabaseEnabled: true, EmailEnabled: true,
				InAppTitle:   "Your boost expires soon",
				InAppBody:    "The boost for {listing_title} expires on {expires_date}.",
				ActionURL:    "/boosts/{boost_id}",
				EmailSubject: "Your boost for {listing_title} expires soon",
				EmailBody:    "The boost for {listing_title} expires on {expires_date}. Renew at {action_url}.",
			},
		},
	},
}

// SeedCatalogue inserts the default catalogue when the events table is
// empty. Safe to call on every boot.
func SeedCatalogue(ctx context.Context, db *gorm.DB) error {
	total, err := CountEvents(ctx, db)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, se := range catalogue {
			if _, err := CreateEvent(ctx, tx, se.key, se.name, se.dedupKeys); err != nil {
				return err
			}
			for i := range se.templates {
				t := se.templates[i]
				t.EventKey = se.key
				t.Active = true
				if t.ToastType == "" {
					t.ToastType = "info"
				}
				if t.ToastDuration == 0 {
					t.ToastDuration = 5000
				}
				if _, err := CreateTemplate(ctx, tx, &t); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
