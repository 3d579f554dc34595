// Package notify delivers booking emails to guides and customers.
package notify

import (
	"context"
	"time"
)

// Kinds of booking email, also sent to the provider as a tag.
const (
	KindBookingRequested = "booking_requested"
	KindBookingConfirmed = "booking_confirmed"
	KindBookingCancelled = "booking_cancelled"
)

// SendRequest is one booking email, already rendered.
type SendRequest struct {
	Kind      string
	BookingID string
	To        []string
	ReplyTo   string
	Subject   string
	HTML      string
	Text      string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers booking emails.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
