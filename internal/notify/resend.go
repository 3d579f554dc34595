package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// ResendSender delivers booking emails through the Resend API from a single
// configured address.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender for apiKey sending as from.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Send delivers req. A reply-to address that is not a valid email is dropped
// rather than failing the send.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		slog.Error("booking_email_failed", "kind", req.Kind, "booking_id", req.BookingID, "error", err)
		return SendResult{}, fmt.Errorf("resend %s: %w", req.Kind, err)
	}
	slog.Info("booking_email_sent", "kind", req.Kind, "booking_id", req.BookingID, "message_id", sent.Id)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	p := &resend.SendEmailRequest{
		From:    s.from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	if validate.Email(req.ReplyTo) {
		p.ReplyTo = req.ReplyTo
	}
	if req.Kind != "" {
		p.Tags = append(p.Tags, resend.Tag{Name: "kind", Value: req.Kind})
	}
	if req.BookingID != "" {
		p.Tags = append(p.Tags, resend.Tag{Name: "booking_id", Value: req.BookingID})
	}
	return p
}

// NoopSender only logs booking emails. main uses it when RESEND_API_KEY is unset.
type NoopSender struct{}

// Send logs req and returns a message id derived from the booking.
func (NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("booking_email_skipped", "kind", req.Kind, "booking_id", req.BookingID, "to", req.To)
	return SendResult{MessageID: "noop-" + req.Kind + "-" + req.BookingID, SentAt: time.Now()}, nil
}
