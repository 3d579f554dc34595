package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/render"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// Mailer composes booking emails as markdown and hands them to a Sender.
type Mailer struct {
	sender Sender
}

// NewMailer creates a Mailer on top of sender.
func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// BookingRequested tells the guide a visitor asked for spots on a tour.
func (m *Mailer) BookingRequested(ctx context.Context, guideEmail string, tour model.Tour, date model.AvailableDate, b model.Booking) error {
	if !validate.Email(guideEmail) {
		return nil
	}
	var body strings.Builder
	fmt.Fprintf(&body, "New booking request for **%s**.\n\n", tour.Title)
	fmt.Fprintf(&body, "- Date: %s at %s\n", date.Date, date.StartTime)
	fmt.Fprintf(&body, "- Customer: %s (%s)\n", b.CustomerName, b.CustomerEmail)
	if b.CustomerPhone != "" {
		fmt.Fprintf(&body, "- Phone: %s\n", b.CustomerPhone)
	}
	fmt.Fprintf(&body, "- Participants: %d\n", b.Participants)
	fmt.Fprintf(&body, "- Estimated total: %.2f\n", tour.EstimatedTotal(b.Participants))
	if b.Notes != "" {
		fmt.Fprintf(&body, "\nNotes:\n\n%s\n", b.Notes)
	}
	body.WriteString("\nConfirm or cancel it from your admin panel.\n")

	return m.send(ctx, SendRequest{
		Kind:      KindBookingRequested,
		BookingID: b.ID,
		To:        []string{guideEmail},
		ReplyTo:   b.CustomerEmail,
		Subject:   "New booking request: " + tour.Title,
	}, body.String())
}

// BookingStatusChanged tells the customer their request was confirmed or cancelled.
func (m *Mailer) BookingStatusChanged(ctx context.Context, tour model.Tour, date model.AvailableDate, b model.Booking) error {
	var kind, subject, line string
	switch b.Status {
	case model.StatusConfirmed:
		kind = KindBookingConfirmed
		subject = "Your booking is confirmed: " + tour.Title
		line = "Good news, your booking is **confirmed**."
	case model.StatusCancelled:
		kind = KindBookingCancelled
		subject = "Your booking was cancelled: " + tour.Title
		line = "Unfortunately your booking could not be accepted and was **cancelled**."
	default:
		return nil
	}
	body := fmt.Sprintf("Hello %s,\n\n%s\n\n- Tour: %s\n- Date: %s at %s\n- Participants: %d\n",
		b.CustomerName, line, tour.Title, date.Date, date.StartTime, b.Participants)

	return m.send(ctx, SendRequest{
		Kind:      kind,
		BookingID: b.ID,
		To:        []string{b.CustomerEmail},
		Subject:   subject,
	}, body)
}

func (m *Mailer) send(ctx context.Context, req SendRequest, markdown string) error {
	html, err := render.Markdown(markdown)
	if err != nil {
		return err
	}
	req.HTML = html
	req.Text = markdown
	if _, err := m.sender.Send(ctx, req); err != nil {
		return fmt.Errorf("send %q: %w", req.Subject, err)
	}
	return nil
}
