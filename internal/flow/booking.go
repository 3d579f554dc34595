package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// BookingState is a step of the public booking flow.
type BookingState int

const (
	StateClosed BookingState = iota
	StateSelectingDate
	StateFillingForm
	StateSubmitting
)

func (s BookingState) String() string {
	switch s {
	case StateSelectingDate:
		return "selecting_date"
	case StateFillingForm:
		return "filling_form"
	case StateSubmitting:
		return "submitting"
	}
	return "closed"
}

var (
	ErrNoAvailableDates = errors.New("tour has no dates with open spots")
	ErrDateUnavailable  = errors.New("date is not available for booking")
	ErrWrongState       = errors.New("action not allowed in the current step")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrAbandoned        = errors.New("booking flow was closed before the request finished")
)

// FormError lists the fields that block a submission.
type FormError struct {
	Fields validate.FieldErrors
}

func (e *FormError) Error() string {
	return fmt.Sprintf("booking form has %d invalid field(s)", len(e.Fields))
}

// BookingForm is what the visitor types into the booking dialog.
type BookingForm struct {
	Name         string `json:"customer_name" validate:"required,max=200"`
	Email        string `json:"customer_email" validate:"required,email,max=254"`
	Phone        string `json:"customer_phone" validate:"max=40"`
	Participants int    `json:"participants" validate:"min=1,max=10"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// BookingCreator is implemented by service.BookingService.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
}

// Receipt is returned by a successful submission.
type Receipt struct {
	Booking        model.Booking
	EstimatedTotal float64
	Message        string
}

// BookingFlow drives the booking dialog of a single tour:
// selecting a date, filling the form, and submitting it.
type BookingFlow struct {
	creator BookingCreator

	mu        sync.Mutex
	state     BookingState
	tour      model.TourWithDates
	date      model.AvailableDate
	form      BookingForm
	fieldErrs validate.FieldErrors
	lastErr   string
	attempt   uint64
}

// NewBookingFlow creates a closed flow that submits through creator.
func NewBookingFlow(creator BookingCreator) *BookingFlow {
	return &BookingFlow{creator: creator}
}

// Open starts the flow for tour. Tours without a date that has open spots
// cannot be booked.
func (f *BookingFlow) Open(tour model.TourWithDates) error {
	if len(tour.BookableDates()) == 0 {
		return ErrNoAvailableDates
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	f.reset()
	f.tour = tour
	f.form = BookingForm{Participants: 1}
	f.state = StateSelectingDate
	return nil
}

// SelectDate picks one of the tour's bookable dates and moves to the form.
// Picking another date while filling the form keeps what was typed.
func (f *BookingFlow) SelectDate(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSelectingDate && f.state != StateFillingForm {
		return ErrWrongState
	}
	d, ok := f.tour.FindDate(id)
	if !ok || !d.HasSpots() {
		return ErrDateUnavailable
	}
	f.date = d
	f.state = StateFillingForm
	return nil
}

// Fill replaces the form contents.
func (f *BookingFlow) Fill(form BookingForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFillingForm {
		return ErrWrongState
	}
	f.form = form
	return nil
}

// Submit validates the form and sends the booking request. Invalid forms
// return a *FormError without reaching the BookingCreator. On success the flow
// closes; on failure it returns to the form with the data intact.
func (f *BookingFlow) Submit(ctx context.Context) (*Receipt, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	case StateFillingForm:
	default:
		f.mu.Unlock()
		return nil, ErrWrongState
	}

	form := f.form
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if errs := validate.Struct(form); errs != nil {
		f.fieldErrs = errs
		f.mu.Unlock()
		return nil, &FormError{Fields: errs}
	}
	f.fieldErrs = nil
	f.lastErr = ""
	f.state = StateSubmitting
	f.attempt++
	attempt := f.attempt
	tour, date := f.tour, f.date
	f.mu.Unlock()

	b, err := f.creator.CreateBooking(ctx, model.BookingRequest{
		TourID:          tour.ID,
		AvailableDateID: date.ID,
		Customer:        model.Customer{Name: form.Name, Email: form.Email, Phone: form.Phone},
		Participants:    form.Participants,
		Notes:           form.Notes,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != attempt || f.state != StateSubmitting {
		return nil, ErrAbandoned
	}
	if err != nil {
		f.lastErr = err.Error()
		f.state = StateFillingForm
		return nil, err
	}

	total := tour.EstimatedTotal(b.Participants)
	receipt := &Receipt{
		Booking:        *b,
		EstimatedTotal: total,
		Message: fmt.Sprintf("Booking request sent for %s on %s at %s. Estimated total: %.2f. The guide will contact you at %s to confirm.",
			tour.Title, date.Date, date.StartTime, total, b.CustomerEmail),
	}
	f.reset()
	return receipt, nil
}

// Close discards the flow. Closing while a submission is in flight abandons
// it and its result is dropped.
func (f *BookingFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		f.attempt++
	}
	f.reset()
}

// State returns the current step.
func (f *BookingFlow) State() BookingState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the form as last filled in.
func (f *BookingFlow) Form() BookingForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SelectedDate returns the chosen date, if any.
func (f *BookingFlow) SelectedDate() (model.AvailableDate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.date, f.date.ID != ""
}

// FieldErrors returns the errors of the last rejected submission.
func (f *BookingFlow) FieldErrors() validate.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrs
}

// LastError is the message of the last failed request.
func (f *BookingFlow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// reset clears everything except the attempt counter. Caller holds mu.
func (f *BookingFlow) reset() {
	f.state = StateClosed
	f.tour = model.TourWithDates{}
	f.date = model.AvailableDate{}
	f.form = BookingForm{}
	f.fieldErrs = nil
	f.lastErr = ""
}
