package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// BookingService handles public booking requests and their review by the guide.
type BookingService struct {
	tours    repository.TourStore
	bookings repository.BookingStore
	profiles repository.ProfileStore
	notifier Notifier
	now      func() time.Time
}

// NewBookingService constructs a BookingService. notifier may be nil.
func NewBookingService(
	tours repository.TourStore,
	bookings repository.BookingStore,
	profiles repository.ProfileStore,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		tours:    tours,
		bookings: bookings,
		profiles: profiles,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateBooking records a pending booking request on one of a tour's dates.
//
// The tour must be active and the date must belong to it, otherwise the
// request fails with ErrNotFound. Spots are checked here but only taken when
// the guide confirms.
func (s *BookingService) CreateBooking(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Notes = strings.TrimSpace(req.Notes)
	if errs := validate.Struct(req); errs != nil {
		return nil, invalid(errs)
	}

	tour, err := s.tours.GetByID(ctx, req.TourID)
	if err != nil {
		return nil, translate("get tour", err)
	}
	if !tour.IsActive {
		return nil, ErrNotFound
	}
	date, ok := tour.FindDate(req.AvailableDateID)
	if !ok {
		return nil, ErrNotFound
	}
	if date.IsPast(s.now()) {
		return nil, invalidField("available_date_id", "date has already passed")
	}
	if tour.MaxParticipants != nil && req.Participants > *tour.MaxParticipants {
		return nil, invalidField("participants", fmt.Sprintf("must be at most %d", *tour.MaxParticipants))
	}
	if req.Participants > date.SpotsAvailable {
		return nil, ErrNoCapacity
	}

	b := &model.Booking{
		TourID:          tour.ID,
		AvailableDateID: date.ID,
		CustomerName:    req.Name,
		CustomerEmail:   req.Email,
		CustomerPhone:   req.Phone,
		Participants:    req.Participants,
		Notes:           req.Notes,
		Status:          model.StatusPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, translate("create booking", err)
	}
	slog.Info("booking_created",
		"booking_id", b.ID,
		"tour_id", tour.ID,
		"date_id", date.ID,
		"participants", b.Participants,
	)

	s.notifyGuide(ctx, tour.Tour, date, *b)
	return b, nil
}

// ListBookings returns bookings on the owner's tours, newest first.
// An empty status lists every booking.
func (s *BookingService) ListBookings(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.BookingWithDetails, error) {
	if status != "" && !status.Valid() {
		return nil, invalidField("status", "must be one of: pending, confirmed, cancelled")
	}
	list, err := s.bookings.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if list == nil {
		list = []model.BookingWithDetails{}
	}
	return list, nil
}

// SetStatus confirms or cancels a pending booking on one of the owner's tours.
// Repeating the booking's current terminal status returns it unchanged.
func (s *BookingService) SetStatus(ctx context.Context, ownerID, id string, status model.BookingStatus) (*model.Booking, error) {
	if errs := validate.Struct(model.StatusRequest{Status: status}); errs != nil {
		return nil, invalid(errs)
	}

	cur, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get booking", err)
	}
	tour, err := s.tours.GetByID(ctx, cur.TourID)
	if err != nil {
		return nil, translate("get tour", err)
	}
	if tour.UserID != ownerID {
		return nil, ErrUnauthorized
	}

	b, err := s.bookings.Transition(ctx, id, status)
	if err != nil {
		return nil, translate("set booking status", err)
	}
	if cur.Status == b.Status {
		return b, nil
	}
	slog.Info("booking_status_changed", "booking_id", b.ID, "from", cur.Status, "to", b.Status)

	if s.notifier != nil {
		date, _ := tour.FindDate(b.AvailableDateID)
		if err := s.notifier.BookingStatusChanged(ctx, tour.Tour, date, *b); err != nil {
			slog.Warn("booking_notification_failed", "booking_id", b.ID, "error", err)
		}
	}
	return b, nil
}

func (s *BookingService) notifyGuide(ctx context.Context, tour model.Tour, date model.AvailableDate, b model.Booking) {
	if s.notifier == nil {
		return
	}
	var guideEmail string
	if p, err := s.profiles.GetByUserID(ctx, tour.UserID); err == nil {
		guideEmail = p.Email
	}
	if err := s.notifier.BookingRequested(ctx, guideEmail, tour, date, b); err != nil {
		slog.Warn("booking_notification_failed", "booking_id", b.ID, "error", err)
	}
}
