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

// TourService handles a guide's tours and their available dates.
// Every admin operation is scoped to ownerID.
type TourService struct {
	tours repository.TourStore
	now   func() time.Time
}

// NewTourService constructs a TourService.
func NewTourService(tours repository.TourStore) *TourService {
	return &TourService{tours: tours, now: time.Now}
}

// ListTours returns the owner's tours with nested dates, oldest first.
func (s *TourService) ListTours(ctx context.Context, ownerID string, activeOnly bool) ([]model.TourWithDates, error) {
	tours, err := s.tours.ListByOwner(ctx, ownerID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	if tours == nil {
		tours = []model.TourWithDates{}
	}
	return tours, nil
}

// GetTour returns one of the owner's tours.
func (s *TourService) GetTour(ctx context.Context, ownerID, id string) (*model.TourWithDates, error) {
	return s.owned(ctx, ownerID, id)
}

// CreateTour validates in and stores a new tour. Tours are active unless
// is_active is explicitly false.
func (s *TourService) CreateTour(ctx context.Context, ownerID string, in model.TourInput) (*model.Tour, error) {
	in = trimTour(in)
	if errs := validate.Struct(in); errs != nil {
		return nil, invalid(errs)
	}

	t := &model.Tour{UserID: ownerID, IsActive: true}
	applyTour(t, in)
	if err := s.tours.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	slog.Info("tour_created", "tour_id", t.ID, "user_id", ownerID)
	return t, nil
}

// UpdateTour replaces the editable fields of an existing tour.
// A nil is_active keeps the current value.
func (s *TourService) UpdateTour(ctx context.Context, ownerID, id string, in model.TourInput) (*model.Tour, error) {
	in = trimTour(in)
	if errs := validate.Struct(in); errs != nil {
		return nil, invalid(errs)
	}
	cur, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	t := cur.Tour
	applyTour(&t, in)
	if err := s.tours.Update(ctx, &t); err != nil {
		return nil, translate("update tour", err)
	}
	return &t, nil
}

// DeleteTour removes a tour together with its dates and bookings.
func (s *TourService) DeleteTour(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.tours.Delete(ctx, id); err != nil {
		return translate("delete tour", err)
	}
	slog.Info("tour_deleted", "tour_id", id, "user_id", ownerID)
	return nil
}

// ListDates returns the dates of one of the owner's tours.
func (s *TourService) ListDates(ctx context.Context, ownerID, tourID string) ([]model.AvailableDate, error) {
	t, err := s.owned(ctx, ownerID, tourID)
	if err != nil {
		return nil, err
	}
	if t.AvailableDates == nil {
		return []model.AvailableDate{}, nil
	}
	return t.AvailableDates, nil
}

// AddDate adds a bookable slot to a tour. Dates before today are rejected.
func (s *TourService) AddDate(ctx context.Context, ownerID, tourID string, in model.DateInput) (*model.AvailableDate, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	if errs := validate.Struct(in); errs != nil {
		return nil, invalid(errs)
	}
	d := &model.AvailableDate{TourID: tourID, Date: in.Date, StartTime: in.StartTime, SpotsAvailable: in.SpotsAvailable}
	if d.IsPast(s.now()) {
		return nil, invalidField("date", "must not be in the past")
	}
	if _, err := s.owned(ctx, ownerID, tourID); err != nil {
		return nil, err
	}

	if err := s.tours.AddDate(ctx, d); err != nil {
		return nil, translate("add date", err)
	}
	return d, nil
}

// RemoveDate deletes a slot. It fails with ErrDateInUse while pending or
// confirmed bookings reference it.
func (s *TourService) RemoveDate(ctx context.Context, ownerID, dateID string) error {
	d, err := s.tours.GetDate(ctx, dateID)
	if err != nil {
		return translate("get date", err)
	}
	if _, err := s.owned(ctx, ownerID, d.TourID); err != nil {
		return err
	}
	if err := s.tours.RemoveDate(ctx, dateID); err != nil {
		return translate("remove date", err)
	}
	return nil
}

// PublicTours returns a guide's active tours showing only dates from today on.
func (s *TourService) PublicTours(ctx context.Context, ownerID string) ([]model.TourWithDates, error) {
	tours, err := s.ListTours(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range tours {
		tours[i].AvailableDates = upcoming(tours[i].AvailableDates, now)
	}
	return tours, nil
}

// PublicTour returns an active tour of the guide. Inactive tours and tours of
// other guides are reported as not found.
func (s *TourService) PublicTour(ctx context.Context, ownerID, tourID string) (*model.TourWithDates, error) {
	t, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, translate("get tour", err)
	}
	if t.UserID != ownerID || !t.IsActive {
		return nil, ErrNotFound
	}
	t.AvailableDates = upcoming(t.AvailableDates, s.now())
	return t, nil
}

func (s *TourService) owned(ctx context.Context, ownerID, id string) (*model.TourWithDates, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get tour", err)
	}
	if t.UserID != ownerID {
		return nil, ErrUnauthorized
	}
	return t, nil
}

func upcoming(dates []model.AvailableDate, now time.Time) []model.AvailableDate {
	out := make([]model.AvailableDate, 0, len(dates))
	for _, d := range dates {
		if !d.IsPast(now) {
			out = append(out, d)
		}
	}
	return out
}

func trimTour(in model.TourInput) model.TourInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Location = strings.TrimSpace(in.Location)
	return in
}

func applyTour(t *model.Tour, in model.TourInput) {
	t.Title = in.Title
	t.Description = in.Description
	t.ImageURL = in.ImageURL
	t.Price = in.Price
	t.DurationHours = in.DurationHours
	t.Location = in.Location
	t.MaxParticipants = nil
	if in.MaxParticipants != nil {
		n := *in.MaxParticipants
		t.MaxParticipants = &n
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
}
