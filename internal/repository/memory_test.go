package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

func seedTour(t *testing.T, s *MemoryStore, owner, title string) *model.Tour {
	t.Helper()
	tour := &model.Tour{UserID: owner, Title: title, Price: 100, DurationHours: 3, IsActive: true}
	if err := s.Tours().Create(context.Background(), tour); err != nil {
		t.Fatalf("create tour: %v", err)
	}
	return tour
}

func seedDate(t *testing.T, s *MemoryStore, tourID, date string, spots int) *model.AvailableDate {
	t.Helper()
	d := &model.AvailableDate{TourID: tourID, Date: date, StartTime: "09:00", SpotsAvailable: spots}
	if err := s.Tours().AddDate(context.Background(), d); err != nil {
		t.Fatalf("add date: %v", err)
	}
	return d
}

func seedBooking(t *testing.T, s *MemoryStore, tourID, dateID string, participants int) *model.Booking {
	t.Helper()
	b := &model.Booking{
		TourID: tourID, AvailableDateID: dateID,
		CustomerName: "Ana", CustomerEmail: "ana@example.com", Participants: participants,
	}
	if err := s.Bookings().Create(context.Background(), b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestMemoryTours_ListOrderAndScope(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	first := seedTour(t, s, "guide-a", "First")
	second := seedTour(t, s, "guide-a", "Second")
	seedTour(t, s, "guide-b", "Other guide")

	second.IsActive = false
	if err := s.Tours().Update(ctx, second); err != nil {
		t.Fatalf("update: %v", err)
	}
	seedDate(t, s, first.ID, "2030-01-02", 5)
	seedDate(t, s, first.ID, "2030-01-01", 5)

	tours, err := s.Tours().ListByOwner(ctx, "guide-a", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tours) != 2 || tours[0].Title != "First" || tours[1].Title != "Second" {
		t.Fatalf("unexpected tours: %+v", tours)
	}
	if got := tours[0].AvailableDates; len(got) != 2 || got[0].Date != "2030-01-01" {
		t.Errorf("dates not sorted by day: %+v", got)
	}

	active, _ := s.Tours().ListByOwner(ctx, "guide-a", true)
	if len(active) != 1 || active[0].ID != first.ID {
		t.Errorf("activeOnly returned %+v", active)
	}
}

func TestMemoryTours_DeleteCascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tour := seedTour(t, s, "guide-a", "City Walk")
	d := seedDate(t, s, tour.ID, "2030-06-01", 5)
	b := seedBooking(t, s, tour.ID, d.ID, 2)

	if err := s.Tours().Delete(ctx, tour.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Tours().GetDate(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("date should be gone, got %v", err)
	}
	if _, err := s.Bookings().GetByID(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("booking should be gone, got %v", err)
	}
	if err := s.Tours().Delete(ctx, tour.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMemoryBookings_Transition(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tour := seedTour(t, s, "guide-a", "City Walk")
	d := seedDate(t, s, tour.ID, "2030-06-01", 5)
	b := seedBooking(t, s, tour.ID, d.ID, 2)

	got, err := s.Bookings().Transition(ctx, b.ID, model.StatusConfirmed)
	if err != nil || got.Status != model.StatusConfirmed {
		t.Fatalf("confirm: %v %+v", err, got)
	}
	date, _ := s.Tours().GetDate(ctx, d.ID)
	if date.SpotsAvailable != 3 {
		t.Errorf("spots = %d, want 3", date.SpotsAvailable)
	}

	// Repeat is a no-op and does not consume spots again.
	if _, err := s.Bookings().Transition(ctx, b.ID, model.StatusConfirmed); err != nil {
		t.Errorf("repeat confirm: %v", err)
	}
	date, _ = s.Tours().GetDate(ctx, d.ID)
	if date.SpotsAvailable != 3 {
		t.Errorf("spots after repeat = %d, want 3", date.SpotsAvailable)
	}

	if _, err := s.Bookings().Transition(ctx, b.ID, model.StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirmed->cancelled: got %v", err)
	}
}

func TestMemoryBookings_ConfirmWithoutCapacity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tour := seedTour(t, s, "guide-a", "City Walk")
	d := seedDate(t, s, tour.ID, "2030-06-01", 1)
	b := seedBooking(t, s, tour.ID, d.ID, 2)

	if _, err := s.Bookings().Transition(ctx, b.ID, model.StatusConfirmed); !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}
	got, _ := s.Bookings().GetByID(ctx, b.ID)
	if got.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
}

func TestMemoryTours_RemoveDate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tour := seedTour(t, s, "guide-a", "City Walk")
	d := seedDate(t, s, tour.ID, "2030-06-01", 5)
	b := seedBooking(t, s, tour.ID, d.ID, 1)

	if err := s.Tours().RemoveDate(ctx, d.ID); !errors.Is(err, ErrDateInUse) {
		t.Fatalf("expected ErrDateInUse, got %v", err)
	}
	if _, err := s.Bookings().Transition(ctx, b.ID, model.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := s.Tours().RemoveDate(ctx, d.ID); err != nil {
		t.Fatalf("remove after cancel: %v", err)
	}
	if _, err := s.Bookings().GetByID(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancelled booking should be removed with its date, got %v", err)
	}
	if err := s.Tours().RemoveDate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown date: got %v", err)
	}
}

func TestMemoryBookings_ListByOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	mine := seedTour(t, s, "guide-a", "Mine")
	theirs := seedTour(t, s, "guide-b", "Theirs")
	d1 := seedDate(t, s, mine.ID, "2030-06-01", 5)
	d2 := seedDate(t, s, theirs.ID, "2030-06-01", 5)
	older := seedBooking(t, s, mine.ID, d1.ID, 2)
	newer := seedBooking(t, s, mine.ID, d1.ID, 1)
	seedBooking(t, s, theirs.ID, d2.ID, 1)

	list, err := s.Bookings().ListByOwner(ctx, "guide-a", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[1].Tour.Title != "Mine" || list[1].AvailableDate.Date != "2030-06-01" || list[1].EstimatedTotal != 200 {
		t.Errorf("details not joined: %+v", list[1])
	}

	pending, _ := s.Bookings().ListByOwner(ctx, "guide-a", model.StatusConfirmed)
	if len(pending) != 0 {
		t.Errorf("status filter returned %d bookings", len(pending))
	}
}

func TestMemoryProfiles_OnePerUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Profiles().Create(ctx, &model.Profile{UserID: "u1", Name: "Ricardo"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Profiles().Create(ctx, &model.Profile{UserID: "u1", Name: "Again"}); !errors.Is(err, ErrProfileExists) {
		t.Errorf("expected ErrProfileExists, got %v", err)
	}
	if err := s.Profiles().Update(ctx, &model.Profile{UserID: "nobody"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown: got %v", err)
	}
}
