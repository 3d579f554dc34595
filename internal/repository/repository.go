// Package repository implements persistence for the tour booking system.
// Each store has a PostgreSQL implementation using pgx directly (no ORM)
// and an in-memory implementation with identical behaviour.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoCapacity is returned when a date has fewer spots than a booking needs.
var ErrNoCapacity = errors.New("not enough spots available")

// ErrInvalidTransition is returned when a booking is no longer pending.
var ErrInvalidTransition = errors.New("booking is no longer pending")

// ErrDateInUse is returned when removing a date that active bookings reference.
var ErrDateInUse = errors.New("date has pending or confirmed bookings")

// ErrProfileExists is returned when a user already owns a profile.
var ErrProfileExists = errors.New("profile already exists for this user")

// AccountStore persists guide accounts.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	// ListByEmail returns every account registered under email, oldest first.
	ListByEmail(ctx context.Context, email string) ([]model.Account, error)
}

// ProfileStore persists guide profiles, one per user.
type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}

// TourStore persists tours and their available dates.
type TourStore interface {
	Create(ctx context.Context, t *model.Tour) error
	Update(ctx context.Context, t *model.Tour) error
	// Delete removes the tour along with its dates and bookings.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.TourWithDates, error)
	// ListByOwner returns the owner's tours by creation order, dates by day and time.
	ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]model.TourWithDates, error)
	AddDate(ctx context.Context, d *model.AvailableDate) error
	GetDate(ctx context.Context, id string) (*model.AvailableDate, error)
	// RemoveDate fails with ErrDateInUse while pending or confirmed bookings
	// reference the date. Cancelled bookings are removed with it.
	RemoveDate(ctx context.Context, id string) error
}

// BookingStore persists booking requests.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// ListByOwner returns bookings on the owner's tours, newest first.
	// An empty status returns every booking.
	ListByOwner(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.BookingWithDetails, error)
	// Transition atomically moves a pending booking to a terminal status.
	// Repeating the current terminal status is a no-op. Confirming
	// decrements the date's spots by the booking's participants.
	Transition(ctx context.Context, id string, to model.BookingStatus) (*model.Booking, error)
}
