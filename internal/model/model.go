// Package model defines the core domain types for the tour booking system.
package model

import (
	"strings"
	"time"
)

// Layouts used for the calendar date and start time of an AvailableDate.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for confirmed and cancelled bookings.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// CanTransition reports whether a booking may move from one status to another.
// Only pending bookings move, and only into a terminal state.
func CanTransition(from, to BookingStatus) bool {
	return from == StatusPending && to.IsTerminal()
}

// Account is a guide's login identity.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public face of a guide. There is at most one per account.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Location  string    `json:"location"`
	Languages []string  `json:"languages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tour is a bookable experience owned by a guide.
type Tour struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	Price           float64   `json:"price"`
	DurationHours   float64   `json:"duration_hours"`
	Location        string    `json:"location"`
	MaxParticipants *int      `json:"max_participants"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EstimatedTotal is the price for the given number of participants.
func (t *Tour) EstimatedTotal(participants int) float64 {
	return t.Price * float64(participants)
}

// AvailableDate is one bookable slot of a tour.
type AvailableDate struct {
	ID             string    `json:"id"`
	TourID         string    `json:"tour_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	SpotsAvailable int       `json:"spots_available"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasSpots returns true when at least one spot remains.
func (d *AvailableDate) HasSpots() bool {
	return d.SpotsAvailable > 0
}

// Day returns the calendar date at midnight UTC.
func (d *AvailableDate) Day() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

// IsPast reports whether the slot's calendar day is before the day of now.
func (d *AvailableDate) IsPast(now time.Time) bool {
	day, err := d.Day()
	if err != nil {
		return true
	}
	return day.Before(Today(now))
}

// Today truncates now to midnight UTC of the same calendar day.
func Today(now time.Time) time.Time {
	y, m, dd := now.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

// TourWithDates is a tour together with its available dates.
type TourWithDates struct {
	Tour
	AvailableDates []AvailableDate `json:"available_dates"`
}

// BookableDates returns the dates that still have spots.
func (t *TourWithDates) BookableDates() []AvailableDate {
	var out []AvailableDate
	for _, d := range t.AvailableDates {
		if d.HasSpots() {
			out = append(out, d)
		}
	}
	return out
}

// FindDate returns the date with the given id, if it belongs to the tour.
func (t *TourWithDates) FindDate(id string) (AvailableDate, bool) {
	for _, d := range t.AvailableDates {
		if d.ID == id {
			return d, true
		}
	}
	return AvailableDate{}, false
}

// Booking is a visitor's request to reserve spots on an available date.
type Booking struct {
	ID              string        `json:"id"`
	TourID          string        `json:"tour_id"`
	AvailableDateID string        `json:"available_date_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	Participants    int           `json:"participants"`
	Notes           string        `json:"notes"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// BookingTour is the slice of a tour shown alongside a booking.
type BookingTour struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// BookingDate is the slice of an available date shown alongside a booking.
type BookingDate struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

// BookingWithDetails joins a booking with its tour title and slot.
type BookingWithDetails struct {
	Booking
	Tour           BookingTour `json:"tour"`
	AvailableDate  BookingDate `json:"available_date"`
	EstimatedTotal float64     `json:"estimated_total"`
}

// PublicTour is an active tour as shown in the public catalog.
type PublicTour struct {
	TourWithDates
	DescriptionHTML string `json:"description_html"`
}

// Catalog is the public page of a guide: profile plus active tours.
type Catalog struct {
	Profile *Profile     `json:"profile"`
	Tours   []PublicTour `json:"tours"`
}

// ParseLanguages splits a comma-separated list such as "Português, Inglês".
func ParseLanguages(input string) []string {
	langs := []string{}
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}
