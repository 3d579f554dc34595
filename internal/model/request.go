package model

// SignInRequest is the payload for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the payload for POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=200"`
}

// TourInput is the payload for creating or updating a tour.
type TourInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"max=5000"`
	ImageURL        string  `json:"image_url" validate:"omitempty,url"`
	Price           float64 `json:"price" validate:"gte=0"`
	DurationHours   float64 `json:"duration_hours" validate:"gt=0,lte=720"`
	Location        string  `json:"location" validate:"max=200"`
	MaxParticipants *int    `json:"max_participants" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"is_active"`
}

// DateInput is the payload for POST /tours/{id}/dates.
type DateInput struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required,datetime=15:04"`
	SpotsAvailable int    `json:"spots_available" validate:"gte=0"`
}

// Customer holds the contact details a visitor leaves with a booking.
type Customer struct {
	Name  string `json:"customer_name" validate:"required,max=200"`
	Email string `json:"customer_email" validate:"required,email,max=254"`
	Phone string `json:"customer_phone" validate:"max=40"`
}

// BookingRequest is the payload for the public POST /bookings.
type BookingRequest struct {
	TourID          string `json:"tour_id" validate:"required"`
	AvailableDateID string `json:"available_date_id" validate:"required"`
	Customer
	Participants int    `json:"participants" validate:"gt=0"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// StatusRequest is the payload for PATCH /bookings/{id}/status.
type StatusRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// ProfileInput is the payload for PUT /profiles/me.
type ProfileInput struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Bio       string   `json:"bio" validate:"max=5000"`
	PhotoURL  string   `json:"photo_url" validate:"omitempty,url"`
	Phone     string   `json:"phone" validate:"max=40"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Location  string   `json:"location" validate:"max=200"`
	Languages []string `json:"languages" validate:"max=20,dive,required,max=60"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
