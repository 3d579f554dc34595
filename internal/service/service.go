// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// Error kinds surfaced to callers. Handlers map each to an HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTransition  = errors.New("booking can only move from pending to confirmed or cancelled")
	ErrUnauthorized       = errors.New("not allowed to access this resource")
)

// ValidationError reports bad input. Fields maps JSON field names to messages.
// Every ValidationError matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
	Fields  validate.FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation failures with a dedicated meaning.
var (
	ErrNoCapacity = &ValidationError{Message: "not enough spots available for this date"}
	ErrDateInUse  = &ValidationError{Message: "date has pending or confirmed bookings"}
)

func invalid(fields validate.FieldErrors) error {
	return &ValidationError{Message: "validation failed", Fields: fields}
}

func invalidField(field, msg string) error {
	return invalid(validate.FieldErrors{field: msg})
}

// Notifier is told about booking events. Failures are logged, never returned
// to the caller of the operation that triggered them.
type Notifier interface {
	BookingRequested(ctx context.Context, guideEmail string, tour model.Tour, date model.AvailableDate, b model.Booking) error
	BookingStatusChanged(ctx context.Context, tour model.Tour, date model.AvailableDate, b model.Booking) error
}

// translate maps repository errors onto the service error kinds.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, repository.ErrNoCapacity):
		return ErrNoCapacity
	case errors.Is(err, repository.ErrDateInUse):
		return ErrDateInUse
	}
	return fmt.Errorf("%s: %w", op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
