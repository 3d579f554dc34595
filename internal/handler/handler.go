// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/service"
)

// Services are the dependencies of Handler.
type Services struct {
	Auth     *service.AuthService
	Tours    *service.TourService
	Bookings *service.BookingService
	Profiles *service.ProfileService
	Catalog  *service.CatalogService
}

// Handler holds all HTTP handlers for the booking API.
type Handler struct {
	auth     *service.AuthService
	tours    *service.TourService
	bookings *service.BookingService
	profiles *service.ProfileService
	catalog  *service.CatalogService

	secureCookie bool
}

// New constructs a Handler. secureCookie marks the session cookie Secure.
func New(svc Services, secureCookie bool) *Handler {
	return &Handler{
		auth:         svc.Auth,
		tours:        svc.Tours,
		bookings:     svc.Bookings,
		profiles:     svc.Profiles,
		catalog:      svc.Catalog,
		secureCookie: secureCookie,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service errors onto status codes. Anything
// unrecognised is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNoCapacity), errors.Is(err, service.ErrDateInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request_failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// owner returns the signed-in guide's id. Routes using it sit behind RequireSession.
func owner(r *http.Request) string {
	sess, _ := auth.FromContext(r.Context())
	return sess.UserID
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
