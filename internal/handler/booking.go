package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// CreateBooking handles POST /bookings
// Public: visitors request spots on one of a tour's dates.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /bookings
// ?status= filters by pending, confirmed or cancelled.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	status := model.BookingStatus(r.URL.Query().Get("status"))
	bookings, err := h.bookings.ListBookings(r.Context(), owner(r), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// SetBookingStatus handles PATCH /bookings/{id}/status
func (h *Handler) SetBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookings.SetStatus(r.Context(), owner(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
