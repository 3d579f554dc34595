package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// ListTours handles GET /tours
// ?active=true limits the result to active tours.
func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "active must be true or false")
			return
		}
		activeOnly = b
	}

	tours, err := h.tours.ListTours(r.Context(), owner(r), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

// CreateTour handles POST /tours
func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var in model.TourInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tour, err := h.tours.CreateTour(r.Context(), owner(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tour)
}

// GetTour handles GET /tours/{id}
func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.tours.GetTour(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// UpdateTour handles PUT /tours/{id}
func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	var in model.TourInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tour, err := h.tours.UpdateTour(r.Context(), owner(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// DeleteTour handles DELETE /tours/{id}
// Dates and bookings of the tour go with it.
func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	if err := h.tours.DeleteTour(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDates handles GET /tours/{id}/dates
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.tours.ListDates(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// AddDate handles POST /tours/{id}/dates
func (h *Handler) AddDate(w http.ResponseWriter, r *http.Request) {
	var in model.DateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	date, err := h.tours.AddDate(r.Context(), owner(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, date)
}

// RemoveDate handles DELETE /dates/{id}
func (h *Handler) RemoveDate(w http.ResponseWriter, r *http.Request) {
	if err := h.tours.RemoveDate(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
