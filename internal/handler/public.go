package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Catalog handles GET /catalog/{userID}
// The guide's public page: profile plus active tours with upcoming dates.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Catalog(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CatalogTour handles GET /catalog/{userID}/tours/{id}
func (h *Handler) CatalogTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.catalog.Tour(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}
