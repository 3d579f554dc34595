package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// GetProfile handles GET /profiles/me
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfile(r.Context(), owner(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /profiles/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.profiles.UpdateProfile(r.Context(), owner(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
