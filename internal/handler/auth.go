package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

type sessionResponse struct {
	Session auth.Session `json:"session"`
	Token   string       `json:"token,omitempty"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.StorageKey,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignIn handles POST /auth/signin
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sess, token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, token, sess.ExpiresAt)
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Token: token})
}

// SignUp handles POST /auth/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sess, token, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, token, sess.ExpiresAt)
	writeJSON(w, http.StatusCreated, sessionResponse{Session: sess, Token: token})
}

// SignOut handles POST /auth/signout
// Revokes the current token and clears the cookie. Signing out twice is fine.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.StorageKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession handles GET /auth/session
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess})
}

// CSRFToken handles GET /auth/csrf
// Returns the token form submissions must echo in X-CSRF-Token.
func CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
}
