package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures the cross-cutting middleware.
type RouterOptions struct {
	AllowOrigins []string
	CSRFKey      []byte
	SecureCookie bool
}

// NewRouter builds the full API route tree.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)
	r.Use(CORS(opts.AllowOrigins))
	r.Use(CSRF(opts.CSRFKey, opts.SecureCookie, opts.AllowOrigins))
	r.Use(h.Session)

	r.Get("/health", HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", h.SignIn)
		r.Post("/signup", h.SignUp)
		r.Post("/signout", h.SignOut)
		r.Get("/session", h.CurrentSession)
		r.Get("/csrf", CSRFToken)
	})

	// Public surface
	r.Get("/catalog/{userID}", h.Catalog)
	r.Get("/catalog/{userID}/tours/{id}", h.CatalogTour)
	r.Post("/bookings", h.CreateBooking)

	// Admin surface, scoped to the signed-in guide
	r.Group(func(r chi.Router) {
		r.Use(RequireSession)

		r.Get("/profiles/me", h.GetProfile)
		r.Put("/profiles/me", h.UpdateProfile)

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", h.ListTours)
			r.Post("/", h.CreateTour)
			r.Get("/{id}", h.GetTour)
			r.Put("/{id}", h.UpdateTour)
			r.Delete("/{id}", h.DeleteTour)
			r.Get("/{id}/dates", h.ListDates)
			r.Post("/{id}/dates", h.AddDate)
		})
		r.Delete("/dates/{id}", h.RemoveDate)

		r.Get("/bookings", h.ListBookings)
		r.Patch("/bookings/{id}/status", h.SetBookingStatus)
	})

	return r
}
