// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the auth endpoints. Login is the only
// unauthenticated route in the API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.RequireAuth)
		r.Get("/me", h.Me)
		r.Put("/profile", h.UpdateProfile)
	})
}
