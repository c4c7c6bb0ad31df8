// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/participants", h.Register)
	r.Put("/{id}/participants/{memberID}", h.SetParticipantStatus)
	r.Delete("/{id}/participants/{memberID}", h.Unregister)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Delete("/{id}", h.Delete)
	})
}
