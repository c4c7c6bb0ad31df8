// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	// Leaders may manage their own group's roster; the handler checks.
	r.Put("/{id}", h.Update)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{memberID}", h.RemoveMember)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}
