// internal/app/features/tags/routes.go
package tags

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}/members", h.TaggedMembers)
	r.Post("/{id}/members/{memberID}", h.Attach)
	r.Delete("/{id}/members/{memberID}", h.Detach)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Delete("/{id}", h.Delete)
	})
}
