// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Delete("/{id}", h.Delete)
	})
}
