// internal/app/features/departments/routes.go
package departments

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSuperAdmin)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
	})
}
