// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

// MountRoutes mounts account administration. The admin gate admits
// department_admin too; per-target narrowing happens in userpolicy.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireAdmin)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
