// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/{targetType}/{targetID}", h.List)
	r.Post("/{targetType}/{targetID}", h.Create)
	r.Delete("/{id}", h.Delete)
}
