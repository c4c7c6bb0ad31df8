// internal/app/features/visitextras/routes.go
package visitextras

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/recommendations", h.Recommendations)
	r.Get("/statistics", h.Statistics)
	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.CreateTemplate)
	r.Delete("/templates/{id}", h.DeleteTemplate)
}
