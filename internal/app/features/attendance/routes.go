// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/", h.List)
	r.Post("/", h.Upsert)
	r.Post("/bulk", h.BulkUpsert)
	r.Get("/stats", h.Stats)
	r.Get("/stats/daily", h.DailyStats)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Delete("/{id}", h.Delete)
		r.Delete("/date/{date}", h.DeleteByDate)
	})
}
