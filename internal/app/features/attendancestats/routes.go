// internal/app/features/attendancestats/routes.go
package attendancestats

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(sysauth.RequireTeacher)
	r.Get("/trends", h.Trends)
	r.Get("/weekly", h.Weekly)
	r.Get("/absent-streak", h.AbsentStreak)
	r.Get("/goals", h.ListGoals)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAdmin)
		r.Post("/goals", h.CreateGoal)
	})

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSuperAdmin)
		r.Get("/department-comparison", h.DepartmentComparison)
	})
}
