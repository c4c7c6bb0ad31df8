// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	announcementsfeature "github.com/danielhkim/shepherdhub/internal/app/features/announcements"
	attendancefeature "github.com/danielhkim/shepherdhub/internal/app/features/attendance"
	attendancestatsfeature "github.com/danielhkim/shepherdhub/internal/app/features/attendancestats"
	authfeature "github.com/danielhkim/shepherdhub/internal/app/features/auth"
	commentsfeature "github.com/danielhkim/shepherdhub/internal/app/features/comments"
	departmentsfeature "github.com/danielhkim/shepherdhub/internal/app/features/departments"
	eventsfeature "github.com/danielhkim/shepherdhub/internal/app/features/events"
	groupsfeature "github.com/danielhkim/shepherdhub/internal/app/features/groups"
	healthfeature "github.com/danielhkim/shepherdhub/internal/app/features/health"
	meetingsfeature "github.com/danielhkim/shepherdhub/internal/app/features/meetings"
	membersfeature "github.com/danielhkim/shepherdhub/internal/app/features/members"
	searchfeature "github.com/danielhkim/shepherdhub/internal/app/features/search"
	tagsfeature "github.com/danielhkim/shepherdhub/internal/app/features/tags"
	usersfeature "github.com/danielhkim/shepherdhub/internal/app/features/users"
	visitextrasfeature "github.com/danielhkim/shepherdhub/internal/app/features/visitextras"
	visitsfeature "github.com/danielhkim/shepherdhub/internal/app/features/visits"
	worshipfeature "github.com/danielhkim/shepherdhub/internal/app/features/worship"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler for the API.
//
// WAFFLE calls this after configuration, the DB connection, schema
// setup, and Startup have completed. Everything under /api except
// /api/auth/login sits behind the bearer-token middleware; per-role
// gates are applied inside each feature's MountRoutes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := sysauth.NewTokenIssuer(appCfg.JWTSecret, appCfg.JWTExpiry)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	r := chi.NewRouter()

	// Health check for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(db)
	r.Route("/health", healthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		// Login lives inside the auth feature and is the only route
		// mounted without RequireAuth.
		authHandler := authfeature.NewHandler(db, tokens, logger)
		r.Route("/auth", authHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth)

			r.Route("/users", usersfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/departments", departmentsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/members", membersfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/attendance", attendancefeature.NewHandler(db, logger).MountRoutes)
			r.Route("/attendance-stats", attendancestatsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/visits", visitsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/visit-management", visitextrasfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/meetings", meetingsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/worship", worshipfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/groups", groupsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/tags", tagsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/events", eventsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/announcements", announcementsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/comments", commentsfeature.NewHandler(db, logger).MountRoutes)
			r.Route("/search", searchfeature.NewHandler(db, logger).MountRoutes)
		})
	})

	return r, nil
}
