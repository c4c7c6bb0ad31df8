// internal/app/system/auth/auth.go

// Package auth authenticates requests. It issues signed session tokens
// (JWT, HMAC) carrying {user id, role, department}, resolves bearer
// tokens back into an authz.Actor on each request, and provides the
// role-gate middleware the routers mount.
//
// The service is stateless per request: no server-side session store,
// nothing retained between requests.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
)

type ctxKey string

const actorKey ctxKey = "actor"

// CurrentActor returns the authenticated actor and a found flag.
func CurrentActor(r *http.Request) (authz.Actor, bool) {
	a, ok := r.Context().Value(actorKey).(authz.Actor)
	return a, ok
}

// WithActor injects an actor into the request context. Exported for
// handler tests, which bypass the bearer middleware.
func WithActor(r *http.Request, a authz.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, a))
}

// bearerToken extracts the token from "Authorization: Bearer <raw>".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth verifies the bearer token and injects the actor. Missing
// token → 401; bad token → 403, mirroring the distinction the API has
// always made between "no credentials" and "bad credentials".
func (ti *TokenIssuer) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpjson.Error(w, http.StatusUnauthorized, "authentication token required")
			return
		}
		actor, err := ti.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusForbidden, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// RequireTeacher admits the teacher tier and above. Mount after
// RequireAuth.
func RequireTeacher(next http.Handler) http.Handler {
	return requireCheck(next, func(a authz.Actor) bool { return a.IsTeacherTier() })
}

// RequireAdmin admits department_admin and super_admin.
func RequireAdmin(next http.Handler) http.Handler {
	return requireCheck(next, func(a authz.Actor) bool { return a.IsAdmin() })
}

// RequireSuperAdmin admits only super_admin.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return requireCheck(next, func(a authz.Actor) bool { return a.IsSuperAdmin() })
}

func requireCheck(next http.Handler, allowed func(authz.Actor) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := CurrentActor(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !allowed(actor) {
			httpjson.Error(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}
