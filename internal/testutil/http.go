// internal/testutil/http.go
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
)

// SuperAdmin returns an actor with the top role.
func SuperAdmin(id int) authz.Actor {
	return authz.Actor{ID: id, Username: "super", Name: "Test Super", Role: authz.RoleSuperAdmin}
}

// DeptAdmin returns a department_admin actor bound to deptID.
func DeptAdmin(id, deptID int) authz.Actor {
	return authz.Actor{ID: id, Username: "deptadmin", Name: "Test Dept Admin", Role: authz.RoleDeptAdmin, DepartmentID: &deptID}
}

// Teacher returns a teacher actor bound to deptID.
func Teacher(id, deptID int) authz.Actor {
	return authz.Actor{ID: id, Username: "teacher", Name: "Test Teacher", Role: authz.RoleTeacher, DepartmentID: &deptID}
}

// NewJSONRequest builds a request with an optional JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, target, nil)
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// AsActor injects an actor into the request, bypassing the bearer
// middleware, the way handlers see it in production.
func AsActor(r *http.Request, a authz.Actor) *http.Request {
	return auth.WithActor(r, a)
}

// WithChiURLParam adds a chi URL parameter to the request context for
// handlers called directly rather than through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// DecodeJSON unmarshals a recorder body into dst.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
