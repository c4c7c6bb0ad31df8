package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/auth"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func newRouter(t *testing.T) (*chi.Mux, *testutil.Fixtures, *sysauth.TokenIssuer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens, err := sysauth.NewTokenIssuer("handler-test-secret-0123456789AB", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	h := auth.NewHandler(db, tokens, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/auth", h.MountRoutes)
	return r, testutil.NewFixtures(t, db), tokens
}

func serve(r *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	r, f, tokens := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	u := f.CreateUser(ctx, "mkim", authz.RoleDeptAdmin, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"username": "mkim",
		"password": "test-password",
	})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	testutil.DecodeJSON(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("no token issued")
	}
	if resp.User.ID != u.ID {
		t.Errorf("user = %+v", resp.User)
	}

	actor, err := tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if actor.ID != u.ID || actor.Role != authz.RoleDeptAdmin {
		t.Errorf("actor = %+v", actor)
	}
}

func TestLogin_SameResponseForUnknownUserAndWrongPassword(t *testing.T) {
	r, f, _ := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	f.CreateUser(ctx, "mkim", authz.RoleTeacher, &dept.ID)

	attempt := func(username, password string) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"username": username,
			"password": password,
		})
		return serve(r, req)
	}

	unknown := attempt("nobody", "test-password")
	wrong := attempt("mkim", "wrong-password")
	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want both 401", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Error("unknown user and wrong password must be indistinguishable")
	}
}

func TestMe_RequiresBearerToken(t *testing.T) {
	r, f, tokens := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	u := f.CreateUser(ctx, "mkim", authz.RoleTeacher, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", w.Code)
	}

	req = testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("bad token: status = %d, want 403", w.Code)
	}

	token, err := tokens.Issue(u.ID, u.Username, u.Name, u.Role, u.DepartmentID)
	if err != nil {
		t.Fatal(err)
	}
	req = testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var me models.User
	testutil.DecodeJSON(t, w, &me)
	if me.ID != u.ID {
		t.Errorf("me = %+v", me)
	}
}

func TestUpdateProfile_PasswordChangeNeedsCurrentPassword(t *testing.T) {
	r, f, tokens := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	u := f.CreateUser(ctx, "mkim", authz.RoleTeacher, &dept.ID)

	token, err := tokens.Issue(u.ID, u.Username, u.Name, u.Role, u.DepartmentID)
	if err != nil {
		t.Fatal(err)
	}
	change := func(current, next string) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/auth/profile", map[string]string{
			"current_password": current,
			"new_password":     next,
		})
		req.Header.Set("Authorization", "Bearer "+token)
		return serve(r, req)
	}

	if w := change("wrong-password", "a-new-password"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: status = %d, want 401", w.Code)
	}
	if w := change("test-password", "a-new-password"); w.Code != http.StatusOK {
		t.Errorf("status = %d, body %s", w.Code, w.Body.String())
	}

	// The new password works for login; the old one no longer does.
	login := func(password string) int {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"username": "mkim",
			"password": password,
		})
		return serve(r, req).Code
	}
	if code := login("a-new-password"); code != http.StatusOK {
		t.Errorf("login with new password: status = %d", code)
	}
	if code := login("test-password"); code != http.StatusUnauthorized {
		t.Errorf("login with old password: status = %d, want 401", code)
	}
}
