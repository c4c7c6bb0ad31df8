package announcements_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/announcements"
	commentstore "github.com/danielhkim/shepherdhub/internal/app/store/comments"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func newRouter(t *testing.T) (*chi.Mux, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := announcements.NewHandler(db, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/announcements", h.MountRoutes)
	return r, testutil.NewFixtures(t, db)
}

func serve(r *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_TeacherPostsToOwnDepartment(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Retreat signup",
		"content": "Forms due this Sunday.",
	})
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))

	w := serve(r, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)
	if a.DepartmentID != dept.ID || a.AuthorID != teacher.ID {
		t.Errorf("created = %+v", a)
	}
}

func TestCreate_SanitizesContent(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Notice",
		"content": `hello <script>alert("x")</script>world`,
	})
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))

	w := serve(r, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)
	if a.Content == "" || a.Content != "hello world" {
		t.Errorf("content = %q, script tag must be stripped", a.Content)
	}
}

func TestUpdate_AuthorOrAdminOnly(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	author := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	colleague := f.CreateUser(ctx, "teach2", authz.RoleTeacher, &dept.ID)
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Original",
		"content": "body",
	})
	create = testutil.AsActor(create, testutil.Teacher(author.ID, dept.ID))
	w := serve(r, create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)

	path := fmt.Sprintf("/announcements/%d", a.ID)
	patch := map[string]any{"title": "Edited"}

	req := testutil.NewJSONRequest(t, http.MethodPut, path, patch)
	req = testutil.AsActor(req, testutil.Teacher(colleague.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("non-author edit: status = %d, want 403", w.Code)
	}

	req = testutil.NewJSONRequest(t, http.MethodPut, path, patch)
	req = testutil.AsActor(req, testutil.Teacher(author.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Errorf("author edit: status = %d, body %s", w.Code, w.Body.String())
	}

	req = testutil.NewJSONRequest(t, http.MethodPut, path, patch)
	req = testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Errorf("admin edit: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestTogglePin_AdminGate(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	author := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Pin me",
		"content": "body",
	})
	create = testutil.AsActor(create, testutil.Teacher(author.ID, dept.ID))
	w := serve(r, create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)

	path := fmt.Sprintf("/announcements/%d/pin", a.ID)

	// Authorship does not grant pinning.
	req := testutil.NewJSONRequest(t, http.MethodPost, path, nil)
	req = testutil.AsActor(req, testutil.Teacher(author.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("teacher pin: status = %d, want 403", w.Code)
	}

	req = testutil.NewJSONRequest(t, http.MethodPost, path, nil)
	req = testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID))
	w = serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin pin: status = %d, body %s", w.Code, w.Body.String())
	}
	var pinned models.Announcement
	testutil.DecodeJSON(t, w, &pinned)
	if !pinned.Pinned {
		t.Error("pinned flag did not flip")
	}
}

func TestDelete_CascadesComments(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	author := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Short lived",
		"content": "body",
	})
	create = testutil.AsActor(create, testutil.Teacher(author.ID, dept.ID))
	w := serve(r, create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)

	cs := commentstore.New(f.DB())
	if _, err := cs.Create(ctx, models.Comment{
		TargetType: models.CommentOnAnnouncement,
		TargetID:   a.ID,
		UserID:     author.ID,
		Content:    "see you there",
	}); err != nil {
		t.Fatal(err)
	}

	req := testutil.NewJSONRequest(t, http.MethodDelete, fmt.Sprintf("/announcements/%d", a.ID), nil)
	req = testutil.AsActor(req, testutil.Teacher(author.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}

	left, err := cs.ListByTarget(ctx, models.CommentOnAnnouncement, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("comments survived the announcement delete: %+v", left)
	}
}

func TestGet_CrossDepartmentDenied(t *testing.T) {
	r, f := newRouter(t)
	ctx := testutil.TestContext(t)
	d1 := f.CreateDepartment(ctx, "Middle School")
	d2 := f.CreateDepartment(ctx, "High School")
	author := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &d1.ID)
	outsider := f.CreateUser(ctx, "teach2", authz.RoleTeacher, &d2.ID)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/announcements/", map[string]any{
		"title":   "Internal",
		"content": "body",
	})
	create = testutil.AsActor(create, testutil.Teacher(author.ID, d1.ID))
	w := serve(r, create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var a models.Announcement
	testutil.DecodeJSON(t, w, &a)

	req := testutil.NewJSONRequest(t, http.MethodGet, fmt.Sprintf("/announcements/%d", a.ID), nil)
	req = testutil.AsActor(req, testutil.Teacher(outsider.ID, d2.ID))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("cross-department read: status = %d, want 403", w.Code)
	}
}
