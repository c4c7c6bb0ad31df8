package attendancestats

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/stats"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

// Tests live in the package so the clock can be pinned.

func newRouter(t *testing.T, now time.Time) (*chi.Mux, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	h.now = func() time.Time { return now }
	r := chi.NewRouter()
	r.Route("/attendance-stats", h.MountRoutes)
	return r, testutil.NewFixtures(t, db)
}

func serve(r *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWeekly_FourSundayAnchoredBuckets(t *testing.T) {
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) // Saturday
	r, f := newRouter(t, ref)
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-23", models.AttendancePresent)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-09", models.AttendanceAbsent)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/weekly", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var weeks []stats.WeeklyCounts
	testutil.DecodeJSON(t, w, &weeks)
	if len(weeks) != 4 {
		t.Fatalf("got %d weeks, want 4", len(weeks))
	}
	if weeks[0].WeekStart != "2026-08-02" || weeks[3].WeekStart != "2026-08-23" {
		t.Errorf("window = %s .. %s", weeks[0].WeekStart, weeks[3].WeekStart)
	}
	if weeks[1].Absent != 1 {
		t.Errorf("week of 08-09: %+v", weeks[1])
	}
	if weeks[2].Total != 0 {
		t.Errorf("empty week should stay zeroed: %+v", weeks[2])
	}
	if weeks[3].Present != 1 {
		t.Errorf("week of 08-23: %+v", weeks[3])
	}
}

func TestTrends_MonthsParamAndZeroFill(t *testing.T) {
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	r, f := newRouter(t, ref)
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-06-14", models.AttendancePresent)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-23", models.AttendanceAbsent)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/trends?months=3", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var trend []stats.MonthlyCounts
	testutil.DecodeJSON(t, w, &trend)
	if len(trend) != 3 {
		t.Fatalf("got %d months, want 3", len(trend))
	}
	if trend[0].Month != "2026-06" || trend[2].Month != "2026-08" {
		t.Errorf("window = %s .. %s", trend[0].Month, trend[2].Month)
	}
	if trend[0].Present != 1 || trend[0].Rate != 100 {
		t.Errorf("june: %+v", trend[0])
	}
	// July has no records and must still appear, zeroed.
	if trend[1].Month != "2026-07" || trend[1].Total != 0 || trend[1].Rate != 0 {
		t.Errorf("empty july: %+v", trend[1])
	}
	if trend[2].Absent != 1 || trend[2].Rate != 0 {
		t.Errorf("august: %+v", trend[2])
	}
}

func TestTrends_DefaultsToSixMonths(t *testing.T) {
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	r, f := newRouter(t, ref)
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/trends", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var trend []stats.MonthlyCounts
	testutil.DecodeJSON(t, w, &trend)
	if len(trend) != 6 {
		t.Fatalf("got %d months, want 6", len(trend))
	}
	if trend[0].Month != "2026-03" || trend[5].Month != "2026-08" {
		t.Errorf("window = %s .. %s", trend[0].Month, trend[5].Month)
	}
}

func TestAbsentStreak_SortedLongestFirst(t *testing.T) {
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	r, f := newRouter(t, ref)
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	jiho := f.CreateMember(ctx, "Jiho Park", dept.ID)
	sua := f.CreateMember(ctx, "Sua Choi", dept.ID)
	minho := f.CreateMember(ctx, "Minho Lee", dept.ID)

	// jiho: three consecutive absences.
	for _, d := range []string{"2026-08-09", "2026-08-16", "2026-08-23"} {
		f.RecordAttendance(ctx, jiho.ID, dept.ID, d, models.AttendanceAbsent)
	}
	// sua: four, including a midweek gathering.
	for _, d := range []string{"2026-08-09", "2026-08-12", "2026-08-16", "2026-08-23"} {
		f.RecordAttendance(ctx, sua.ID, dept.ID, d, models.AttendanceAbsent)
	}
	// minho: only two, below the default threshold.
	f.RecordAttendance(ctx, minho.ID, dept.ID, "2026-08-09", models.AttendancePresent)
	f.RecordAttendance(ctx, minho.ID, dept.ID, "2026-08-16", models.AttendanceAbsent)
	f.RecordAttendance(ctx, minho.ID, dept.ID, "2026-08-23", models.AttendanceAbsent)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/absent-streak", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var out []struct {
		MemberID int    `json:"member_id"`
		Name     string `json:"name"`
		Streak   int    `json:"streak"`
	}
	testutil.DecodeJSON(t, w, &out)
	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(out), out)
	}
	if out[0].MemberID != sua.ID || out[0].Streak != 4 {
		t.Errorf("longest streak first: %+v", out[0])
	}
	if out[1].MemberID != jiho.ID || out[1].Streak != 3 {
		t.Errorf("second entry: %+v", out[1])
	}
}

func TestAbsentStreak_LookbackWindowAndMinWeeks(t *testing.T) {
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	r, f := newRouter(t, ref)
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	jiho := f.CreateMember(ctx, "Jiho Park", dept.ID)
	dara := f.CreateMember(ctx, "Dara Kang", dept.ID)

	for _, d := range []string{"2026-08-09", "2026-08-16", "2026-08-23"} {
		f.RecordAttendance(ctx, jiho.ID, dept.ID, d, models.AttendanceAbsent)
	}
	// dara's absences all predate the three-week window.
	for _, d := range []string{"2026-07-19", "2026-07-26", "2026-08-02"} {
		f.RecordAttendance(ctx, dara.ID, dept.ID, d, models.AttendanceAbsent)
	}

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/absent-streak", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out []struct {
		MemberID int `json:"member_id"`
		Streak   int `json:"streak"`
	}
	testutil.DecodeJSON(t, w, &out)
	if len(out) != 1 || out[0].MemberID != jiho.ID {
		t.Errorf("stale absences must not surface: %+v", out)
	}

	// Raising min_weeks widens the window but also the bar.
	req = testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/absent-streak?min_weeks=4", nil)
	req = testutil.AsActor(req, testutil.Teacher(teacher.ID, dept.ID))
	w = serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("min_weeks=4: status = %d", w.Code)
	}
	out = nil
	testutil.DecodeJSON(t, w, &out)
	if len(out) != 0 {
		t.Errorf("streaks of three must drop below a four-week bar: %+v", out)
	}
}

func TestGoals_CurrentIsNewest(t *testing.T) {
	r, f := newRouter(t, time.Now())
	ctx := testutil.TestContext(t)

	dept := f.CreateDepartment(ctx, "Middle School")
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)

	post := func(rate int) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/attendance-stats/goals", map[string]any{
			"target_rate": rate,
			"period":      "weekly",
		})
		return serve(r, testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID)))
	}
	if w := post(70); w.Code != http.StatusCreated {
		t.Fatalf("first goal: %d %s", w.Code, w.Body.String())
	}
	if w := post(85); w.Code != http.StatusCreated {
		t.Fatalf("second goal: %d %s", w.Code, w.Body.String())
	}

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/goals", nil)
	req = testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Current *models.AttendanceGoal  `json:"current"`
		History []models.AttendanceGoal `json:"history"`
	}
	testutil.DecodeJSON(t, w, &resp)
	if resp.Current == nil || resp.Current.TargetRate != 85 {
		t.Errorf("current = %+v, want the newest goal", resp.Current)
	}
	if len(resp.History) != 2 {
		t.Errorf("history = %d goals, want 2", len(resp.History))
	}
}

func TestCreateGoal_RateOutOfRange(t *testing.T) {
	r, f := newRouter(t, time.Now())
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/attendance-stats/goals", map[string]any{
		"target_rate": 120,
	})
	req = testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDepartmentComparison_SuperOnly(t *testing.T) {
	r, f := newRouter(t, time.Now())
	ctx := testutil.TestContext(t)
	dept := f.CreateDepartment(ctx, "Middle School")
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/department-comparison", nil)
	req = testutil.AsActor(req, testutil.DeptAdmin(admin.ID, dept.ID))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("department_admin: status = %d, want 403", w.Code)
	}

	req = testutil.NewJSONRequest(t, http.MethodGet, "/attendance-stats/department-comparison", nil)
	req = testutil.AsActor(req, testutil.SuperAdmin(99))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("super_admin: status = %d, body %s", w.Code, w.Body.String())
	}
	var out []struct {
		DepartmentID   int    `json:"department_id"`
		DepartmentName string `json:"department_name"`
	}
	testutil.DecodeJSON(t, w, &out)
	if len(out) != 1 || out[0].DepartmentID != dept.ID {
		t.Errorf("comparison = %+v", out)
	}
}
