// internal/app/features/attendancestats/handler.go

// Package attendancestats serves the analytics views built on the pure
// stats package: monthly trends, weekly series, absent streaks,
// cross-department comparison, and attendance goals.
package attendancestats

import (
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	goalstore "github.com/danielhkim/shepherdhub/internal/app/store/goals"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	"github.com/danielhkim/shepherdhub/internal/app/stats"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Attendance  *attendancestore.Store
	Members     *memberstore.Store
	Groups      *groupstore.Store
	Goals       *goalstore.Store
	Departments *departmentstore.Store
	Log         *zap.Logger

	// now is swappable so week buckets are deterministic in tests.
	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Attendance:  attendancestore.New(db),
		Members:     memberstore.New(db),
		Groups:      groupstore.New(db),
		Goals:       goalstore.New(db),
		Departments: departmentstore.New(db),
		Log:         logger,
		now:         time.Now,
	}
}

// scopedRecords loads attendance confined to the caller's scope and the
// optional start_date/end_date range. defaultFrom applies when the
// caller supplies no start_date; empty means unbounded.
func (h *Handler) scopedRecords(r *http.Request, defaultFrom string) ([]models.Attendance, error) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		return nil, err
	}

	f := attendancestore.Filter{
		DateFrom: r.URL.Query().Get("start_date"),
		DateTo:   r.URL.Query().Get("end_date"),
	}
	if f.DateFrom == "" {
		f.DateFrom = defaultFrom
	}
	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		return nil, err
	}
	f.DepartmentID = dept
	f.MemberIDs = scope.MemberIDs
	return h.Attendance.List(r.Context(), f)
}

// Trends returns one rate per calendar month for the last months
// requested months (default 6), ending at the current month. Months
// without records report rate 0, so a chart always has that many points.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	months := 6
	if q, err := shared.QueryInt(r, "months"); err != nil {
		httpjson.Fail(w, err)
		return
	} else if q != nil && *q > 0 {
		months = *q
	}

	now := h.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0).Format("2006-01-02")
	records, err := h.scopedRecords(r, from)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, stats.LastMonths(records, now, months))
}

// Weekly returns the last four Sunday-anchored weeks, oldest first.
// Weeks without records appear zeroed so charts keep four points.
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	records, err := h.scopedRecords(r, "")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, stats.LastWeeks(records, h.now(), 4))
}

type streakEntry struct {
	MemberID    int    `json:"member_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	ParentPhone string `json:"parent_phone,omitempty"`
	Streak      int    `json:"streak"`
}

// AbsentStreak lists members whose current consecutive-absence run is
// at least min_weeks (default 3), longest streak first. "late" days do
// not break a run. Unless the caller names a start_date, only the last
// min_weeks*7 days of records are considered.
func (h *Handler) AbsentStreak(w http.ResponseWriter, r *http.Request) {
	min := 3
	if q, err := shared.QueryInt(r, "min_weeks"); err != nil {
		httpjson.Fail(w, err)
		return
	} else if q != nil && *q > 0 {
		min = *q
	}

	from := h.now().AddDate(0, 0, -min*7).Format("2006-01-02")
	records, err := h.scopedRecords(r, from)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	streaks := stats.AbsentStreaks(records)

	out := []streakEntry{}
	for memberID, streak := range streaks {
		if streak < min {
			continue
		}
		m, err := h.Members.GetByID(r.Context(), memberID)
		if err != nil {
			// Member deleted after the records were written; skip.
			continue
		}
		out = append(out, streakEntry{
			MemberID:    m.ID,
			Name:        m.Name,
			Phone:       m.Phone,
			ParentPhone: m.ParentPhone,
			Streak:      streak,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		return out[i].MemberID < out[j].MemberID
	})
	httpjson.Respond(w, http.StatusOK, out)
}

type departmentComparison struct {
	DepartmentID   int    `json:"department_id"`
	DepartmentName string `json:"department_name"`
	stats.Counts
}

// DepartmentComparison tallies each department over the range. The
// router restricts this to super_admin; there is no scoped-down variant
// for other roles.
func (h *Handler) DepartmentComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deps, err := h.Departments.List(ctx)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	out := []departmentComparison{}
	for _, d := range deps {
		records, err := h.Attendance.List(ctx, attendancestore.Filter{
			DepartmentID: &d.ID,
			DateFrom:     r.URL.Query().Get("start_date"),
			DateTo:       r.URL.Query().Get("end_date"),
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		out = append(out, departmentComparison{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			Counts:         stats.Summarize(records),
		})
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// goalDepartment resolves which department's goals the caller is asking
// about: super_admin must name one, everyone else gets their own and
// may not name another.
func (h *Handler) goalDepartment(r *http.Request) (int, error) {
	actor, _ := sysauth.CurrentActor(r)
	dept, err := shared.QueryInt(r, "department_id")
	if err != nil {
		return 0, err
	}
	if actor.IsSuperAdmin() {
		if dept == nil {
			return 0, apperr.Validationf("department_id is required")
		}
		return *dept, nil
	}
	if actor.DepartmentID == nil {
		return 0, apperr.Validationf("actor has no department")
	}
	if dept != nil && *dept != *actor.DepartmentID {
		return 0, apperr.Forbiddenf("department %d is outside your scope", *dept)
	}
	return *actor.DepartmentID, nil
}

type goalsResponse struct {
	Current *models.AttendanceGoal  `json:"current"`
	History []models.AttendanceGoal `json:"history"`
}

// ListGoals returns a department's goal history plus the current goal
// (the most recently created one).
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	dept, err := h.goalDepartment(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	history, err := h.Goals.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	resp := goalsResponse{History: history}
	if cur, ok, err := h.Goals.Current(r.Context(), dept); err != nil {
		httpjson.Fail(w, err)
		return
	} else if ok {
		resp.Current = &cur
	}
	httpjson.Respond(w, http.StatusOK, resp)
}

type goalRequest struct {
	DepartmentID *int   `json:"department_id"`
	TargetRate   int    `json:"target_rate" validate:"gte=0,lte=100"`
	Period       string `json:"period" validate:"omitempty,oneof=weekly monthly quarterly"`
}

// CreateGoal appends a goal. Goals are never edited; creating a new one
// supersedes the old.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req goalRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	var dept int
	if actor.IsSuperAdmin() {
		if req.DepartmentID == nil {
			httpjson.Fail(w, apperr.Validationf("department_id is required"))
			return
		}
		dept = *req.DepartmentID
	} else {
		if actor.DepartmentID == nil {
			httpjson.Fail(w, apperr.Validationf("actor has no department"))
			return
		}
		dept = *actor.DepartmentID
	}

	g, err := h.Goals.Create(r.Context(), models.AttendanceGoal{
		DepartmentID: dept,
		TargetRate:   req.TargetRate,
		Period:       req.Period,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("attendance goal set",
		zap.Int("department_id", dept),
		zap.Int("target_rate", g.TargetRate),
		zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, g)
}
