// internal/app/features/visitextras/handler.go

// Package visitextras serves the planning surface around visit logs:
// who is due for a visit, reusable content templates, and aggregate
// visit statistics.
package visitextras

import (
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/contentpolicy"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	templatestore "github.com/danielhkim/shepherdhub/internal/app/store/templates"
	visitstore "github.com/danielhkim/shepherdhub/internal/app/store/visits"
	"github.com/danielhkim/shepherdhub/internal/app/stats"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Visits     *visitstore.Store
	Templates  *templatestore.Store
	Members    *memberstore.Store
	Attendance *attendancestore.Store
	Groups     *groupstore.Store
	Log        *zap.Logger

	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Visits:     visitstore.New(db),
		Templates:  templatestore.New(db),
		Members:    memberstore.New(db),
		Attendance: attendancestore.New(db),
		Groups:     groupstore.New(db),
		Log:        logger,
		now:        time.Now,
	}
}

func (h *Handler) scope(r *http.Request) (authz.Actor, authz.Scope, error) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	return actor, scope, err
}

type recommendation struct {
	MemberID     int    `json:"member_id"`
	Name         string `json:"name"`
	LastVisit    string `json:"last_visit,omitempty"`
	AbsentStreak int    `json:"absent_streak"`
	Reason       string `json:"reason"`
}

// Recommendations lists scoped members who are overdue for contact:
// never visited, not visited in the last `days` days (default 30), or
// carrying an absence streak. Sorted most urgent first.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.scope(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	days := 30
	if q, err := shared.QueryInt(r, "days"); err != nil {
		httpjson.Fail(w, err)
		return
	} else if q != nil && *q > 0 {
		days = *q
	}

	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	mf := memberstore.Filter{Status: models.MemberActive, DepartmentID: dept, MemberIDs: scope.MemberIDs}
	vf := visitstore.Filter{DepartmentID: dept, MemberIDs: scope.MemberIDs}
	af := attendancestore.Filter{DepartmentID: dept, MemberIDs: scope.MemberIDs}

	ctx := r.Context()
	members, err := h.Members.List(ctx, mf)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	latest, err := h.Visits.LatestByMember(ctx, vf)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	records, err := h.Attendance.List(ctx, af)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	streaks := stats.AbsentStreaks(records)

	cutoff := h.now().AddDate(0, 0, -days).Format("2006-01-02")
	out := []recommendation{}
	for _, m := range members {
		rec := recommendation{
			MemberID:     m.ID,
			Name:         m.Name,
			LastVisit:    latest[m.ID],
			AbsentStreak: streaks[m.ID],
		}
		switch {
		case rec.LastVisit == "":
			rec.Reason = "never visited"
		case rec.LastVisit < cutoff:
			rec.Reason = "no recent visit"
		case rec.AbsentStreak >= 2:
			rec.Reason = "absence streak"
		default:
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AbsentStreak != out[j].AbsentStreak {
			return out[i].AbsentStreak > out[j].AbsentStreak
		}
		return out[i].LastVisit < out[j].LastVisit
	})
	httpjson.Respond(w, http.StatusOK, out)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	var dept *int
	if !actor.IsSuperAdmin() {
		dept = actor.DepartmentID
	}
	templates, err := h.Templates.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, templates)
}

type templateRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req templateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if actor.DepartmentID == nil && !actor.IsSuperAdmin() {
		httpjson.Fail(w, apperr.Validationf("actor has no department"))
		return
	}
	dept := 0
	if actor.DepartmentID != nil {
		dept = *actor.DepartmentID
	}

	t, err := h.Templates.Create(r.Context(), models.VisitTemplate{
		UserID:       actor.ID,
		DepartmentID: dept,
		Title:        req.Title,
		Content:      shared.CleanText(req.Content),
		Category:     req.Category,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, t)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	t, err := h.Templates.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "template"))
		return
	}
	if deny := contentpolicy.CanMutate(actor, t.UserID, t.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	if _, err := h.Templates.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "template deleted")
}

type visitStatistics struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"by_type"`
	ByPriority map[string]int `json:"by_priority"`
	ByTeacher  map[int]int    `json:"by_teacher"`
}

// Statistics aggregates scoped visits over the optional date range.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.scope(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	f := visitstore.Filter{
		DateFrom:     r.URL.Query().Get("start_date"),
		DateTo:       r.URL.Query().Get("end_date"),
		DepartmentID: dept,
		MemberIDs:    scope.MemberIDs,
	}

	visits, err := h.Visits.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	out := visitStatistics{
		Total:      len(visits),
		ByType:     map[string]int{},
		ByPriority: map[string]int{},
		ByTeacher:  map[int]int{},
	}
	for _, v := range visits {
		if v.Type != "" {
			out.ByType[v.Type]++
		}
		out.ByPriority[v.Priority]++
		out.ByTeacher[v.TeacherID]++
	}
	httpjson.Respond(w, http.StatusOK, out)
}
