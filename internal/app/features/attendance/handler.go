// internal/app/features/attendance/handler.go

// Package attendance serves per-member worship-day records. Writes are
// upserts on (member_id, date); a second submission for the same pair
// corrects the first instead of duplicating it.
package attendance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	"github.com/danielhkim/shepherdhub/internal/app/stats"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Attendance *attendancestore.Store
	Members    *memberstore.Store
	Groups     *groupstore.Store
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Attendance: attendancestore.New(db),
		Members:    memberstore.New(db),
		Groups:     groupstore.New(db),
		Log:        logger,
	}
}

func validStatus(s string) bool {
	switch s {
	case models.AttendancePresent, models.AttendanceLate, models.AttendanceAbsent:
		return true
	}
	return false
}

// scopedFilter builds a store filter confined to the caller's scope and
// layered with the request's query filters.
func (h *Handler) scopedFilter(r *http.Request) (attendancestore.Filter, error) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		return attendancestore.Filter{}, err
	}

	f := attendancestore.Filter{
		Date:     r.URL.Query().Get("date"),
		DateFrom: r.URL.Query().Get("start_date"),
		DateTo:   r.URL.Query().Get("end_date"),
		Status:   r.URL.Query().Get("status"),
	}
	if f.Status != "" && !validStatus(f.Status) {
		return attendancestore.Filter{}, apperr.Validationf("unknown status")
	}
	memberID, err := shared.QueryInt(r, "member_id")
	if err != nil {
		return attendancestore.Filter{}, err
	}
	if memberID != nil {
		if !scope.AllowsMember(*memberID) {
			return attendancestore.Filter{}, apperr.Forbiddenf("member is outside your scope")
		}
		f.MemberID = memberID
	}

	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		return attendancestore.Filter{}, err
	}
	f.DepartmentID = dept
	f.MemberIDs = scope.MemberIDs
	return f, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.scopedFilter(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	records, err := h.Attendance.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, records)
}

// Stats returns one summary bucket over the scoped, filtered records.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	f, err := h.scopedFilter(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	records, err := h.Attendance.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, stats.Summarize(records))
}

// DailyStats returns per-date buckets over the scoped, filtered records.
func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	f, err := h.scopedFilter(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	records, err := h.Attendance.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, stats.ByDay(records))
}

type recordRequest struct {
	MemberID int    `json:"member_id" validate:"required,gt=0"`
	Date     string `json:"date" validate:"required"`
	Status   string `json:"status" validate:"required"`
	Notes    string `json:"notes"`
}

// toRecord validates one submission and resolves the member's
// department for denormalization onto the attendance row.
func (h *Handler) toRecord(r *http.Request, actor authz.Actor, scope authz.Scope, req recordRequest) (attendancestore.Record, error) {
	if err := shared.Validate(req); err != nil {
		return attendancestore.Record{}, err
	}
	if err := shared.RequireDate(req.Date, "date"); err != nil {
		return attendancestore.Record{}, err
	}
	if !validStatus(req.Status) {
		return attendancestore.Record{}, apperr.Validationf("status must be present, late, or absent")
	}

	m, err := h.Members.GetByID(r.Context(), req.MemberID)
	if err != nil {
		return attendancestore.Record{}, shared.NotFoundAs(err, "member")
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		return attendancestore.Record{}, apperr.Forbiddenf("member is outside your department")
	}
	if !scope.AllowsMember(m.ID) {
		return attendancestore.Record{}, apperr.Forbiddenf("member is outside your scope")
	}
	return attendancestore.Record{
		MemberID:     m.ID,
		DepartmentID: m.DepartmentID,
		Date:         req.Date,
		Status:       req.Status,
		Notes:        req.Notes,
	}, nil
}

// Upsert records one member's status for one day.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	var req recordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	rec, err := h.toRecord(r, actor, scope, req)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	a, err := h.Attendance.Upsert(r.Context(), rec)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

type bulkRequest struct {
	Date    string `json:"date" validate:"required"`
	Records []struct {
		MemberID int    `json:"member_id"`
		Status   string `json:"status"`
		Notes    string `json:"notes"`
	} `json:"records" validate:"required,min=1"`
}

type bulkResponse struct {
	Saved  []models.Attendance `json:"saved"`
	Failed map[int]string      `json:"failed,omitempty"`
}

// BulkUpsert records a whole class sheet for one day. Items fail
// independently; valid rows are saved even when others are rejected.
func (h *Handler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	var req bulkRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.RequireDate(req.Date, "date"); err != nil {
		httpjson.Fail(w, err)
		return
	}

	resp := bulkResponse{Saved: []models.Attendance{}, Failed: map[int]string{}}
	for i, item := range req.Records {
		rec, err := h.toRecord(r, actor, scope, recordRequest{
			MemberID: item.MemberID,
			Date:     req.Date,
			Status:   item.Status,
			Notes:    item.Notes,
		})
		if err != nil {
			resp.Failed[i] = err.Error()
			continue
		}
		a, err := h.Attendance.Upsert(r.Context(), rec)
		if err != nil {
			resp.Failed[i] = err.Error()
			continue
		}
		resp.Saved = append(resp.Saved, a)
	}
	if len(resp.Failed) == 0 {
		resp.Failed = nil
	}
	h.Log.Info("bulk attendance",
		zap.String("date", req.Date),
		zap.Int("saved", len(resp.Saved)),
		zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	a, err := h.Attendance.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "attendance record"))
		return
	}
	if !actor.CanAccessDepartment(a.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "record is outside your department")
		return
	}
	if _, err := h.Attendance.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "attendance record deleted")
}

// DeleteByDate wipes one worship day. super_admin wipes the date
// everywhere; a department_admin only wipes their own department's
// rows, so the reported count is scoped too.
func (h *Handler) DeleteByDate(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	date := chi.URLParam(r, "date")
	if err := shared.RequireDate(date, "date"); err != nil {
		httpjson.Fail(w, err)
		return
	}

	var dept *int
	if !actor.IsSuperAdmin() {
		dept = actor.DepartmentID
	}
	n, err := h.Attendance.DeleteByDate(r.Context(), date, dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("attendance day deleted",
		zap.String("date", date),
		zap.Int64("count", n),
		zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusOK, map[string]any{"deleted": n})
}
