// internal/app/features/worship/handler.go

// Package worship serves worship service logs: sermon details, songs,
// headcount, and offering per service, department-scoped.
package worship

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	commentstore "github.com/danielhkim/shepherdhub/internal/app/store/comments"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	worshipstore "github.com/danielhkim/shepherdhub/internal/app/store/worships"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Worships    *worshipstore.Store
	Departments *departmentstore.Store
	Comments    *commentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Worships:    worshipstore.New(db),
		Departments: departmentstore.New(db),
		Comments:    commentstore.New(db),
		Log:         logger,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	f := worshipstore.Filter{
		DateFrom: r.URL.Query().Get("start_date"),
		DateTo:   r.URL.Query().Get("end_date"),
	}
	dept, err := shared.DepartmentParam(r, authz.DepartmentScope(actor))
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	f.DepartmentID = dept

	logs, err := h.Worships.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, logs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	wl, err := h.Worships.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "worship log"))
		return
	}
	if !actor.CanAccessDepartment(wl.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "worship log is outside your department")
		return
	}
	httpjson.Respond(w, http.StatusOK, wl)
}

type worshipRequest struct {
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time"`
	Title           string `json:"title" validate:"required"`
	Scripture       string `json:"scripture"`
	Preacher        string `json:"preacher"`
	Content         string `json:"content"`
	WorshipSongs    string `json:"worship_songs"`
	SpecialEvents   string `json:"special_events"`
	AttendanceCount int    `json:"attendance_count" validate:"gte=0"`
	Offering        int    `json:"offering" validate:"gte=0"`
	Notes           string `json:"notes"`
	DepartmentID    *int   `json:"department_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req worshipRequest
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

	var deptID int
	switch {
	case actor.IsSuperAdmin():
		if req.DepartmentID == nil {
			httpjson.Fail(w, apperr.Validationf("department_id is required"))
			return
		}
		deptID = *req.DepartmentID
		ok, err := h.Departments.Exists(r.Context(), deptID)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		if !ok {
			httpjson.Fail(w, apperr.Validationf("unknown department"))
			return
		}
	case actor.DepartmentID != nil:
		deptID = *actor.DepartmentID
	default:
		httpjson.Fail(w, apperr.Validationf("actor has no department"))
		return
	}

	wl, err := h.Worships.Create(r.Context(), models.Worship{
		Date:            req.Date,
		Time:            req.Time,
		Title:           req.Title,
		Scripture:       req.Scripture,
		Preacher:        req.Preacher,
		Content:         shared.CleanText(req.Content),
		WorshipSongs:    req.WorshipSongs,
		SpecialEvents:   req.SpecialEvents,
		AttendanceCount: req.AttendanceCount,
		Offering:        req.Offering,
		Notes:           shared.CleanText(req.Notes),
		DepartmentID:    deptID,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("worship logged", zap.Int("worship_id", wl.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, wl)
}

type worshipPatch struct {
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Title           *string `json:"title"`
	Scripture       *string `json:"scripture"`
	Preacher        *string `json:"preacher"`
	Content         *string `json:"content"`
	WorshipSongs    *string `json:"worship_songs"`
	SpecialEvents   *string `json:"special_events"`
	AttendanceCount *int    `json:"attendance_count" validate:"omitempty,gte=0"`
	Offering        *int    `json:"offering" validate:"omitempty,gte=0"`
	Notes           *string `json:"notes"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	wl, err := h.Worships.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "worship log"))
		return
	}
	if !actor.CanAccessDepartment(wl.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "worship log is outside your department")
		return
	}

	var req worshipPatch
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Date != nil {
		if err := shared.RequireDate(*req.Date, "date"); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if req.Content != nil {
		clean := shared.CleanText(*req.Content)
		req.Content = &clean
	}
	if req.Notes != nil {
		clean := shared.CleanText(*req.Notes)
		req.Notes = &clean
	}

	if _, err := h.Worships.Update(r.Context(), id, worshipstore.Patch{
		Date:            req.Date,
		Time:            req.Time,
		Title:           req.Title,
		Scripture:       req.Scripture,
		Preacher:        req.Preacher,
		Content:         req.Content,
		WorshipSongs:    req.WorshipSongs,
		SpecialEvents:   req.SpecialEvents,
		AttendanceCount: req.AttendanceCount,
		Offering:        req.Offering,
		Notes:           req.Notes,
	}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Worships.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "worship log"))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	wl, err := h.Worships.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "worship log"))
		return
	}
	if !actor.CanAccessDepartment(wl.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "worship log is outside your department")
		return
	}
	if _, err := h.Worships.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if _, err := h.Comments.DeleteByTarget(r.Context(), models.CommentOnWorship, id); err != nil {
		h.Log.Error("worship cleanup: comments", zap.Int("worship_id", id), zap.Error(err))
	}
	httpjson.Message(w, http.StatusOK, "worship log deleted")
}
