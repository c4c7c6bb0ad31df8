// internal/app/features/meetings/handler.go

// Package meetings serves department meeting logs. There is no author
// field; department scope is the only mutation rule.
package meetings

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	commentstore "github.com/danielhkim/shepherdhub/internal/app/store/comments"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	meetingstore "github.com/danielhkim/shepherdhub/internal/app/store/meetings"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Meetings    *meetingstore.Store
	Departments *departmentstore.Store
	Comments    *commentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Meetings:    meetingstore.New(db),
		Departments: departmentstore.New(db),
		Comments:    commentstore.New(db),
		Log:         logger,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	dept, err := shared.DepartmentParam(r, authz.DepartmentScope(actor))
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	meetings, err := h.Meetings.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, meetings)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Meetings.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "meeting"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "meeting is outside your department")
		return
	}
	httpjson.Respond(w, http.StatusOK, m)
}

type meetingRequest struct {
	Title        string `json:"title" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Time         string `json:"time"`
	Attendees    string `json:"attendees"`
	Content      string `json:"content"`
	Decisions    string `json:"decisions"`
	NextMeeting  string `json:"next_meeting"`
	DepartmentID *int   `json:"department_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req meetingRequest
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

	m, err := h.Meetings.Create(r.Context(), models.Meeting{
		Title:        req.Title,
		Date:         req.Date,
		Time:         req.Time,
		Attendees:    req.Attendees,
		Content:      shared.CleanText(req.Content),
		Decisions:    shared.CleanText(req.Decisions),
		NextMeeting:  req.NextMeeting,
		DepartmentID: deptID,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("meeting logged", zap.Int("meeting_id", m.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, m)
}

type meetingPatch struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Attendees   *string `json:"attendees"`
	Content     *string `json:"content"`
	Decisions   *string `json:"decisions"`
	NextMeeting *string `json:"next_meeting"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Meetings.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "meeting"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "meeting is outside your department")
		return
	}

	var req meetingPatch
	if err := httpjson.Decode(r, &req); err != nil {
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
	if req.Decisions != nil {
		clean := shared.CleanText(*req.Decisions)
		req.Decisions = &clean
	}

	if _, err := h.Meetings.Update(r.Context(), id, meetingstore.Patch{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Attendees:   req.Attendees,
		Content:     req.Content,
		Decisions:   req.Decisions,
		NextMeeting: req.NextMeeting,
	}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Meetings.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "meeting"))
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
	m, err := h.Meetings.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "meeting"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "meeting is outside your department")
		return
	}
	if _, err := h.Meetings.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if _, err := h.Comments.DeleteByTarget(r.Context(), models.CommentOnMeeting, id); err != nil {
		h.Log.Error("meeting cleanup: comments", zap.Int("meeting_id", id), zap.Error(err))
	}
	httpjson.Message(w, http.StatusOK, "meeting deleted")
}
