// internal/app/features/announcements/handler.go

// Package announcements serves department notices. Mutation follows the
// author-or-admin rule; pinning is admin-only.
package announcements

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/contentpolicy"
	announcementstore "github.com/danielhkim/shepherdhub/internal/app/store/announcements"
	commentstore "github.com/danielhkim/shepherdhub/internal/app/store/comments"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Announcements *announcementstore.Store
	Departments   *departmentstore.Store
	Comments      *commentstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Announcements: announcementstore.New(db),
		Departments:   departmentstore.New(db),
		Comments:      commentstore.New(db),
		Log:           logger,
	}
}

func validPriority(p string) bool {
	switch p {
	case models.AnnouncementNormal, models.AnnouncementImportant, models.AnnouncementUrgent:
		return true
	}
	return false
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	dept, err := shared.DepartmentParam(r, authz.DepartmentScope(actor))
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	list, err := h.Announcements.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	a, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
		return
	}
	if deny := contentpolicy.CanView(actor, a.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

type announcementRequest struct {
	Title        string `json:"title" validate:"required"`
	Content      string `json:"content" validate:"required"`
	Priority     string `json:"priority"`
	DepartmentID *int   `json:"department_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req announcementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		httpjson.Fail(w, apperr.Validationf("priority must be normal, important, or urgent"))
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

	a, err := h.Announcements.Create(r.Context(), models.Announcement{
		DepartmentID: deptID,
		AuthorID:     actor.ID,
		Title:        req.Title,
		Content:      shared.CleanText(req.Content),
		Priority:     req.Priority,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("announcement posted", zap.Int("announcement_id", a.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, a)
}

type announcementPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Priority *string `json:"priority"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	a, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
		return
	}
	if deny := contentpolicy.CanMutate(actor, a.AuthorID, a.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	var req announcementPatch
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		httpjson.Fail(w, apperr.Validationf("priority must be normal, important, or urgent"))
		return
	}
	if req.Content != nil {
		clean := shared.CleanText(*req.Content)
		req.Content = &clean
	}

	if _, err := h.Announcements.Update(r.Context(), id, announcementstore.Patch{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
	}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// TogglePin flips the pinned flag. Admin-only; authorship does not
// grant pinning.
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	a, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
		return
	}
	if !actor.CanAccessDepartment(a.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "announcement is outside your department")
		return
	}

	pinned := !a.Pinned
	if _, err := h.Announcements.Update(r.Context(), id, announcementstore.Patch{Pinned: &pinned}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
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
	a, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "announcement"))
		return
	}
	if deny := contentpolicy.CanMutate(actor, a.AuthorID, a.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	if _, err := h.Announcements.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if _, err := h.Comments.DeleteByTarget(r.Context(), models.CommentOnAnnouncement, id); err != nil {
		h.Log.Error("announcement cleanup: comments", zap.Int("announcement_id", id), zap.Error(err))
	}
	httpjson.Message(w, http.StatusOK, "announcement deleted")
}
