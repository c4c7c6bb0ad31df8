// internal/app/features/tags/handler.go

// Package tags serves member labels and their attachments.
package tags

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	tagstore "github.com/danielhkim/shepherdhub/internal/app/store/tags"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Tags    *tagstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Tags: tagstore.New(db), Members: memberstore.New(db), Log: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	var dept *int
	if !actor.IsSuperAdmin() {
		dept = actor.DepartmentID
	}
	tags, err := h.Tags.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, tags)
}

type tagRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req tagRequest
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

	t, err := h.Tags.Create(r.Context(), models.Tag{
		Name:         req.Name,
		Color:        req.Color,
		DepartmentID: dept,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	t, err := h.Tags.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "tag"))
		return
	}
	if !actor.CanAccessDepartment(t.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "tag is outside your department")
		return
	}
	if _, err := h.Tags.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "tag deleted")
}

// tagAccess loads a tag and a member and verifies both sit inside the
// caller's department scope and the same department as each other.
func (h *Handler) tagAccess(r *http.Request) (models.Tag, models.Member, error) {
	actor, _ := sysauth.CurrentActor(r)
	tagID, err := shared.URLInt(r, "id")
	if err != nil {
		return models.Tag{}, models.Member{}, err
	}
	memberID, err := shared.URLInt(r, "memberID")
	if err != nil {
		return models.Tag{}, models.Member{}, err
	}
	t, err := h.Tags.GetByID(r.Context(), tagID)
	if err != nil {
		return models.Tag{}, models.Member{}, shared.NotFoundAs(err, "tag")
	}
	m, err := h.Members.GetByID(r.Context(), memberID)
	if err != nil {
		return models.Tag{}, models.Member{}, shared.NotFoundAs(err, "member")
	}
	if !actor.CanAccessDepartment(t.DepartmentID) || !actor.CanAccessDepartment(m.DepartmentID) {
		return models.Tag{}, models.Member{}, apperr.Forbiddenf("outside your department")
	}
	if t.DepartmentID != m.DepartmentID {
		return models.Tag{}, models.Member{}, apperr.Validationf("tag and member belong to different departments")
	}
	return t, m, nil
}

func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	t, m, err := h.tagAccess(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := h.Tags.Attach(r.Context(), t.ID, m.ID); err != nil {
		if err == tagstore.ErrAlreadyTagged {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusCreated, "tag attached")
}

func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	t, m, err := h.tagAccess(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	n, err := h.Tags.Detach(r.Context(), t.ID, m.ID)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "member does not have this tag")
		return
	}
	httpjson.Message(w, http.StatusOK, "tag detached")
}

// TaggedMembers resolves the member records carrying a tag.
func (h *Handler) TaggedMembers(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	t, err := h.Tags.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "tag"))
		return
	}
	if !actor.CanAccessDepartment(t.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "tag is outside your department")
		return
	}
	ids, err := h.Tags.MemberIDsOfTag(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	members := []models.Member{}
	if len(ids) > 0 {
		members, err = h.Members.List(r.Context(), memberstore.Filter{MemberIDs: ids})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	httpjson.Respond(w, http.StatusOK, members)
}
