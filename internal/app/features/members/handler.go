// internal/app/features/members/handler.go

// Package members serves the youth roster. Every read is filtered
// through the caller's scope (department, then group-leader member set)
// before it reaches storage.
package members

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	tagstore "github.com/danielhkim/shepherdhub/internal/app/store/tags"
	visitstore "github.com/danielhkim/shepherdhub/internal/app/store/visits"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Members     *memberstore.Store
	Departments *departmentstore.Store
	Groups      *groupstore.Store
	Attendance  *attendancestore.Store
	Visits      *visitstore.Store
	Tags        *tagstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Members:     memberstore.New(db),
		Departments: departmentstore.New(db),
		Groups:      groupstore.New(db),
		Attendance:  attendancestore.New(db),
		Visits:      visitstore.New(db),
		Tags:        tagstore.New(db),
		Log:         logger,
	}
}

func (h *Handler) scopedFilter(r *http.Request) (memberstore.Filter, error) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		return memberstore.Filter{}, err
	}
	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		return memberstore.Filter{}, err
	}
	return memberstore.Filter{
		Status:       r.URL.Query().Get("status"),
		Grade:        r.URL.Query().Get("grade"),
		DepartmentID: dept,
		MemberIDs:    scope.MemberIDs,
	}, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.scopedFilter(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	members, err := h.Members.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, members)
}

type memberDetail struct {
	models.Member
	TagIDs []int `json:"tag_ids"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "member is outside your department")
		return
	}
	tagIDs, err := h.Tags.TagIDsOfMember(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, memberDetail{Member: m, TagIDs: tagIDs})
}

type memberRequest struct {
	Name         string `json:"name" validate:"required"`
	BirthDate    string `json:"birth_date"`
	Phone        string `json:"phone"`
	ParentPhone  string `json:"parent_phone"`
	Grade        string `json:"grade"`
	Group        string `json:"group"`
	DepartmentID *int   `json:"department_id"`
	Status       string `json:"status" validate:"omitempty,oneof=active long_term_absent"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
	ProfilePhoto string `json:"profile_photo"`
}

// Create adds a member. Non-super actors always write into their own
// department regardless of the payload; super_admin must name one, and
// it must exist.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req memberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.BirthDate != "" {
		if err := shared.RequireDate(req.BirthDate, "birth_date"); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}

	deptID, err := h.resolveDepartment(r, actor, req.DepartmentID)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	m, err := h.Members.Create(r.Context(), models.Member{
		Name:         req.Name,
		BirthDate:    req.BirthDate,
		Phone:        req.Phone,
		ParentPhone:  req.ParentPhone,
		Grade:        req.Grade,
		Group:        req.Group,
		DepartmentID: deptID,
		Status:       req.Status,
		Address:      req.Address,
		Notes:        shared.CleanText(req.Notes),
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("member created", zap.Int("member_id", m.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, m)
}

// resolveDepartment decides which department a new record lands in and
// verifies it exists. Unknown departments are rejected rather than
// silently remapped.
func (h *Handler) resolveDepartment(r *http.Request, actor authz.Actor, requested *int) (int, error) {
	var deptID int
	switch {
	case actor.IsSuperAdmin():
		if requested == nil {
			return 0, apperr.Validationf("department_id is required")
		}
		deptID = *requested
	case actor.DepartmentID != nil:
		deptID = *actor.DepartmentID
	default:
		return 0, apperr.Validationf("actor has no department")
	}
	ok, err := h.Departments.Exists(r.Context(), deptID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.Validationf("unknown department")
	}
	return deptID, nil
}

type memberPatch struct {
	Name         *string `json:"name"`
	BirthDate    *string `json:"birth_date"`
	Phone        *string `json:"phone"`
	ParentPhone  *string `json:"parent_phone"`
	Grade        *string `json:"grade"`
	Group        *string `json:"group"`
	Status       *string `json:"status" validate:"omitempty,oneof=active long_term_absent"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
	ProfilePhoto *string `json:"profile_photo"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "member is outside your department")
		return
	}

	var req memberPatch
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Notes != nil {
		clean := shared.CleanText(*req.Notes)
		req.Notes = &clean
	}

	if _, err := h.Members.Update(r.Context(), id, memberstore.Patch{
		Name:         req.Name,
		BirthDate:    req.BirthDate,
		Phone:        req.Phone,
		ParentPhone:  req.ParentPhone,
		Grade:        req.Grade,
		Group:        req.Group,
		Status:       req.Status,
		Address:      req.Address,
		Notes:        req.Notes,
		ProfilePhoto: req.ProfilePhoto,
	}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// Delete removes a member and every record keyed to them: attendance,
// visits, group memberships, and tag attachments.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "member is outside your department")
		return
	}

	ctx := r.Context()
	if _, err := h.Members.Delete(ctx, id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if _, err := h.Attendance.DeleteByMember(ctx, id); err != nil {
		h.Log.Error("member cleanup: attendance", zap.Int("member_id", id), zap.Error(err))
	}
	if _, err := h.Visits.DeleteByMember(ctx, id); err != nil {
		h.Log.Error("member cleanup: visits", zap.Int("member_id", id), zap.Error(err))
	}
	if _, err := h.Groups.RemoveMemberEverywhere(ctx, id); err != nil {
		h.Log.Error("member cleanup: groups", zap.Int("member_id", id), zap.Error(err))
	}
	if _, err := h.Tags.DetachMemberEverywhere(ctx, id); err != nil {
		h.Log.Error("member cleanup: tags", zap.Int("member_id", id), zap.Error(err))
	}
	h.Log.Info("member deleted", zap.Int("member_id", id), zap.Int("by", actor.ID))
	httpjson.Message(w, http.StatusOK, "member deleted")
}
