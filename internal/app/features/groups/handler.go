// internal/app/features/groups/handler.go

// Package groups serves cells/classes/teams and their rosters. Group
// mutation is allowed to admins and to the group's own leader.
package groups

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Groups      *groupstore.Store
	Members     *memberstore.Store
	Users       *userstore.Store
	Departments *departmentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:      groupstore.New(db),
		Members:     memberstore.New(db),
		Users:       userstore.New(db),
		Departments: departmentstore.New(db),
		Log:         logger,
	}
}

func validType(t string) bool {
	switch t {
	case models.GroupCell, models.GroupClass, models.GroupTeam:
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
	groups, err := h.Groups.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, groups)
}

type groupDetail struct {
	models.Group
	Members []models.Member `json:"members"`
}

// Get returns a group with its resolved member roster.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	g, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
		return
	}
	if !actor.CanAccessDepartment(g.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "group is outside your department")
		return
	}

	ids, err := h.Groups.MemberIDs(r.Context(), id)
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
	httpjson.Respond(w, http.StatusOK, groupDetail{Group: g, Members: members})
}

type groupRequest struct {
	Name         string `json:"name" validate:"required"`
	Type         string `json:"type"`
	LeaderID     *int   `json:"leader_id"`
	DepartmentID *int   `json:"department_id"`
}

// Create adds a group. The leader, when named, must be a staff account
// in the group's department.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req groupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Type != "" && !validType(req.Type) {
		httpjson.Fail(w, apperr.Validationf("type must be cell, class, or team"))
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

	if req.LeaderID != nil {
		if err := h.checkLeader(r, *req.LeaderID, deptID); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}

	g, err := h.Groups.Create(r.Context(), models.Group{
		DepartmentID: deptID,
		Name:         req.Name,
		Type:         req.Type,
		LeaderID:     req.LeaderID,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("group created", zap.Int("group_id", g.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, g)
}

// checkLeader verifies a prospective leader exists and belongs to the
// group's department. super_admin accounts may lead anywhere.
func (h *Handler) checkLeader(r *http.Request, leaderID, deptID int) error {
	u, err := h.Users.GetByID(r.Context(), leaderID)
	if err != nil {
		return shared.NotFoundAs(err, "leader")
	}
	if u.DepartmentID != nil && *u.DepartmentID != deptID {
		return apperr.Validationf("leader belongs to another department")
	}
	return nil
}

type groupPatch struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	LeaderID *int    `json:"leader_id"`
	// ClearLeader removes the current leader.
	ClearLeader bool `json:"clear_leader"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	g, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
		return
	}
	if deny := scopepolicy.CanManageGroup(actor, g); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	var req groupPatch
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if req.Type != nil && !validType(*req.Type) {
		httpjson.Fail(w, apperr.Validationf("type must be cell, class, or team"))
		return
	}

	patch := groupstore.Patch{Name: req.Name, Type: req.Type}
	if req.ClearLeader {
		var none *int
		patch.LeaderID = &none
	} else if req.LeaderID != nil {
		if err := h.checkLeader(r, *req.LeaderID, g.DepartmentID); err != nil {
			httpjson.Fail(w, err)
			return
		}
		l := req.LeaderID
		patch.LeaderID = &l
	}

	if _, err := h.Groups.Update(r.Context(), id, patch); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
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
	g, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
		return
	}
	if !actor.CanAccessDepartment(g.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "group is outside your department")
		return
	}
	if _, err := h.Groups.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("group deleted", zap.Int("group_id", id), zap.Int("by", actor.ID))
	httpjson.Message(w, http.StatusOK, "group deleted")
}

type membershipRequest struct {
	MemberID int `json:"member_id" validate:"required,gt=0"`
}

// AddMember enrolls a member. The member must belong to the group's
// department; cross-department enrollment is rejected, not remapped.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	g, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
		return
	}
	if deny := scopepolicy.CanManageGroup(actor, g); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	var req membershipRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	m, err := h.Members.GetByID(r.Context(), req.MemberID)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	if m.DepartmentID != g.DepartmentID {
		httpjson.Fail(w, apperr.Validationf("member belongs to another department"))
		return
	}

	if err := h.Groups.AddMember(r.Context(), id, req.MemberID); err != nil {
		if err == groupstore.ErrAlreadyMember {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusCreated, "member added to group")
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	memberID, err := shared.URLInt(r, "memberID")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	g, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "group"))
		return
	}
	if deny := scopepolicy.CanManageGroup(actor, g); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	n, err := h.Groups.RemoveMember(r.Context(), id, memberID)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "member is not in this group")
		return
	}
	httpjson.Message(w, http.StatusOK, "member removed from group")
}
