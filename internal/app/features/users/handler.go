// internal/app/features/users/handler.go

// Package users serves staff-account administration. Who may do what is
// decided by userpolicy; this package only orchestrates.
package users

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/userpolicy"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

// List returns accounts. super_admin sees all; department_admin sees
// their own department.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var dept *int
	if !actor.IsSuperAdmin() {
		dept = actor.DepartmentID
	}
	users, err := h.Users.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}
	if deny := userpolicy.CanViewUser(actor, u); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

type createRequest struct {
	Username      string `json:"username" validate:"required,min=3"`
	Password      string `json:"password" validate:"required,min=8"`
	Name          string `json:"name" validate:"required"`
	Role          string `json:"role" validate:"required"`
	DepartmentID  *int   `json:"department_id"`
	AssignedGrade string `json:"assigned_grade"`
	AssignedGroup string `json:"assigned_group"`
}

// Create adds a staff account. Roles are stored canonical; the legacy
// aliases are accepted on input only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if deny := userpolicy.CanCreateUser(actor, req.Role, req.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	u, err := h.Users.Create(r.Context(), models.User{
		Username:      req.Username,
		PasswordHash:  string(hash),
		Name:          req.Name,
		Role:          authz.Canonical(req.Role),
		DepartmentID:  req.DepartmentID,
		AssignedGrade: req.AssignedGrade,
		AssignedGroup: req.AssignedGroup,
	})
	if err != nil {
		if err == userstore.ErrDuplicateUsername {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("user created",
		zap.Int("user_id", u.ID),
		zap.String("role", u.Role),
		zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, u)
}

type updateRequest struct {
	Name          *string `json:"name"`
	Role          *string `json:"role"`
	DepartmentID  *int    `json:"department_id"`
	AssignedGrade *string `json:"assigned_grade"`
	AssignedGroup *string `json:"assigned_group"`
	Password      *string `json:"password" validate:"omitempty,min=8"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	target, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	newRole := ""
	if req.Role != nil {
		newRole = authz.Canonical(*req.Role)
		if newRole == "" {
			httpjson.Error(w, http.StatusBadRequest, "unrecognized role")
			return
		}
	}
	if deny := userpolicy.CanUpdateUser(actor, target, newRole); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	var patch userstore.Patch
	patch.Name = req.Name
	if newRole != "" {
		patch.Role = &newRole
	}
	if req.DepartmentID != nil {
		// Only super_admin reassigns departments; dept_admin updates
		// never cross departments (CanUpdateUser already pinned them).
		if !actor.IsSuperAdmin() {
			httpjson.Error(w, http.StatusForbidden, userpolicy.DenyWrongDept)
			return
		}
		d := req.DepartmentID
		patch.DepartmentID = &d
	}
	patch.AssignedGrade = req.AssignedGrade
	patch.AssignedGroup = req.AssignedGroup
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		hs := string(hash)
		patch.PasswordHash = &hs
	}

	if _, err := h.Users.Update(r.Context(), id, patch); err != nil {
		httpjson.Fail(w, err)
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	target, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}
	if deny := userpolicy.CanDeleteUser(actor, target); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	if _, err := h.Users.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("user deleted", zap.Int("user_id", id), zap.Int("by", actor.ID))
	httpjson.Message(w, http.StatusOK, "user deleted")
}
