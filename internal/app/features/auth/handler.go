// internal/app/features/auth/handler.go

// Package auth (the feature) serves login, the current-user lookup, and
// profile self-service. Account administration lives in features/users.
package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
)

// Handler owns the auth endpoints.
type Handler struct {
	Users       *userstore.Store
	Departments *departmentstore.Store
	Tokens      *sysauth.TokenIssuer
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, tokens *sysauth.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Departments: departmentstore.New(db),
		Tokens:      tokens,
		Log:         logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token          string `json:"token"`
	User           any    `json:"user"`
	DepartmentName string `json:"department_name,omitempty"`
}

// Login verifies credentials and issues a session token. Unknown
// username and wrong password produce the same response, so the
// endpoint does not reveal which accounts exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	u, err := h.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Fail(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.Tokens.Issue(u.ID, u.Username, u.Name, u.Role, u.DepartmentID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.Fail(w, err)
		return
	}
	resp := loginResponse{Token: token, User: u}
	if u.DepartmentID != nil {
		d, err := h.Departments.GetByID(r.Context(), *u.DepartmentID)
		if err != nil {
			h.Log.Warn("login: department lookup failed",
				zap.Int("department_id", *u.DepartmentID), zap.Error(err))
		} else {
			resp.DepartmentName = d.Name
		}
	}
	h.Log.Info("login", zap.String("username", u.Username), zap.Int("user_id", u.ID))
	httpjson.Respond(w, http.StatusOK, resp)
}

// Me returns the authenticated user's fresh account record. The token
// carries a snapshot; this re-reads storage so role or department
// changes made since issuance are visible.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	u, err := h.Users.GetByID(r.Context(), actor.ID)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

type profileRequest struct {
	Name            string `json:"name"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// UpdateProfile lets any authenticated user change their own name and,
// with their current password, their password.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req profileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	var patch userstore.Patch
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.NewPassword != "" {
		u, err := h.Users.GetByID(r.Context(), actor.ID)
		if err != nil {
			httpjson.Fail(w, shared.NotFoundAs(err, "user"))
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
			httpjson.Error(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		hs := string(hash)
		patch.PasswordHash = &hs
	}

	if _, err := h.Users.Update(r.Context(), actor.ID, patch); err != nil {
		httpjson.Fail(w, err)
		return
	}
	u, err := h.Users.GetByID(r.Context(), actor.ID)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "user"))
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}
