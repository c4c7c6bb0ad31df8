// internal/app/features/departments/handler.go

// Package departments serves the root scoping unit. Reads are open to
// all staff; writes are super_admin only. There is no delete endpoint:
// departments are referenced by nearly every record in the system.
package departments

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Departments *departmentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Departments: departmentstore.New(db), Log: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deps, err := h.Departments.List(r.Context())
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, deps)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	d, err := h.Departments.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "department"))
		return
	}
	httpjson.Respond(w, http.StatusOK, d)
}

type departmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	AgeRange    string `json:"age_range"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req departmentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	d, err := h.Departments.Create(r.Context(), models.Department{
		Name:        req.Name,
		Description: req.Description,
		AgeRange:    req.AgeRange,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("department created", zap.Int("department_id", d.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, d)
}

type departmentPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AgeRange    *string `json:"age_range"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	var req departmentPatch
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	matched, err := h.Departments.Update(r.Context(), id, departmentstore.Patch{
		Name:        req.Name,
		Description: req.Description,
		AgeRange:    req.AgeRange,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if matched == 0 {
		httpjson.Error(w, http.StatusNotFound, "department not found")
		return
	}
	d, err := h.Departments.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "department"))
		return
	}
	httpjson.Respond(w, http.StatusOK, d)
}
