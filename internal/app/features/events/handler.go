// internal/app/features/events/handler.go

// Package events serves department activities and participant rosters.
// Registration respects the max_participants cap when one is set.
package events

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	eventstore "github.com/danielhkim/shepherdhub/internal/app/store/events"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Events      *eventstore.Store
	Members     *memberstore.Store
	Departments *departmentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events:      eventstore.New(db),
		Members:     memberstore.New(db),
		Departments: departmentstore.New(db),
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
	events, err := h.Events.List(r.Context(), dept)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, events)
}

type eventDetail struct {
	models.Event
	Participants []models.EventParticipant `json:"participants"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "event"))
		return
	}
	if !actor.CanAccessDepartment(e.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "event is outside your department")
		return
	}
	participants, err := h.Events.Participants(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, eventDetail{Event: e, Participants: participants})
}

type eventRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date" validate:"required"`
	Location        string `json:"location"`
	MaxParticipants int    `json:"max_participants" validate:"gte=0"`
	DepartmentID    *int   `json:"department_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req eventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.RequireDate(req.EventDate, "event_date"); err != nil {
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

	e, err := h.Events.Create(r.Context(), models.Event{
		DepartmentID:    deptID,
		Title:           req.Title,
		Description:     shared.CleanText(req.Description),
		EventDate:       req.EventDate,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       actor.ID,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("event created", zap.Int("event_id", e.ID), zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "event"))
		return
	}
	if !actor.CanAccessDepartment(e.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "event is outside your department")
		return
	}
	if _, err := h.Events.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "event deleted")
}

type registerRequest struct {
	MemberID int `json:"member_id" validate:"required,gt=0"`
}

// Register enrolls a member. Full events (max_participants > 0 and
// reached) reject new registrations.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "event"))
		return
	}
	if !actor.CanAccessDepartment(e.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "event is outside your department")
		return
	}

	var req registerRequest
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
	if m.DepartmentID != e.DepartmentID {
		httpjson.Fail(w, apperr.Validationf("member belongs to another department"))
		return
	}

	if e.MaxParticipants > 0 {
		n, err := h.Events.ParticipantCount(r.Context(), id)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		if n >= int64(e.MaxParticipants) {
			httpjson.Fail(w, apperr.Validationf("event is full"))
			return
		}
	}

	p, err := h.Events.Register(r.Context(), id, req.MemberID)
	if err != nil {
		if err == eventstore.ErrAlreadyRegistered {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, p)
}

type participantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=registered attended absent"`
}

// SetParticipantStatus marks whether a registered member actually came.
func (h *Handler) SetParticipantStatus(w http.ResponseWriter, r *http.Request) {
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
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "event"))
		return
	}
	if !actor.CanAccessDepartment(e.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "event is outside your department")
		return
	}

	var req participantStatusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	n, err := h.Events.SetParticipantStatus(r.Context(), id, memberID, req.Status)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "member is not registered for this event")
		return
	}
	httpjson.Message(w, http.StatusOK, "participant updated")
}

func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
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
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "event"))
		return
	}
	if !actor.CanAccessDepartment(e.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "event is outside your department")
		return
	}

	n, err := h.Events.Unregister(r.Context(), id, memberID)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "member is not registered for this event")
		return
	}
	httpjson.Message(w, http.StatusOK, "registration removed")
}
