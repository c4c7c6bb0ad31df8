// internal/app/features/visits/handler.go

// Package visits serves pastoral-care contact logs. Reads follow the
// caller's scope; updates and deletes follow the author-or-admin rule.
package visits

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	"github.com/danielhkim/shepherdhub/internal/app/policy/contentpolicy"
	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	visitstore "github.com/danielhkim/shepherdhub/internal/app/store/visits"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Visits  *visitstore.Store
	Members *memberstore.Store
	Groups  *groupstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Visits:  visitstore.New(db),
		Members: memberstore.New(db),
		Groups:  groupstore.New(db),
		Log:     logger,
	}
}

func validPriority(p string) bool {
	switch p {
	case models.VisitPriorityLow, models.VisitPriorityMedium, models.VisitPriorityHigh:
		return true
	}
	return false
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	f := visitstore.Filter{
		DateFrom: r.URL.Query().Get("start_date"),
		DateTo:   r.URL.Query().Get("end_date"),
		Priority: r.URL.Query().Get("priority"),
	}
	memberID, err := shared.QueryInt(r, "member_id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	if memberID != nil {
		if !scope.AllowsMember(*memberID) {
			httpjson.Error(w, http.StatusForbidden, "member is outside your scope")
			return
		}
		f.MemberID = memberID
	}
	dept, err := shared.DepartmentParam(r, scope)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	f.DepartmentID = dept
	f.MemberIDs = scope.MemberIDs

	visits, err := h.Visits.List(r.Context(), f)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, visits)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	v, err := h.Visits.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "visit"))
		return
	}
	if deny := contentpolicy.CanView(actor, v.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}

type visitRequest struct {
	MemberID      int    `json:"member_id" validate:"required,gt=0"`
	Date          string `json:"date" validate:"required"`
	Type          string `json:"type"`
	Content       string `json:"content" validate:"required"`
	NextVisitDate string `json:"next_visit_date"`
	Priority      string `json:"priority"`
	TemplateID    *int   `json:"template_id"`
}

// Create logs a visit. The author is always the caller; the department
// is denormalized from the member.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)

	var req visitRequest
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
	if req.NextVisitDate != "" {
		if err := shared.RequireDate(req.NextVisitDate, "next_visit_date"); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		httpjson.Fail(w, apperr.Validationf("priority must be low, medium, or high"))
		return
	}

	m, err := h.Members.GetByID(r.Context(), req.MemberID)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "member"))
		return
	}
	if !actor.CanAccessDepartment(m.DepartmentID) {
		httpjson.Error(w, http.StatusForbidden, "member is outside your department")
		return
	}

	v, err := h.Visits.Create(r.Context(), models.Visit{
		MemberID:      m.ID,
		TeacherID:     actor.ID,
		DepartmentID:  m.DepartmentID,
		Date:          req.Date,
		Type:          req.Type,
		Content:       shared.CleanText(req.Content),
		NextVisitDate: req.NextVisitDate,
		Priority:      req.Priority,
		TemplateID:    req.TemplateID,
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	h.Log.Info("visit logged",
		zap.Int("visit_id", v.ID),
		zap.Int("member_id", m.ID),
		zap.Int("by", actor.ID))
	httpjson.Respond(w, http.StatusCreated, v)
}

type visitPatch struct {
	Date          *string `json:"date"`
	Type          *string `json:"type"`
	Content       *string `json:"content"`
	NextVisitDate *string `json:"next_visit_date"`
	Priority      *string `json:"priority"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	v, err := h.Visits.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "visit"))
		return
	}
	if deny := contentpolicy.CanMutate(actor, v.TeacherID, v.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}

	var req visitPatch
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
	if req.Priority != nil && !validPriority(*req.Priority) {
		httpjson.Fail(w, apperr.Validationf("priority must be low, medium, or high"))
		return
	}
	if req.Content != nil {
		clean := shared.CleanText(*req.Content)
		req.Content = &clean
	}

	if _, err := h.Visits.Update(r.Context(), id, visitstore.Patch{
		Date:          req.Date,
		Type:          req.Type,
		Content:       req.Content,
		NextVisitDate: req.NextVisitDate,
		Priority:      req.Priority,
	}); err != nil {
		httpjson.Fail(w, err)
		return
	}
	updated, err := h.Visits.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "visit"))
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
	v, err := h.Visits.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "visit"))
		return
	}
	if deny := contentpolicy.CanMutate(actor, v.TeacherID, v.DepartmentID); deny != "" {
		httpjson.Error(w, http.StatusForbidden, deny)
		return
	}
	if _, err := h.Visits.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "visit deleted")
}
