// internal/app/features/search/handler.go

// Package search serves the global search box: one query fanned out
// across members, users, visits, meetings, and worship logs, each
// confined to the caller's scope.
package search

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	meetingstore "github.com/danielhkim/shepherdhub/internal/app/store/meetings"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	visitstore "github.com/danielhkim/shepherdhub/internal/app/store/visits"
	worshipstore "github.com/danielhkim/shepherdhub/internal/app/store/worships"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

// perBucket caps each result category independently, so one noisy
// category cannot crowd out the rest.
const perBucket = 10

type Handler struct {
	Members  *memberstore.Store
	Users    *userstore.Store
	Visits   *visitstore.Store
	Meetings *meetingstore.Store
	Worships *worshipstore.Store
	Groups   *groupstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Members:  memberstore.New(db),
		Users:    userstore.New(db),
		Visits:   visitstore.New(db),
		Meetings: meetingstore.New(db),
		Worships: worshipstore.New(db),
		Groups:   groupstore.New(db),
		Log:      logger,
	}
}

type results struct {
	Members  []models.Member  `json:"members,omitempty"`
	Users    []models.User    `json:"users,omitempty"`
	Visits   []models.Visit   `json:"visits,omitempty"`
	Meetings []models.Meeting `json:"meetings,omitempty"`
	Worship  []models.Worship `json:"worship,omitempty"`
}

// Global runs the query against every category, or one category when
// type= is given. Members and visits honor the group-leader member
// scope; users, meetings, and worship are confined by department only.
func (h *Handler) Global(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < 2 {
		httpjson.Fail(w, apperr.Validationf("q must be at least 2 characters"))
		return
	}
	typ := r.URL.Query().Get("type")
	switch typ {
	case "", "members", "users", "visits", "meetings", "worship":
	default:
		httpjson.Fail(w, apperr.Validationf("type %q is not searchable", typ))
		return
	}
	want := func(t string) bool { return typ == "" || typ == t }

	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	var dept *int
	if !scope.AllDepartments {
		d := scope.DepartmentID
		dept = &d
	}

	ctx := r.Context()
	var out results
	if want("members") {
		f := memberstore.Filter{DepartmentID: dept, MemberIDs: scope.MemberIDs}
		if out.Members, err = h.Members.Search(ctx, f, q, perBucket); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if want("users") {
		if out.Users, err = h.Users.Search(ctx, dept, q, perBucket); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if want("visits") {
		f := visitstore.Filter{DepartmentID: dept, MemberIDs: scope.MemberIDs}
		if out.Visits, err = h.Visits.Search(ctx, f, q, perBucket); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if want("meetings") {
		if out.Meetings, err = h.Meetings.Search(ctx, dept, q, perBucket); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	if want("worship") {
		f := worshipstore.Filter{DepartmentID: dept}
		if out.Worship, err = h.Worships.Search(ctx, f, q, perBucket); err != nil {
			httpjson.Fail(w, err)
			return
		}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// SearchMembers backs the roster quick-search box: name-only matching,
// no result cap.
func (h *Handler) SearchMembers(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpjson.Fail(w, apperr.Validationf("q is required"))
		return
	}

	scope, err := scopepolicy.ListScope(r.Context(), h.Groups, actor)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	f := memberstore.Filter{MemberIDs: scope.MemberIDs}
	if !scope.AllDepartments {
		d := scope.DepartmentID
		f.DepartmentID = &d
	}

	members, err := h.Members.SearchByName(r.Context(), f, q)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, members)
}
