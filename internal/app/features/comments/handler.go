// internal/app/features/comments/handler.go

// Package comments serves the discussion threads attached to
// announcements, meetings, and worship logs. Comments are created by
// any staff member and deleted by their author or an admin.
package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/danielhkim/shepherdhub/internal/app/features/shared"
	commentstore "github.com/danielhkim/shepherdhub/internal/app/store/comments"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	sysauth "github.com/danielhkim/shepherdhub/internal/app/system/auth"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Handler struct {
	Comments *commentstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Comments: commentstore.New(db),
		Users:    userstore.New(db),
		Log:      logger,
	}
}

func validTarget(t string) bool {
	switch t {
	case models.CommentOnAnnouncement, models.CommentOnMeeting, models.CommentOnWorship:
		return true
	}
	return false
}

func target(r *http.Request) (string, int, error) {
	targetType := chi.URLParam(r, "targetType")
	if !validTarget(targetType) {
		return "", 0, apperr.Validationf("target must be announcement, meeting, or worship")
	}
	targetID, err := shared.URLInt(r, "targetID")
	if err != nil {
		return "", 0, err
	}
	return targetType, targetID, nil
}

type commentView struct {
	models.Comment
	UserName string `json:"user_name"`
}

// List returns a target's comments, oldest first, with author names
// resolved. Authors deleted since writing show an empty name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	targetType, targetID, err := target(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	list, err := h.Comments.ListByTarget(r.Context(), targetType, targetID)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	names := map[int]string{}
	out := make([]commentView, 0, len(list))
	for _, c := range list {
		name, ok := names[c.UserID]
		if !ok {
			if u, err := h.Users.GetByID(r.Context(), c.UserID); err == nil {
				name = u.Name
			}
			names[c.UserID] = name
		}
		out = append(out, commentView{Comment: c, UserName: name})
	}
	httpjson.Respond(w, http.StatusOK, out)
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	targetType, targetID, err := target(r)
	if err != nil {
		httpjson.Fail(w, err)
		return
	}

	var req commentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpjson.Fail(w, err)
		return
	}

	c, err := h.Comments.Create(r.Context(), models.Comment{
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     actor.ID,
		Content:    shared.CleanText(req.Content),
	})
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, commentView{Comment: c, UserName: actor.Name})
}

// Delete removes a comment. Only the author or an admin may delete.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := sysauth.CurrentActor(r)
	id, err := shared.URLInt(r, "id")
	if err != nil {
		httpjson.Fail(w, err)
		return
	}
	c, err := h.Comments.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Fail(w, shared.NotFoundAs(err, "comment"))
		return
	}
	if c.UserID != actor.ID && !actor.IsAdmin() {
		httpjson.Error(w, http.StatusForbidden, "only the author or an admin may delete a comment")
		return
	}
	if _, err := h.Comments.Delete(r.Context(), id); err != nil {
		httpjson.Fail(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "comment deleted")
}
