// internal/app/features/health/handler.go

// Package health serves the liveness endpoint. Unauthenticated: load
// balancers and uptime checks hit it without credentials.
package health

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
)

type Handler struct {
	DB *mongo.Database
}

func NewHandler(db *mongo.Database) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}
	httpjson.Respond(w, status, map[string]string{
		"status": "ok",
		"db":     dbStatus,
	})
}
