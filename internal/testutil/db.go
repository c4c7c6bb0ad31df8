// internal/testutil/db.go

// Package testutil provides the shared plumbing for integration and
// handler tests: a throwaway Mongo database, data fixtures, and request
// helpers that bypass the bearer middleware.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkim/shepherdhub/internal/app/system/indexes"
)

// TestContext returns a context with a generous timeout for test I/O.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// SetupTestDB connects to the Mongo instance named by
// SHEPHERDHUB_TEST_MONGO_URI and hands back a per-test database with
// indexes ensured. Tests are skipped when the variable is unset, so the
// pure-logic suite runs everywhere. The database is dropped on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("SHEPHERDHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SHEPHERDHUB_TEST_MONGO_URI not set; skipping database test")
	}

	ctx := TestContext(t)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}

	db := client.Database(fmt.Sprintf("shepherdhub_test_%d", time.Now().UnixNano()))
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
