// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on.
// EnsureAll runs at startup and is idempotent.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll creates every index the service depends on. The unique
// pair indexes are load-bearing for correctness, not just speed: the
// attendance upsert and the join-collection inserts lean on them to
// reject duplicates under concurrency.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	type spec struct {
		coll  string
		model mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)
	specs := []spec{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		}},
		{"attendance", mongo.IndexModel{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "date", Value: 1}},
			Options: unique,
		}},
		{"member_groups", mongo.IndexModel{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: unique,
		}},
		{"member_tags", mongo.IndexModel{
			Keys:    bson.D{{Key: "tag_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: unique,
		}},
		{"event_participants", mongo.IndexModel{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: unique,
		}},

		// Query-shape indexes for the hot list paths.
		{"members", mongo.IndexModel{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "status", Value: 1}},
		}},
		{"attendance", mongo.IndexModel{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "date", Value: -1}},
		}},
		{"visits", mongo.IndexModel{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "date", Value: -1}},
		}},
		{"visits", mongo.IndexModel{
			Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "date", Value: -1}},
		}},
		{"groups", mongo.IndexModel{
			Keys: bson.D{{Key: "leader_id", Value: 1}},
		}},
		{"announcements", mongo.IndexModel{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}},
		}},
		{"attendance_goals", mongo.IndexModel{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "created_at", Value: -1}},
		}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.coll).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("ensure index on %s: %w", s.coll, err)
		}
	}
	return nil
}
