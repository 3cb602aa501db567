// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup (and by the test harness). Each ensure*
function is idempotent: CreateMany with a stable name is a no-op when an
identical index already exists. Errors are aggregated so every problem
is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureLessons(ctx, db); err != nil {
		problems = append(problems, "lessons: "+err.Error())
	}
	if err := ensureReports(ctx, db); err != nil {
		problems = append(problems, "reports: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers backs the one-record-per-email invariant with a unique
// index; the upsert path alone cannot guarantee it under concurrent
// first registrations.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role"),
		},
	})
	return err
}

func ensureLessons(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("lessons").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Owner-scoped listings.
			Keys:    bson.D{{Key: "author_email", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("author_email_created_at"),
		},
		{
			// Public browse listings.
			Keys:    bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("visibility_created_at"),
		},
	})
	return err
}

func ensureReports(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "lesson_id", Value: 1}},
			Options: options.Index().SetName("lesson_id"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	return err
}
