// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lessonlab/internal/app/system/normalize"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only report log. Reports are never mutated or
// deleted here, and repeated reports by the same reporter are not
// deduplicated: each click is its own record for moderators.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// ErrMissingReason is returned when a report has no reason text.
var ErrMissingReason = errors.New("reason is required")

// File appends a report against lessonID. The lesson's existence is not
// checked: the reference is weak, and a report against an id the client
// saw is useful to moderators even after the lesson is deleted.
//
// The client-visible report id is a UUID rather than the Mongo _id so
// moderation tooling can mint and compare ids without a Mongo dependency.
func (s *Store) File(ctx context.Context, lessonID, reporterEmail, reason string) (models.Report, error) {
	reason = normalize.Text(reason)
	if reason == "" {
		return models.Report{}, ErrMissingReason
	}

	rep := models.Report{
		ReportID:      uuid.NewString(),
		LessonID:      lessonID,
		ReporterEmail: normalize.Email(reporterEmail),
		Reason:        reason,
		CreatedAt:     time.Now().UTC(),
	}

	res, err := s.c.InsertOne(ctx, rep)
	if err != nil {
		return models.Report{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rep.ID = oid
	}
	return rep, nil
}

// ListAll returns all reports, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CountForLesson returns how many reports reference lessonID.
func (s *Store) CountForLesson(ctx context.Context, lessonID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"lesson_id": lessonID})
}
