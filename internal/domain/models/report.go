// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is an immutable moderation report filed against a lesson.
//
// LessonID is a weak reference: the lesson may have been deleted by the
// time a moderator reviews the report, and reports are never rejected for
// pointing at a missing lesson. Reports are append-only; nothing in this
// service mutates or deletes them.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ReportID      string             `bson:"report_id" json:"reportId"` // client-visible UUID
	LessonID      string             `bson:"lesson_id" json:"lessonId"`
	ReporterEmail string             `bson:"reporter_email" json:"reporterEmail"`
	Reason        string             `bson:"reason" json:"reason"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
