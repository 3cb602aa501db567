// internal/domain/models/lesson.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lesson is a shared lesson document.
//
// The membership arrays and their counters are mutated exclusively through
// the lesson store's toggle operations, each of which is a single atomic
// document update. Invariant: LikesCount == len(LikedBy) and
// SaveCount == len(SavedBy) after every operation.
//
// The bson/json keys for the membership fields (isLiked, likesCount,
// isSaved, saveCount) are legacy spellings kept for client and data
// compatibility.
type Lesson struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	AuthorEmail string             `bson:"author_email,omitempty" json:"author_email,omitempty"`
	Visibility  string             `bson:"visibility,omitempty" json:"visibility,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`

	LikedBy    []string `bson:"isLiked" json:"isLiked"`
	LikesCount int      `bson:"likesCount" json:"likesCount"`
	SavedBy    []string `bson:"isSaved" json:"isSaved"`
	SaveCount  int      `bson:"saveCount" json:"saveCount"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Lesson visibility values
const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// IsOwnedBy reports whether email is the lesson's author. Emails are
// case-insensitive keys, so the comparison folds case.
func (l *Lesson) IsOwnedBy(email string) bool {
	return l != nil && l.AuthorEmail != "" && strings.EqualFold(l.AuthorEmail, strings.TrimSpace(email))
}
