// internal/app/store/lessons/lessonstore.go
package lessonstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lessonlab/internal/app/system/normalize"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for lesson documents.
const CollectionName = "lessons"

// Store owns the lesson collection. All membership/counter mutations go
// through the toggle operations, which are single atomic document
// updates; nothing in this package reads a document, mutates it in
// memory, and writes it back.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var (
	// ErrNotFound is returned when the target lesson does not exist or the
	// id is not a structurally valid reference. Callers cannot tell the
	// two apart, which is deliberate: a malformed id names nothing.
	ErrNotFound = errors.New("lesson not found")
	// ErrMissingFields is returned by Create when title or description is
	// empty or absent.
	ErrMissingFields = errors.New("title and description are required")
	// ErrToggleConflict is returned when repeated concurrent toggles by
	// the same user exhaust the retry budget. See toggle for the race
	// window this covers.
	ErrToggleConflict = errors.New("toggle contention on lesson")
)

// Membership fields paired with their counters. Legacy bson spellings.
const (
	likeSetField   = "isLiked"
	likeCountField = "likesCount"
	saveSetField   = "isSaved"
	saveCountField = "saveCount"
)

// Create validates and inserts a new lesson, returning it with its
// generated id. Membership sets start empty with zeroed counters
// regardless of what the caller put in the struct.
func (s *Store) Create(ctx context.Context, l models.Lesson) (models.Lesson, error) {
	l.Title = normalize.Text(l.Title)
	l.Description = normalize.Text(l.Description)
	if l.Title == "" || l.Description == "" {
		return models.Lesson{}, ErrMissingFields
	}

	l.ID = primitive.NewObjectID()
	l.AuthorEmail = normalize.Email(l.AuthorEmail)
	l.Visibility = normalize.Visibility(l.Visibility)
	l.LikedBy = []string{}
	l.LikesCount = 0
	l.SavedBy = []string{}
	l.SaveCount = 0

	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Lesson{}, err
	}
	return l, nil
}

// GetByID loads a lesson by its hex id. Malformed ids map to ErrNotFound,
// not a decoding fault: an id that cannot name a document is a document
// that does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var l models.Lesson
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Find returns lessons matching the given field-equality filter, newest
// first. A nil or empty filter returns all lessons. Returns an empty
// slice, never nil, so JSON listings encode as [].
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.Lesson, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lessons := []models.Lesson{}
	if err := cur.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// Update applies a partial content update to an existing lesson and
// returns the post-update document. The membership sets, their counters,
// and _id never pass through here; those fields move only via toggles.
func (s *Store) Update(ctx context.Context, id string, fields bson.M) (*models.Lesson, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	for k, v := range fields {
		switch k {
		case "_id", likeSetField, likeCountField, saveSetField, saveCountField:
			continue
		}
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var l models.Lesson
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Delete removes a lesson. Returns ErrNotFound when no document with
// that id exists at call time.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike flips email's membership in the lesson's like set and
// adjusts likesCount in the same atomic update. Returns the post-toggle
// document and whether email is now a member.
func (s *Store) ToggleLike(ctx context.Context, id, email string) (*models.Lesson, bool, error) {
	return s.toggle(ctx, id, email, likeSetField, likeCountField, false)
}

// ToggleSave is ToggleLike for the save set. It additionally stamps
// updated_at inside the same atomic update, so a save bumps the lesson
// in recency-ordered listings.
func (s *Store) ToggleSave(ctx context.Context, id, email string) (*models.Lesson, bool, error) {
	return s.toggle(ctx, id, email, saveSetField, saveCountField, true)
}

// toggle flips membership with two guarded single-document updates:
//
//  1. remove: matches only while email IS in the set, applying $pull and
//     a -1 counter delta together.
//  2. add: matches only while email is NOT in the set, applying $addToSet
//     and a +1 counter delta together.
//
// Each arm is one atomic read-modify-write in the server, so the counter
// and the set can never drift apart, and concurrent toggles by distinct
// users on the same lesson all land without lost updates.
//
// When both guards miss, either the lesson is gone (ErrNotFound) or the
// same user toggled concurrently and flipped the membership between our
// two arms. The latter is retried a few times and then surfaced as
// ErrToggleConflict; duplicate in-flight clicks by one user are a race
// this store does not serialize further.
func (s *Store) toggle(ctx context.Context, id, email, setField, countField string, stampUpdated bool) (*models.Lesson, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, ErrNotFound
	}
	email = normalize.Email(email)

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	const maxAttempts = 4
	for attempt := 0; attempt < maxAttempts; attempt++ {
		remove := bson.M{
			"$pull": bson.M{setField: email},
			"$inc":  bson.M{countField: -1},
		}
		if stampUpdated {
			remove["$set"] = bson.M{"updated_at": time.Now().UTC()}
		}

		var l models.Lesson
		err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": oid, setField: email}, remove, after).Decode(&l)
		if err == nil {
			return &l, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, err
		}

		add := bson.M{
			"$addToSet": bson.M{setField: email},
			"$inc":      bson.M{countField: 1},
		}
		if stampUpdated {
			add["$set"] = bson.M{"updated_at": time.Now().UTC()}
		}

		err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": oid, setField: bson.M{"$ne": email}}, add, after).Decode(&l)
		if err == nil {
			return &l, true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, err
		}

		// Both guards missed: absent lesson, or this user's membership
		// flipped between the two arms.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			return nil, false, ErrNotFound
		}
	}
	return nil, false, ErrToggleConflict
}
