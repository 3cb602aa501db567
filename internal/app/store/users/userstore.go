// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lessonlab/internal/app/system/normalize"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the user directory: one record per email, created or updated
// via idempotent upsert. There is no deletion path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// ErrMissingEmail is returned when an upsert or update has no email key.
var ErrMissingEmail = errors.New("email is required")

// Upsert registers or updates the user record for email. Profile fields
// from the client are applied as-is via $set; _id is stripped so a
// replayed payload can never collide with the generated id. Calling
// Upsert repeatedly with different payloads leaves exactly one record
// holding the latest fields.
func (s *Store) Upsert(ctx context.Context, email string, fields bson.M) (*mongo.UpdateResult, error) {
	email = normalize.Email(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	set := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	set["email"] = email
	set["updated_at"] = time.Now().UTC()

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	return s.c.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
}

// GetByEmail looks up a user by email (case-insensitive via normalization).
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateByEmail applies a partial profile update to an existing record.
// The email key itself and _id are immutable here. Matching zero
// documents is not an error: the result's MatchedCount tells the caller.
func (s *Store) UpdateByEmail(ctx context.Context, email string, fields bson.M) (*mongo.UpdateResult, error) {
	email = normalize.Email(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	set := bson.M{}
	for k, v := range fields {
		if k == "_id" || k == "email" {
			continue
		}
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	return s.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
}

// Role returns the current role for email, looked up fresh from the
// directory. A missing record is not an error: it reports an empty role,
// which every caller treats as non-admin.
func (s *Store) Role(ctx context.Context, email string) (string, error) {
	var u struct {
		Role string `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return normalize.Role(u.Role), nil
}

// ListAll returns all users sorted by email.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.M{"email": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
