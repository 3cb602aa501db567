package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/lessonlab/internal/domain/models"
	"github.com/dalemusser/lessonlab/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := store.Upsert(ctx, "New@Example.com", bson.M{
		"full_name": "New User",
		"photo_url": "https://cdn.test/p.png",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if res.UpsertedCount != 1 {
		t.Errorf("Upsert() UpsertedCount = %d, want 1", res.UpsertedCount)
	}

	u, err := store.GetByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.Email != "new@example.com" {
		t.Errorf("stored email = %q, want normalized lowercase", u.Email)
	}
	if u.FullName != "New User" {
		t.Errorf("FullName = %q, want %q", u.FullName, "New User")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("Upsert() did not set timestamps")
	}
}

func TestStore_Upsert_Repeat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, "repeat@test.com", bson.M{"full_name": "First"}); err != nil {
		t.Fatalf("Upsert() first error = %v", err)
	}
	if _, err := store.Upsert(ctx, "Repeat@Test.com", bson.M{"full_name": "Second"}); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}

	n, err := store.Count(ctx, bson.M{"email": "repeat@test.com"})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("repeated Upsert() left %d records, want 1", n)
	}

	u, err := store.GetByEmail(ctx, "repeat@test.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.FullName != "Second" {
		t.Errorf("FullName = %q, want latest value %q", u.FullName, "Second")
	}
}

func TestStore_Upsert_MissingEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, "   ", bson.M{"full_name": "Nobody"}); !errors.Is(err, ErrMissingEmail) {
		t.Errorf("Upsert() error = %v, want ErrMissingEmail", err)
	}
}

func TestStore_Upsert_StripsID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, "idstrip@test.com", bson.M{"_id": "client-chosen", "full_name": "X"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	u, err := store.GetByEmail(ctx, "idstrip@test.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.ID.IsZero() {
		t.Error("record has no generated ObjectID")
	}

	// Replaying with a different client _id must update, not collide.
	if _, err := store.Upsert(ctx, "idstrip@test.com", bson.M{"_id": "other", "full_name": "Y"}); err != nil {
		t.Fatalf("Upsert() replay error = %v", err)
	}
}

func TestStore_GetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByEmail(ctx, "ghost@test.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByEmail() error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_UpdateByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, "edit@test.com", bson.M{"full_name": "Before"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	res, err := store.UpdateByEmail(ctx, "edit@test.com", bson.M{
		"full_name": "After",
		"email":     "hijack@test.com",
	})
	if err != nil {
		t.Fatalf("UpdateByEmail() error = %v", err)
	}
	if res.MatchedCount != 1 {
		t.Errorf("UpdateByEmail() MatchedCount = %d, want 1", res.MatchedCount)
	}

	u, err := store.GetByEmail(ctx, "edit@test.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.FullName != "After" {
		t.Errorf("FullName = %q, want %q", u.FullName, "After")
	}
	if u.Email != "edit@test.com" {
		t.Errorf("email changed to %q; the key must be immutable", u.Email)
	}

	missing, err := store.UpdateByEmail(ctx, "ghost@test.com", bson.M{"full_name": "X"})
	if err != nil {
		t.Fatalf("UpdateByEmail() missing error = %v", err)
	}
	if missing.MatchedCount != 0 {
		t.Errorf("UpdateByEmail() missing MatchedCount = %d, want 0", missing.MatchedCount)
	}
}

func TestStore_Role(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	role, err := store.Role(ctx, "ghost@test.com")
	if err != nil {
		t.Fatalf("Role() missing user error = %v", err)
	}
	if role != "" {
		t.Errorf("Role() missing user = %q, want empty", role)
	}

	if _, err := store.Upsert(ctx, "admin@test.com", bson.M{"role": "Admin"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	role, err = store.Role(ctx, "admin@test.com")
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("Role() = %q, want %q", role, models.RoleAdmin)
	}
}

func TestStore_ListAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, email := range []string{"c@test.com", "a@test.com", "b@test.com"} {
		if _, err := store.Upsert(ctx, email, bson.M{"full_name": email}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", email, err)
		}
	}

	users, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("ListAll() returned %d users, want 3", len(users))
	}
	for i, want := range []string{"a@test.com", "b@test.com", "c@test.com"} {
		if users[i].Email != want {
			t.Errorf("users[%d].Email = %q, want %q", i, users[i].Email, want)
		}
	}
}
