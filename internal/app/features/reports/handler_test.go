package reports

import (
	"net/http"
	"testing"

	reportstore "github.com/dalemusser/lessonlab/internal/app/store/reports"
	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/authz"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"github.com/dalemusser/lessonlab/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *reportstore.Store, *userstore.Store) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	reports := reportstore.New(db)
	users := userstore.New(db)
	return NewHandler(reports, authz.New(users), zap.NewNop()), reports, users
}

func TestFile(t *testing.T) {
	h, reports, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lessonID := primitive.NewObjectID().Hex()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/report/"+lessonID, map[string]any{
		"reason": "inappropriate content",
	})
	req = testutil.WithIdentity(req, testutil.TestIdentity{Email: "reporter@test.com"})
	req = testutil.WithURLParam(req, "id", lessonID)
	rec := testutil.NewRecorder()
	h.File(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.DecodeBody(t)
	if body["message"] != "Report submitted" {
		t.Errorf("message = %v, want Report submitted", body["message"])
	}
	if id, _ := body["reportId"].(string); id == "" {
		t.Error("response has no reportId")
	}

	n, err := reports.CountForLesson(ctx, lessonID)
	if err != nil {
		t.Fatalf("CountForLesson() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountForLesson() = %d, want 1", n)
	}
}

func TestFile_MissingReason(t *testing.T) {
	h, _, _ := newTestHandler(t)

	lessonID := primitive.NewObjectID().Hex()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/report/"+lessonID, map[string]any{})
	req = testutil.WithIdentity(req, testutil.TestIdentity{Email: "reporter@test.com"})
	req = testutil.WithURLParam(req, "id", lessonID)
	rec := testutil.NewRecorder()
	h.File(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Reason is required")
}

func TestFile_RepeatAppends(t *testing.T) {
	h, reports, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lessonID := primitive.NewObjectID().Hex()
	for i := 0; i < 2; i++ {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/report/"+lessonID, map[string]any{"reason": "spam"})
		req = testutil.WithIdentity(req, testutil.TestIdentity{Email: "reporter@test.com"})
		req = testutil.WithURLParam(req, "id", lessonID)
		rec := testutil.NewRecorder()
		h.File(rec, req)
		rec.AssertStatus(t, http.StatusOK)
	}

	n, err := reports.CountForLesson(ctx, lessonID)
	if err != nil {
		t.Fatalf("CountForLesson() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountForLesson() = %d, want 2", n)
	}
}

func TestList(t *testing.T) {
	h, reports, users := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := users.Upsert(ctx, "admin@test.com", bson.M{"role": models.RoleAdmin}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := users.Upsert(ctx, "user@test.com", bson.M{"role": models.RoleUser}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := reports.File(ctx, primitive.NewObjectID().Hex(), "r@test.com", "spam"); err != nil {
		t.Fatalf("File() error = %v", err)
	}

	t.Run("admin sees reports", func(t *testing.T) {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/reports", testutil.TestIdentity{Email: "admin@test.com"})
		rec := testutil.NewRecorder()
		h.List(rec, req)

		rec.AssertStatus(t, http.StatusOK)
		listed := rec.DecodeBody(t)["reports"].([]any)
		if len(listed) != 1 {
			t.Errorf("reports listing has %d entries, want 1", len(listed))
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/reports", testutil.TestIdentity{Email: "user@test.com"})
		rec := testutil.NewRecorder()
		h.List(rec, req)

		rec.AssertStatus(t, http.StatusForbidden)
		rec.AssertContains(t, "Forbidden (Admin only)")
	})
}
