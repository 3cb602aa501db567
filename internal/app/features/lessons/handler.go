// Package lessons provides the lesson CRUD endpoints.
//
// Endpoints:
//   - POST   /addlesson    - create a lesson (public, identity optional)
//   - GET    /publicLesson - list public lessons (public)
//   - GET    /lessons      - list lessons scoped by role
//   - GET    /lesson/{id}  - fetch one lesson (public)
//   - PUT    /lesson/{id}  - update a lesson (owner or admin)
//   - DELETE /lesson/{id}  - delete a lesson (owner or admin)
package lessons

import (
	"errors"
	"net/http"

	lessonstore "github.com/dalemusser/lessonlab/internal/app/store/lessons"
	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/app/system/authz"
	"github.com/dalemusser/lessonlab/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessonlab/internal/app/system/jsonutil"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles lesson CRUD requests.
type Handler struct {
	lessons *lessonstore.Store
	users   *userstore.Store
	authz   *authz.Authorizer
	logger  *zap.Logger
}

// NewHandler creates a new lessons handler.
func NewHandler(lessons *lessonstore.Store, users *userstore.Store, az *authz.Authorizer, logger *zap.Logger) *Handler {
	return &Handler{
		lessons: lessons,
		users:   users,
		authz:   az,
		logger:  logger,
	}
}

// Add handles POST /addlesson.
//
// The route is public, but when the caller presented a valid bearer token
// the author is stamped from the verified identity, overriding whatever
// the body claims. Anonymous creates keep the body's author_email.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var in models.Lesson
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	in.Title = htmlsanitize.Text(in.Title)
	in.Description = htmlsanitize.Text(in.Description)
	in.Category = htmlsanitize.Text(in.Category)

	if ident, ok := auth.CurrentIdentity(r); ok {
		in.AuthorEmail = ident.Email
	}

	lesson, err := h.lessons.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, lessonstore.ErrMissingFields) {
			jsonutil.BadRequest(w, "Title and Description are required")
			return
		}
		h.logger.Error("lesson create failed", zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	h.logger.Debug("lesson created",
		zap.String("id", lesson.ID.Hex()),
		zap.String("author_email", lesson.AuthorEmail),
	)

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Lesson created successfully",
		"data":    lesson,
	})
}

// PublicList handles GET /publicLesson.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessons.Find(r.Context(), bson.M{"visibility": models.VisibilityPublic})
	if err != nil {
		h.logger.Error("public lesson listing failed", zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	// "resut" (sic) is the legacy key for this listing; existing clients
	// read it, so it stays misspelled on the wire.
	jsonutil.OK(w, map[string]any{"success": true, "resut": lessons})
}

// List handles GET /lessons: admins see every lesson, everyone else sees
// their own. The requester's role comes from a fresh directory read; a
// requester with no directory record is a 404.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	requester, err := h.users.GetByEmail(r.Context(), ident.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "User not found")
			return
		}
		h.logger.Error("requester lookup failed", zap.String("email", ident.Email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	filter := bson.M{"author_email": requester.Email}
	if requester.IsAdmin() {
		filter = bson.M{}
	}

	lessons, err := h.lessons.Find(r.Context(), filter)
	if err != nil {
		h.logger.Error("lesson listing failed", zap.String("email", ident.Email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "lessons": lessons})
}

// GetOne handles GET /lesson/{id}. Public: anyone with a lesson's id may
// read it, whatever its visibility.
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lesson, err := h.lessons.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			jsonutil.NotFound(w, "Lesson not found")
			return
		}
		h.logger.Error("lesson fetch failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "lesson": lesson})
}

// Update handles PUT /lesson/{id}. The target is read first so a missing
// lesson is a 404 before any permission check; authorization needs the
// subject's author anyway.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	lesson, err := h.lessons.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			jsonutil.NotFound(w, "Lesson not found")
			return
		}
		h.logger.Error("lesson fetch failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	allowed, err := h.authz.CanModifyLesson(r.Context(), ident, lesson)
	if err != nil {
		h.logger.Error("authorization check failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}
	if !allowed {
		jsonutil.Forbidden(w, "Forbidden")
		return
	}

	var fields bson.M
	if err := jsonutil.Decode(r, &fields); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	for _, k := range []string{"title", "description", "category"} {
		if v, ok := fields[k].(string); ok {
			fields[k] = htmlsanitize.Text(v)
		}
	}

	updated, err := h.lessons.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			// Deleted between the existence read and the update.
			jsonutil.NotFound(w, "Lesson not found")
			return
		}
		h.logger.Error("lesson update failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Lesson updated",
		"result":  updated,
	})
}

// Delete handles DELETE /lesson/{id} with the same gate as Update.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	lesson, err := h.lessons.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			jsonutil.NotFound(w, "Lesson not found")
			return
		}
		h.logger.Error("lesson fetch failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	allowed, err := h.authz.CanModifyLesson(r.Context(), ident, lesson)
	if err != nil {
		h.logger.Error("authorization check failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}
	if !allowed {
		jsonutil.Forbidden(w, "Forbidden")
		return
	}

	if err := h.lessons.Delete(r.Context(), id); err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			jsonutil.NotFound(w, "Lesson not found")
			return
		}
		h.logger.Error("lesson delete failed", zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Lesson deleted",
		"result":  map[string]any{"deletedCount": 1},
	})
}
