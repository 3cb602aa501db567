// Package social provides the like/save toggle endpoints.
//
// Endpoints:
//   - PUT /like/{id} - toggle the caller's like on a lesson
//   - PUT /save/{id} - toggle the caller's save on a lesson
//
// A toggle is a single atomic set flip plus counter delta in the lesson
// store; this package only maps identities and errors onto the wire.
package social

import (
	"errors"
	"net/http"

	lessonstore "github.com/dalemusser/lessonlab/internal/app/store/lessons"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler handles social toggle requests.
type Handler struct {
	lessons *lessonstore.Store
	logger  *zap.Logger
}

// NewHandler creates a new social handler.
func NewHandler(lessons *lessonstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		lessons: lessons,
		logger:  logger,
	}
}

// Like handles PUT /like/{id}.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	lesson, liked, err := h.lessons.ToggleLike(r.Context(), id, ident.Email)
	if err != nil {
		h.writeToggleError(w, "like", id, ident.Email, err)
		return
	}

	message := "Lesson liked"
	if !liked {
		message = "Like removed"
	}

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": message,
		"lesson":  lesson,
		"likes":   liked,
	})
}

// Save handles PUT /save/{id}. Saving also refreshes the lesson's
// updated_at (stamped inside the store's atomic update).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	lesson, saved, err := h.lessons.ToggleSave(r.Context(), id, ident.Email)
	if err != nil {
		h.writeToggleError(w, "save", id, ident.Email, err)
		return
	}

	message := "Lesson saved"
	if !saved {
		message = "Save removed"
	}

	jsonutil.OK(w, map[string]any{
		"success":   true,
		"message":   message,
		"lesson":    lesson,
		"isSaved":   saved,
		"saveCount": lesson.SaveCount,
	})
}

func (h *Handler) writeToggleError(w http.ResponseWriter, action, id, email string, err error) {
	if errors.Is(err, lessonstore.ErrNotFound) {
		jsonutil.NotFound(w, "Lesson not found")
		return
	}
	h.logger.Error("toggle failed",
		zap.String("action", action),
		zap.String("id", id),
		zap.String("email", email),
		zap.Error(err),
	)
	jsonutil.InternalError(w, err.Error())
}
