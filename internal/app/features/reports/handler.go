// Package reports provides the moderation report endpoints.
//
// Endpoints:
//   - POST /report/{id} - file a report against a lesson
//   - GET  /reports     - list all reports (admin only)
//
// Reports are append-only and reference lessons weakly: filing against a
// lesson id that no longer resolves is still accepted, so moderators see
// reports even after an author deletes the lesson.
package reports

import (
	"errors"
	"net/http"

	reportstore "github.com/dalemusser/lessonlab/internal/app/store/reports"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/app/system/authz"
	"github.com/dalemusser/lessonlab/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler handles report requests.
type Handler struct {
	reports *reportstore.Store
	authz   *authz.Authorizer
	logger  *zap.Logger
}

// NewHandler creates a new reports handler.
func NewHandler(reports *reportstore.Store, az *authz.Authorizer, logger *zap.Logger) *Handler {
	return &Handler{
		reports: reports,
		authz:   az,
		logger:  logger,
	}
}

// File handles POST /report/{id}.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")

	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	var in struct {
		Reason string `json:"reason"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	rep, err := h.reports.File(r.Context(), lessonID, ident.Email, in.Reason)
	if err != nil {
		if errors.Is(err, reportstore.ErrMissingReason) {
			jsonutil.BadRequest(w, "Reason is required")
			return
		}
		h.logger.Error("report insert failed",
			zap.String("lesson_id", lessonID),
			zap.String("reporter", ident.Email),
			zap.Error(err),
		)
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"success":  true,
		"message":  "Report submitted",
		"reportId": rep.ReportID,
	})
}

// List handles GET /reports, the moderation view. Admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	admin, err := h.authz.IsAdmin(r.Context(), ident)
	if err != nil {
		h.logger.Error("role lookup failed", zap.String("email", ident.Email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}
	if !admin {
		jsonutil.Forbidden(w, "Forbidden (Admin only)")
		return
	}

	reports, err := h.reports.ListAll(r.Context())
	if err != nil {
		h.logger.Error("report listing failed", zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "reports": reports})
}
