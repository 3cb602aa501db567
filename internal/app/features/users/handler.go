// Package users provides the user directory endpoints.
//
// Endpoints:
//   - POST /register - register or update a user (public)
//   - GET  /me       - fetch the caller's own record
//   - PUT  /update   - update the caller's profile
//   - GET  /alluser  - list all users (admin only)
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/app/system/authz"
	"github.com/dalemusser/lessonlab/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles user directory requests.
type Handler struct {
	users  *userstore.Store
	authz  *authz.Authorizer
	logger *zap.Logger
}

// NewHandler creates a new users handler.
func NewHandler(users *userstore.Store, az *authz.Authorizer, logger *zap.Logger) *Handler {
	return &Handler{
		users:  users,
		authz:  az,
		logger: logger,
	}
}

// Register handles POST /register.
//
// Registration is an idempotent upsert keyed by email: registering the
// same address twice leaves one record holding the latest fields. The
// payload is applied as-is, so clients may send arbitrary profile fields.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body bson.M
	if err := jsonutil.Decode(r, &body); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	email, _ := body["email"].(string)
	if email == "" {
		jsonutil.BadRequest(w, "Email required")
		return
	}

	res, err := h.users.Upsert(r.Context(), email, body)
	if err != nil {
		if errors.Is(err, userstore.ErrMissingEmail) {
			jsonutil.BadRequest(w, "Email required")
			return
		}
		h.logger.Error("user upsert failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "User registered/updated successfully",
		"data":    res,
	})
}

// Me handles GET /me. A verified identity whose directory record is
// missing gets a 404, not an empty profile: registration and token
// issuance are separate systems and can disagree.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), ident.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "User not found")
			return
		}
		h.logger.Error("user lookup failed", zap.String("email", ident.Email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "user": user})
}

// Update handles PUT /update, applying a partial profile update to the
// caller's own record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		jsonutil.Unauthorized(w, "Unauthorized Access")
		return
	}

	var body bson.M
	if err := jsonutil.Decode(r, &body); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	res, err := h.users.UpdateByEmail(r.Context(), ident.Email, body)
	if err != nil {
		h.logger.Error("profile update failed", zap.String("email", ident.Email), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Profile updated",
		"result":  res,
	})
}

// AllUsers handles GET /alluser. Admin only; the role comes from a fresh
// directory lookup, never from the token.
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
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

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.logger.Error("user listing failed", zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "users": users})
}
