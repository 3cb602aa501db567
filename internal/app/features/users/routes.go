package users

import (
	"github.com/dalemusser/lessonlab/internal/app/system/apicors"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MountRoutes registers the user directory endpoints on the root router.
// The paths are top-level legacy paths, so this mounts route-by-route
// rather than returning a sub-router.
func MountRoutes(r chi.Router, h *Handler, verifier auth.Verifier, logger *zap.Logger) {
	r.Group(func(gr chi.Router) {
		gr.Use(apicors.Middleware())

		gr.Post("/register", h.Register)

		gr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireIdentity(verifier, logger))
			ar.Get("/me", h.Me)
			ar.Put("/update", h.Update)
			ar.Get("/alluser", h.AllUsers)
		})
	})
}
