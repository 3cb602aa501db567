package social

import (
	"github.com/dalemusser/lessonlab/internal/app/system/apicors"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MountRoutes registers the toggle endpoints on the root router.
// Both require a verified identity: the membership sets hold emails.
func MountRoutes(r chi.Router, h *Handler, verifier auth.Verifier, logger *zap.Logger) {
	r.Group(func(gr chi.Router) {
		gr.Use(apicors.Middleware())
		gr.Use(auth.RequireIdentity(verifier, logger))

		gr.Put("/like/{id}", h.Like)
		gr.Put("/save/{id}", h.Save)
	})
}
