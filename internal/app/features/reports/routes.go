package reports

import (
	"github.com/dalemusser/lessonlab/internal/app/system/apicors"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MountRoutes registers the report endpoints on the root router.
func MountRoutes(r chi.Router, h *Handler, verifier auth.Verifier, logger *zap.Logger) {
	r.Group(func(gr chi.Router) {
		gr.Use(apicors.Middleware())
		gr.Use(auth.RequireIdentity(verifier, logger))

		gr.Post("/report/{id}", h.File)
		gr.Get("/reports", h.List)
	})
}
