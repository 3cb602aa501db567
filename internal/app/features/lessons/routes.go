package lessons

import (
	"github.com/dalemusser/lessonlab/internal/app/system/apicors"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MountRoutes registers the lesson endpoints on the root router.
//
// Read-one and the public listing are fully anonymous; creation runs the
// optional-identity middleware so authenticated creates get their author
// stamped server-side; mutation routes require a verified identity.
func MountRoutes(r chi.Router, h *Handler, verifier auth.Verifier, logger *zap.Logger) {
	r.Group(func(gr chi.Router) {
		gr.Use(apicors.Middleware())

		gr.With(auth.OptionalIdentity(verifier, logger)).Post("/addlesson", h.Add)
		gr.Get("/publicLesson", h.PublicList)
		gr.Get("/lesson/{id}", h.GetOne)

		gr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireIdentity(verifier, logger))
			ar.Get("/lessons", h.List)
			ar.Put("/lesson/{id}", h.Update)
			ar.Delete("/lesson/{id}", h.Delete)
		})
	})
}
