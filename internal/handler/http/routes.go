package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version/", h.getServerVersion)
		r.Get("/ping", h.ping)
	})

	// key material, scoped by the token subject
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/e2ee/status", h.getStatus)
		r.Get("/api/e2ee/material", h.getKeyMaterial)
		r.Get("/api/e2ee/recovery", h.getRecoveryEscrow)
		r.Delete("/api/e2ee/methods/{method}", h.deleteWrappedKey)

		r.Group(func(r chi.Router) {
			r.Use(h.checkSignature)

			r.Post("/api/e2ee/material", h.initAccount)
			r.Put("/api/e2ee/material", h.updateAccount)
			r.Put("/api/e2ee/methods/{method}", h.putWrappedKey)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
