package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public site endpoints and the authenticated admin
// panel endpoints.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public content endpoints feeding the site pages
		r.Get("/api/projects", handlers.contentHandler.getProjects())
		r.Get("/api/experiences", handlers.contentHandler.getExperiences())
		r.Get("/api/skills", handlers.contentHandler.getSkills())
		r.Get("/api/settings", handlers.contentHandler.getSettings())

		// Visitor chat widget
		r.Post("/api/chat", handlers.chatHandler.chat())

		r.Route("/api/admin", func(r chi.Router) {
			r.Post("/auth", handlers.authHandler.login())

			// Everything else behind the session token
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)

				r.Post("/upload", handlers.uploadHandler.upload())

				r.Get("/{table}", handlers.adminHandler.list())
				r.Post("/{table}", handlers.adminHandler.create())
				r.Put("/{table}", handlers.adminHandler.update())
				r.Delete("/{table}", handlers.adminHandler.remove())
			})
		})
	})
}
