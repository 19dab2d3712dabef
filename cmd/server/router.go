package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/slidesmith/slidesmith-api/internal/api"
	apiMiddleware "github.com/slidesmith/slidesmith-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	generateHandler := api.NewGenerateHandler(app.generator, app.infographer)
	sowHandler := api.NewSowHandler(app.sowStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/generate-presentation", generateHandler.GeneratePresentation)
			r.Post("/generate-infograph", generateHandler.GenerateInfograph)

			r.Post("/sows", sowHandler.Create)
			r.Get("/sows", sowHandler.List)
			r.Get("/sows/{id}", sowHandler.Get)
			r.Patch("/sows/{id}", sowHandler.Update)
			r.Delete("/sows/{id}", sowHandler.Delete)
		})
	})

	// Generated infographic images
	fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(app.fileStore.Dir())))
	r.Get("/public/*", fileServer.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
