package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/adboard/adboard-api/internal/api"
	apiMiddleware "github.com/adboard/adboard-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.Trace(app.logger))

	maxUpload := app.maxUploadBytes()
	authHandler := api.NewAuthHandler(app.userService, app.jwtService, &app.config.Auth, app.logger)
	adHandler := api.NewAdHandler(app.adService, maxUpload, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.logger)
	userHandler := api.NewUserHandler(app.userService, maxUpload, app.logger)

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	healthHandler := api.NewHealthHandler(pinger, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", healthHandler.Health)

	// Credential endpoints, rate limited per client IP and endpoint
	r.Group(func(r chi.Router) {
		if limit := app.config.Server.AuthRateLimit; limit > 0 {
			r.Use(httprate.Limit(
				limit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
	})

	// Public reads
	r.Get("/ads", adHandler.ListAds)
	r.Get("/ads/{id}", adHandler.GetAd)
	r.Get("/ads/{id}/image", adHandler.GetAdImage)
	r.Get("/ads/{id}/comments", commentHandler.ListComments)
	r.Get("/users/{id}/image", userHandler.GetAvatar)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/ads", adHandler.CreateAd)
		r.Get("/ads/me", adHandler.ListMyAds)
		r.Patch("/ads/{id}", adHandler.UpdateAd)
		r.Delete("/ads/{id}", adHandler.DeleteAd)
		r.Patch("/ads/{id}/image", adHandler.UpdateAdImage)

		r.Post("/ads/{id}/comments", commentHandler.AddComment)
		r.Patch("/ads/{id}/comments/{commentID}", commentHandler.UpdateComment)
		r.Delete("/ads/{id}/comments/{commentID}", commentHandler.DeleteComment)

		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Post("/users/set_password", userHandler.SetPassword)
		r.Patch("/users/me/image", userHandler.UpdateAvatar)
	})

	return r
}
