package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/filedrive/filedrive/internal/api/handler"
	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/auth"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/insight"
	"github.com/filedrive/filedrive/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Prefix         string
	Version        string
	DBPinger       handler.DBPinger
	Tokens         *auth.TokenManager
	UserRepo       user.Repository
	UserService    *user.Service
	FileService    *file.Service
	InsightService *insight.Service
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.Health)
	r.Get("/readiness", healthHandler.Readiness)

	authHandler := handler.NewAuthHandler(deps.UserService, deps.Tokens)
	userHandler := handler.NewUserHandler(deps.UserService, deps.FileService)
	fileHandler := handler.NewFileHandler(deps.FileService, deps.InsightService)
	insightHandler := handler.NewInsightHandler(deps.InsightService, deps.FileService)

	authenticated := middleware.Auth(deps.Tokens, deps.UserRepo)

	r.Route(deps.Prefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/me", userHandler.Me)
			r.With(middleware.RequireAdmin()).Get("/", userHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.RequireSelfOrAdmin())
				r.Get("/", userHandler.GetByID)
				r.Get("/files", userHandler.Files)
				r.Put("/change-password", userHandler.ChangePassword)
				r.Delete("/", userHandler.Delete)
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", fileHandler.Upload)
			r.With(middleware.RequireAdmin()).Get("/", fileHandler.List)
			r.Get("/{id}", fileHandler.GetByID)
			r.Get("/{id}/insights", fileHandler.Insights)
			r.Delete("/{id}", fileHandler.Delete)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", insightHandler.Generate)
			r.Get("/{id}", insightHandler.GetByID)
			r.Delete("/{id}", insightHandler.Delete)
		})
	})

	return r
}
