package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avenside/inkpost-be/internal/api/handlers"
	"github.com/avenside/inkpost-be/internal/auth"
	"github.com/avenside/inkpost-be/internal/services"
	"github.com/avenside/inkpost-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, userService services.UserServiceProvider, postService services.PostServiceProvider, activityService services.ActivityServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	activityHandler := handlers.NewActivityHandler(activityService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/healthz", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/auth/me", userHandler.GetMe)

			// Live activity feed
			r.Get("/ws", wsHandler.Serve)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
				r.Post("/password", userHandler.ChangePassword)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.GetAll)
				r.Post("/", postHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", postHandler.Get)
					r.Put("/", postHandler.Update)
					r.Delete("/", postHandler.Delete)
				})
			})

			r.Get("/activity", activityHandler.GetRecent)
		})
	})

	return r
}
