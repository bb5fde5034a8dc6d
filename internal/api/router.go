package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/girik/portfolio-share-be/internal/api/handlers"
	"github.com/girik/portfolio-share-be/internal/auth"
	"github.com/girik/portfolio-share-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, portfolioService services.PortfolioServiceProvider, jwtSecret []byte, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Recoverer)

	// CORS configuration for the SPA client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, jwtSecret)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	requireAuth := auth.Middleware(jwtSecret)

	// Health check
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "Portfolio Sharing API is running"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/portfolio", func(r chi.Router) {
			// Public endpoints
			r.Get("/all", portfolioHandler.GetAll)
			r.Get("/{id}", portfolioHandler.Get)

			// Owner-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/create", portfolioHandler.Create)
				r.Get("/my-portfolios", portfolioHandler.GetMine)
				r.Put("/{id}", portfolioHandler.Update)
				r.Delete("/{id}", portfolioHandler.Delete)
			})
		})
	})

	return r
}
