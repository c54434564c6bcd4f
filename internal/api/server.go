package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/scoracle-props/internal/api/handler"
	"github.com/albapepper/scoracle-props/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps handler.Deps, settings handler.Settings, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(deps, settings)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		// Props
		r.Get("/players", h.GetPlayers)
		r.Get("/markets/{key}", h.GetMarket)
		r.Get("/odds-debug", h.GetOddsDebug)

		// Games
		r.Get("/games", h.GetGames)
		r.Get("/first-event", h.GetFirstEvent)
		r.Get("/find-props", h.GetFindProps)

		// Matchup
		r.Post("/matchup", h.PostMatchup)

		// Waitlist
		r.Post("/subscribe", h.PostSubscribe)
	})

	return r
}
