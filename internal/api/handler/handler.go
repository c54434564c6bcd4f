// Package handler provides HTTP handlers for all API endpoints.
// Handlers parse requests, call a domain service, and write JSON; scoring
// and provider access live in the services.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-props/internal/api/respond"
	"github.com/albapepper/scoracle-props/internal/cache"
	"github.com/albapepper/scoracle-props/internal/discovery"
	"github.com/albapepper/scoracle-props/internal/games"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/matchup"
	"github.com/albapepper/scoracle-props/internal/props"
	"github.com/albapepper/scoracle-props/internal/waitlist"
)

// PropsService ranks one game's player props.
type PropsService interface {
	Players(ctx context.Context, req props.Request) (*props.Response, error)
}

// GamesService lists games.
type GamesService interface {
	List(ctx context.Context, mode string) (*games.Listing, error)
	FirstEvent(ctx context.Context) (*games.First, error)
}

// PropFinder locates a game with player markets.
type PropFinder interface {
	Find(ctx context.Context) (*discovery.Result, error)
}

// HealthChecker verifies a backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the services the handlers call. DB may be nil when no database
// is configured.
type Deps struct {
	Props      PropsService
	Games      GamesService
	Finder     PropFinder
	RawOdds    props.RawOdds
	Classifier *market.Classifier
	Blender    *matchup.Blender
	Waitlist   *waitlist.Waitlist
	Cache      cache.Store
	DB         HealthChecker
}

// Settings are the request-independent knobs handlers need.
type Settings struct {
	HasOddsKey bool
	OddsTTL    time.Duration
	Version    string
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	Deps
	settings Settings
}

// New creates a Handler with shared dependencies.
func New(deps Deps, settings Settings) *Handler {
	if settings.OddsTTL <= 0 {
		settings.OddsTTL = cache.TTLOdds
	}
	if settings.Version == "" {
		settings.Version = "1.0.0"
	}
	return &Handler{Deps: deps, settings: settings}
}

// requireKey writes the missing-key error and reports false when no odds API
// key is configured.
func (h *Handler) requireKey(w http.ResponseWriter) bool {
	if h.settings.HasOddsKey {
		return true
	}
	respond.WriteError(w, http.StatusInternalServerError, "NO_API_KEY", "No ODDS_API_KEY set")
	return false
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Scoracle Props API",
		"version": h.settings.Version,
		"status":  "running",
		"docs":    "/docs",
		"features": []string{
			"multi_book_prop_scoring",
			"matchup_blender",
			"odds_response_cache",
			"etag_support",
			"gzip_compression",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"odds_key":  h.settings.HasOddsKey,
		"waitlist":  h.waitlistBackend(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) waitlistBackend() string {
	if h.Waitlist == nil {
		return "none"
	}
	return h.Waitlist.Backend()
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports "disabled" when no database is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]any{
			"status":    "disabled",
			"database":  "not configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns odds response cache statistics for the active backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{"enabled": false}
	if h.Cache != nil {
		stats = h.Cache.Stats(r.Context())
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     stats,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
