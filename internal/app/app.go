// Package app wires configuration into the services shared by cmd/api and
// cmd/props.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/albapepper/scoracle-props/internal/aggregate"
	"github.com/albapepper/scoracle-props/internal/api/handler"
	"github.com/albapepper/scoracle-props/internal/cache"
	"github.com/albapepper/scoracle-props/internal/config"
	"github.com/albapepper/scoracle-props/internal/db"
	"github.com/albapepper/scoracle-props/internal/discovery"
	"github.com/albapepper/scoracle-props/internal/games"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/matchup"
	"github.com/albapepper/scoracle-props/internal/props"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
	"github.com/albapepper/scoracle-props/internal/waitlist"
)

// App holds every wired service. Pool is nil when DATABASE_URL is unset.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cache      cache.Store
	Odds       *oddsapi.Client
	Classifier *market.Classifier
	Props      *props.Service
	Games      *games.Service
	Finder     *discovery.Finder
	Blender    *matchup.Blender
	Waitlist   *waitlist.Waitlist
	Pool       *db.Pool

	closers []io.Closer
}

// Options control which optional backends Build connects to.
type Options struct {
	// Database connects to Postgres when DATABASE_URL is set.
	Database bool
}

// Build constructs the services from cfg. Optional backends that fail to
// connect are logged and replaced by their in-process fallbacks.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	table := market.DefaultTable()
	if cfg.MarketsFile != "" {
		t, err := market.LoadTable(cfg.MarketsFile)
		if err != nil {
			return nil, fmt.Errorf("load markets: %w", err)
		}
		table = t
		logger.Info("Market table loaded", "file", cfg.MarketsFile)
	}
	a.Classifier = market.NewClassifier(table)

	blender, err := matchup.NewBlender(matchup.DefaultYardCaps())
	if err != nil {
		return nil, fmt.Errorf("matchup blender: %w", err)
	}
	a.Blender = blender

	a.Cache = a.buildCache(ctx)

	a.Odds = oddsapi.NewClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsAPIRequestsPerMinute, logger,
		oddsapi.WithCache(a.Cache, cfg.OddsCacheTTL))
	if !a.Odds.HasKey() {
		logger.Warn("ODDS_API_KEY not set; odds endpoints will fail")
	}

	season := games.Season{Week1Start: cfg.Week1Start, Week1End: cfg.Week1End}
	a.Props = props.NewService(a.Odds, aggregate.New(a.Classifier), props.Options{
		DefaultRegions: cfg.OddsDefaultRegions,
		ProGate:        cfg.ProGateEnabled,
	}, logger)
	a.Games = games.NewService(a.Odds, season, logger)
	a.Finder = discovery.NewFinder(a.Odds, season, cfg.OddsDefaultRegions, cfg.DiscoveryWorkers, logger)

	a.Waitlist = waitlist.New(a.buildWaitlistStore(ctx, opts))
	logger.Info("Waitlist ready", "backend", a.Waitlist.Backend())

	return a, nil
}

func (a *App) buildCache(ctx context.Context) cache.Store {
	cfg := a.Config
	if cfg.CacheEnabled && cfg.RedisURL != "" {
		rc, err := cache.DialRedis(ctx, cfg.RedisURL, a.Logger)
		if err == nil {
			a.closers = append(a.closers, rc)
			a.Logger.Info("Cache initialized", "backend", "redis")
			return rc
		}
		a.Logger.Warn("Redis unavailable, using in-memory cache", "error", err)
	}
	mc := cache.New(cfg.CacheEnabled)
	a.closers = append(a.closers, mc)
	a.Logger.Info("Cache initialized", "backend", "memory", "enabled", cfg.CacheEnabled)
	return mc
}

func (a *App) buildWaitlistStore(ctx context.Context, opts Options) waitlist.Store {
	cfg := a.Config
	if opts.Database && cfg.DatabaseURL != "" {
		pool, err := db.New(ctx, cfg)
		if err == nil {
			a.Pool = pool
			a.Logger.Info("Database connected",
				"min_conns", cfg.DBPoolMinConns,
				"max_conns", cfg.DBPoolMaxConns)
			return waitlist.NewPGStore(pool)
		}
		a.Logger.Error("Failed to connect to database, waitlist falls back to CSV", "error", err)
	}
	return waitlist.NewCSVStore(cfg.WaitlistCSV)
}

// HandlerDeps adapts the App to the HTTP layer.
func (a *App) HandlerDeps() (handler.Deps, handler.Settings) {
	deps := handler.Deps{
		Props:      a.Props,
		Games:      a.Games,
		Finder:     a.Finder,
		RawOdds:    a.Odds,
		Classifier: a.Classifier,
		Blender:    a.Blender,
		Waitlist:   a.Waitlist,
		Cache:      a.Cache,
	}
	if a.Pool != nil {
		deps.DB = a.Pool
	}
	return deps, handler.Settings{
		HasOddsKey: a.Odds.HasKey(),
		OddsTTL:    a.Config.OddsCacheTTL,
	}
}

// Close releases the cache and database pool.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("Close failed", "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
