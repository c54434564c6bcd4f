// Package maintenance runs periodic background tasks as Go tickers.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-props/internal/discovery"
	"github.com/albapepper/scoracle-props/internal/games"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

// Config controls task intervals. Zero duration disables a task.
type Config struct {
	WarmGamesInterval     time.Duration // re-list games so the odds cache stays warm
	WarmDiscoveryInterval time.Duration // re-run player market discovery
}

// GamesLister is the games service subset the warmer calls.
type GamesLister interface {
	List(ctx context.Context, mode string) (*games.Listing, error)
}

// PropFinder is the discovery subset the warmer calls.
type PropFinder interface {
	Find(ctx context.Context) (*discovery.Result, error)
}

// Start launches all configured tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, g GamesLister, f PropFinder, cfg Config, logger *slog.Logger) {
	if cfg.WarmGamesInterval <= 0 && cfg.WarmDiscoveryInterval <= 0 {
		return
	}
	logger.Info("Maintenance tickers started",
		"warm_games", cfg.WarmGamesInterval,
		"warm_discovery", cfg.WarmDiscoveryInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.WarmGamesInterval > 0 {
		t := time.NewTicker(cfg.WarmGamesInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { warmGames(ctx, g, logger) })
	}

	if cfg.WarmDiscoveryInterval > 0 {
		t := time.NewTicker(cfg.WarmDiscoveryInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { warmDiscovery(ctx, f, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// warmGames lists both schedules so user requests hit cached odds.
func warmGames(ctx context.Context, g GamesLister, logger *slog.Logger) {
	for _, mode := range []string{"", oddsapi.ModePreseason} {
		l, err := g.List(ctx, mode)
		if err != nil {
			logger.Warn("Warm games failed", "mode", mode, "error", err)
			continue
		}
		logger.Debug("Warmed games", "mode", l.Window.Mode, "source", l.Source, "games", len(l.Games))
	}
}

func warmDiscovery(ctx context.Context, f PropFinder, logger *slog.Logger) {
	res, err := f.Find(ctx)
	if err != nil {
		logger.Warn("Warm discovery failed", "error", err)
		return
	}
	logger.Debug("Warmed discovery", "found", res.Found, "markets", len(res.MarketKeys))
}
