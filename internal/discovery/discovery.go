// Package discovery finds a game that currently has player-prop markets, so
// users can tell whether their key and region window can see props at all.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/albapepper/scoracle-props/internal/games"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/pool"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

const (
	maxEventsPerWindow = 40
	notFoundNote       = "No player_* markets found in preseason or Week 1 yet for your key/region window."
)

// OddsSource is the subset of the odds client discovery needs.
type OddsSource interface {
	Events(ctx context.Context, sport string) ([]oddsapi.EventSummary, error)
	EventMarkets(ctx context.Context, sport, eventID, regions string) ([]string, error)
}

// Event identifies the game props were found for.
type Event struct {
	ID      string    `json:"id"`
	Kickoff time.Time `json:"kickoff"`
	Away    string    `json:"away"`
	Home    string    `json:"home"`
}

// Result is the first event with player markets, if any.
type Result struct {
	Found      bool     `json:"found"`
	Mode       string   `json:"mode,omitempty"`
	SportKey   string   `json:"sportKey,omitempty"`
	Event      *Event   `json:"event,omitempty"`
	MarketKeys []string `json:"marketKeys,omitempty"`
	Note       string   `json:"note,omitempty"`
}

// Finder probes events for player markets.
type Finder struct {
	odds    OddsSource
	season  games.Season
	regions string
	workers int
	now     func() time.Time
	logger  *slog.Logger
}

func NewFinder(odds OddsSource, season games.Season, regions string, workers int, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	if regions == "" {
		regions = oddsapi.DefaultRegions
	}
	return &Finder{odds: odds, season: season, regions: regions, workers: workers, now: time.Now, logger: logger}
}

type attempt struct {
	label  string
	sport  string
	window games.Window
}

// Find scans the preseason window, then week 1. Within a window events are
// probed in kickoff order, in concurrent batches; the earliest event with any
// player_ market wins regardless of which probe finished first.
func (f *Finder) Find(ctx context.Context) (*Result, error) {
	now := f.now().UTC()
	attempts := []attempt{
		{label: "preseason", sport: oddsapi.SportNFLPreseason, window: f.season.PreseasonWindow(now)},
		{label: "week1", sport: oddsapi.SportNFL, window: f.season.Week1Window()},
	}

	for _, a := range attempts {
		evs, err := f.odds.Events(ctx, a.sport)
		if err != nil {
			if errors.Is(err, oddsapi.ErrMissingAPIKey) {
				return nil, err
			}
			f.logger.Warn("Event list failed", "sport", a.sport, "error", err)
			continue
		}

		candidates := games.InWindow(evs, a.window)
		if len(candidates) > maxEventsPerWindow {
			candidates = candidates[:maxEventsPerWindow]
		}

		for _, b := range pool.Batches(len(candidates), f.workers) {
			batch := candidates[b[0]:b[1]]
			keys, _ := pool.Map(ctx, batch, f.workers, func(ctx context.Context, e oddsapi.EventSummary) []string {
				return f.playerMarkets(ctx, a.sport, e.ID)
			})
			for i, k := range keys {
				if len(k) == 0 {
					continue
				}
				e := batch[i]
				f.logger.Info("Found player markets", "sport", a.sport, "event_id", e.ID, "markets", len(k))
				return &Result{
					Found:    true,
					Mode:     a.label,
					SportKey: a.sport,
					Event: &Event{
						ID:      e.ID,
						Kickoff: e.CommenceTime,
						Away:    e.AwayTeam,
						Home:    e.HomeTeam,
					},
					MarketKeys: k,
				}, nil
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return &Result{Found: false, Note: notFoundNote}, nil
}

// playerMarkets returns the sorted player_ market keys for one event. Probe
// failures count as no markets.
func (f *Finder) playerMarkets(ctx context.Context, sport, eventID string) []string {
	keys, err := f.odds.EventMarkets(ctx, sport, eventID, f.regions)
	if err != nil {
		f.logger.Debug("Market probe failed", "event_id", eventID, "error", err)
		return nil
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, market.PlayerMarketKeyPrefix) {
			out = append(out, k)
		}
	}
	return out
}
