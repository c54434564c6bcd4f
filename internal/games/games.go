// Package games lists upcoming NFL games with spread, total and implied
// team points.
package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/albapepper/scoracle-props/internal/aggregate"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/pool"
	"github.com/albapepper/scoracle-props/internal/provider"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
	"github.com/albapepper/scoracle-props/internal/reconcile"
)

const (
	// maxEnriched caps per-event odds calls in the fallback path.
	maxEnriched   = 20
	enrichWorkers = 5
	maxExamples   = 10
	sourceOdds    = "odds"
	sourceEvents  = "events"
	sourceNone    = "none"
)

// ErrNoGames is returned by FirstEvent when nothing is scheduled.
var ErrNoGames = errors.New("no games found")

// OddsSource is the subset of the odds client the games service needs.
type OddsSource interface {
	SportOdds(ctx context.Context, sport, regions string, markets []string) ([]aggregate.Event, error)
	Events(ctx context.Context, sport string) ([]oddsapi.EventSummary, error)
	EventOdds(ctx context.Context, r oddsapi.EventOddsRequest) (aggregate.Event, error)
}

type Team struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
}

// Game is one listed game. Odds-derived fields are nil when unavailable.
type Game struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Kickoff     time.Time `json:"kickoff"`
	Home        Team      `json:"home"`
	Away        Team      `json:"away"`
	Spread      *float64  `json:"spread"` // home spread; negative means home favored
	Total       *float64  `json:"total"`
	ImpliedHome *float64  `json:"impliedHome"`
	ImpliedAway *float64  `json:"impliedAway"`
}

// Listing is the games in one window, in kickoff order.
type Listing struct {
	Games  []Game `json:"games"`
	Window Window `json:"window"`
	Source string `json:"source"`
}

// Service builds game listings.
type Service struct {
	odds   OddsSource
	season Season
	now    func() time.Time
	logger *slog.Logger
}

func NewService(odds OddsSource, season Season, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{odds: odds, season: season, now: time.Now, logger: logger}
}

// List returns games in the window for mode. The sport-wide odds feed is
// tried first; if it yields nothing, the event list is enriched one event at
// a time. Upstream failures degrade to fewer games or null odds fields.
func (s *Service) List(ctx context.Context, mode string) (*Listing, error) {
	sport := oddsapi.SportForMode(mode)
	win := s.season.WindowFor(mode, s.now().UTC())

	games, err := s.fromSportOdds(ctx, sport, win)
	if err != nil {
		if errors.Is(err, oddsapi.ErrMissingAPIKey) {
			return nil, err
		}
		s.logger.Warn("Sport odds feed failed, falling back to events", "sport", sport, "error", err)
	}
	if len(games) > 0 {
		return &Listing{Games: games, Window: win, Source: sourceOdds}, nil
	}

	games, err = s.fromEvents(ctx, sport, win)
	if err != nil {
		if errors.Is(err, oddsapi.ErrMissingAPIKey) {
			return nil, err
		}
		s.logger.Warn("Events feed failed", "sport", sport, "error", err)
		return &Listing{Games: []Game{}, Window: win, Source: sourceNone}, nil
	}
	return &Listing{Games: games, Window: win, Source: sourceEvents}, nil
}

func (s *Service) fromSportOdds(ctx context.Context, sport string, win Window) ([]Game, error) {
	evs, err := s.odds.SportOdds(ctx, sport, oddsapi.GameRegions, []string{market.KeySpreads, market.KeyTotals})
	if err != nil {
		return nil, err
	}

	games := []Game{}
	for _, ev := range evs {
		kickoff, err := time.Parse(time.RFC3339, ev.CommenceTime)
		if err != nil || !win.Contains(kickoff) {
			continue
		}
		games = append(games, build(ev.ID, kickoff, ev.HomeTeam, ev.AwayTeam, ev.Bookmakers))
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Kickoff.Before(games[j].Kickoff) })
	return games, nil
}

func (s *Service) fromEvents(ctx context.Context, sport string, win Window) ([]Game, error) {
	evs, err := s.odds.Events(ctx, sport)
	if err != nil {
		return nil, err
	}

	in := InWindow(evs, win)
	if len(in) > maxEnriched {
		in = in[:maxEnriched]
	}

	games, done := pool.Map(ctx, in, enrichWorkers, func(ctx context.Context, e oddsapi.EventSummary) Game {
		ev, err := s.odds.EventOdds(ctx, oddsapi.EventOddsRequest{
			Sport:   sport,
			EventID: e.ID,
			Regions: oddsapi.GameRegions,
			Markets: []string{market.KeySpreads, market.KeyTotals},
		})
		if err != nil {
			s.logger.Debug("Event odds unavailable", "event_id", e.ID, "error", err)
			return build(e.ID, e.CommenceTime, e.HomeTeam, e.AwayTeam, nil)
		}
		return build(e.ID, e.CommenceTime, e.HomeTeam, e.AwayTeam, ev.Bookmakers)
	})
	for i, ok := range done {
		if !ok {
			games[i] = build(in[i].ID, in[i].CommenceTime, in[i].HomeTeam, in[i].AwayTeam, nil)
		}
	}
	return games, ctx.Err()
}

// InWindow filters events to the window, sorted by kickoff.
func InWindow(evs []oddsapi.EventSummary, win Window) []oddsapi.EventSummary {
	out := []oddsapi.EventSummary{}
	for _, e := range evs {
		if win.Contains(e.CommenceTime) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CommenceTime.Before(out[j].CommenceTime) })
	return out
}

func build(id string, kickoff time.Time, home, away string, books []aggregate.Bookmaker) Game {
	g := Game{
		ID:      id,
		EventID: id,
		Kickoff: kickoff.UTC(),
		Home:    Team{Name: home, Abbr: Abbr(home)},
		Away:    Team{Name: away, Abbr: Abbr(away)},
		Total:   aggregate.GameTotal(books),
		Spread:  HomeSpread(books, home, away),
	}
	g.ImpliedHome, g.ImpliedAway = Implied(g.Total, g.Spread)
	return g
}

// HomeSpread returns the home team's spread from the first bookmaker that
// quotes one. A quote for the away side is negated.
func HomeSpread(books []aggregate.Bookmaker, home, away string) *float64 {
	for _, b := range books {
		for _, m := range b.Markets {
			if m.Key != market.KeySpreads {
				continue
			}
			if p, ok := pointFor(m.Outcomes, home); ok {
				return &p
			}
			if p, ok := pointFor(m.Outcomes, away); ok {
				p = -p
				return &p
			}
			break
		}
	}
	return nil
}

func pointFor(outcomes []aggregate.Outcome, team string) (float64, bool) {
	for _, o := range outcomes {
		if o.Name != team {
			continue
		}
		if p, ok := provider.Number(o.Point); ok {
			return p, true
		}
	}
	return 0, false
}

// Implied splits a game total into team points using the home spread.
func Implied(total, homeSpread *float64) (home, away *float64) {
	if total == nil || homeSpread == nil {
		return nil, nil
	}
	h := reconcile.Round1(*total/2 - *homeSpread/2)
	a := reconcile.Round1(*total - h)
	return &h, &a
}

// Example is a short game reference.
type Example struct {
	EventID string    `json:"eventId"`
	Matchup string    `json:"matchup"`
	Kickoff time.Time `json:"kickoff"`
}

// First is the earliest preseason game plus a few more to try.
type First struct {
	FirstEventID string    `json:"firstEventId"`
	Examples     []Example `json:"examples"`
}

// FirstEvent returns the first upcoming preseason game.
func (s *Service) FirstEvent(ctx context.Context) (*First, error) {
	l, err := s.List(ctx, oddsapi.ModePreseason)
	if err != nil {
		return nil, err
	}
	if len(l.Games) == 0 {
		return nil, ErrNoGames
	}

	out := &First{FirstEventID: l.Games[0].EventID, Examples: []Example{}}
	for i, g := range l.Games {
		if i == maxExamples {
			break
		}
		out.Examples = append(out.Examples, Example{
			EventID: g.EventID,
			Matchup: fmt.Sprintf("%s @ %s", g.Away.Abbr, g.Home.Abbr),
			Kickoff: g.Kickoff,
		})
	}
	return out, nil
}
