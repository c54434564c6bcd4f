package oddsapi

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/albapepper/scoracle-props/internal/aggregate"
)

// EventSummary is one scheduled game without odds.
type EventSummary struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// EventOddsRequest selects one event's odds.
type EventOddsRequest struct {
	Sport   string
	EventID string
	Regions string
	Markets []string
}

func oddsParams(regions string, markets []string) url.Values {
	if regions == "" {
		regions = DefaultRegions
	}
	return url.Values{
		"regions":    {regions},
		"markets":    {strings.Join(markets, ",")},
		"oddsFormat": {"american"},
		"dateFormat": {"iso"},
	}
}

// EventOddsPath is the path of one event's odds.
func EventOddsPath(sport, eventID string) string {
	return "/sports/" + url.PathEscape(sport) + "/events/" + url.PathEscape(eventID) + "/odds"
}

// EventOddsParams are the query parameters of an EventOdds request.
func EventOddsParams(r EventOddsRequest) url.Values {
	return oddsParams(r.Regions, r.Markets)
}

// EventOdds fetches odds for one event.
// GET /sports/{sport}/events/{eventId}/odds
func (c *Client) EventOdds(ctx context.Context, r EventOddsRequest) (aggregate.Event, error) {
	var ev aggregate.Event
	err := c.getJSON(ctx, EventOddsPath(r.Sport, r.EventID), EventOddsParams(r), &ev)
	return ev, err
}

// SportOdds fetches odds for every upcoming event of a sport.
// GET /sports/{sport}/odds
func (c *Client) SportOdds(ctx context.Context, sport, regions string, markets []string) ([]aggregate.Event, error) {
	var evs []aggregate.Event
	err := c.getJSON(ctx, "/sports/"+url.PathEscape(sport)+"/odds", oddsParams(regions, markets), &evs)
	return evs, err
}

// Events lists scheduled events. This endpoint does not cost credits.
// GET /sports/{sport}/events
func (c *Client) Events(ctx context.Context, sport string) ([]EventSummary, error) {
	var evs []EventSummary
	err := c.getJSON(ctx, "/sports/"+url.PathEscape(sport)+"/events", url.Values{"dateFormat": {"iso"}}, &evs)
	return evs, err
}

// EventMarkets returns the sorted, unique market keys any bookmaker offers
// for one event.
// GET /sports/{sport}/events/{eventId}/markets
func (c *Client) EventMarkets(ctx context.Context, sport, eventID, regions string) ([]string, error) {
	if regions == "" {
		regions = DefaultRegions
	}
	var resp struct {
		Bookmakers []struct {
			Markets []struct {
				Key string `json:"key"`
			} `json:"markets"`
		} `json:"bookmakers"`
	}
	path := "/sports/" + url.PathEscape(sport) + "/events/" + url.PathEscape(eventID) + "/markets"
	if err := c.getJSON(ctx, path, url.Values{"regions": {regions}}, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	keys := []string{}
	for _, b := range resp.Bookmakers {
		for _, m := range b.Markets {
			if m.Key != "" && !seen[m.Key] {
				seen[m.Key] = true
				keys = append(keys, m.Key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}
