// Package aggregate turns one event's raw per-bookmaker odds into scored,
// ranked player rows for a single market.
package aggregate

import (
	"errors"
	"sort"
	"strings"

	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/provider"
	"github.com/albapepper/scoracle-props/internal/reconcile"
	"github.com/albapepper/scoracle-props/internal/scoring"
)

// ----------------------------------------------------------------------------
// Raw provider shapes
// ----------------------------------------------------------------------------

// Event is one game's odds as returned by the provider. Fields the provider
// sometimes omits are optional; numeric fields are decoded loosely and only
// finite JSON numbers are used.
type Event struct {
	ID           string      `json:"id,omitempty"`
	SportKey     string      `json:"sport_key,omitempty"`
	CommenceTime string      `json:"commence_time,omitempty"`
	HomeTeam     string      `json:"home_team,omitempty"`
	AwayTeam     string      `json:"away_team,omitempty"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string   `json:"key,omitempty"`
	Title   string   `json:"title,omitempty"`
	Markets []Market `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

type Outcome struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Price       any    `json:"price,omitempty"`
	Point       any    `json:"point,omitempty"`
	Line        any    `json:"line,omitempty"`
	Handicap    any    `json:"handicap,omitempty"`
}

// ----------------------------------------------------------------------------
// Normalization
// ----------------------------------------------------------------------------

// BookName is the display name of a bookmaker.
func BookName(b Bookmaker) string {
	switch {
	case b.Title != "":
		return b.Title
	case b.Key != "":
		return b.Key
	default:
		return "book"
	}
}

// Normalize converts one raw outcome into a canonical quote. It reports
// false when the outcome names no player.
func Normalize(book string, o Outcome) (reconcile.Quote, bool) {
	player := strings.TrimSpace(o.Description)
	if player == "" {
		player = strings.TrimSpace(o.Name)
	}
	if player == "" {
		return reconcile.Quote{}, false
	}

	q := reconcile.Quote{Book: book, Player: player}
	for _, v := range []any{o.Point, o.Line, o.Handicap} {
		if f, ok := provider.Number(v); ok {
			q.Line = &f
			break
		}
	}
	if p, ok := provider.Integer(o.Price); ok && p != 0 {
		q.Price = &p
	}
	return q, true
}

// GameTotal returns the first numeric point found in any bookmaker's totals
// market, scanning bookmakers and outcomes in order.
func GameTotal(books []Bookmaker) *float64 {
	for _, b := range books {
		for _, m := range b.Markets {
			if m.Key != market.KeyTotals {
				continue
			}
			for _, o := range m.Outcomes {
				if f, ok := provider.Number(o.Point); ok {
					return &f
				}
			}
		}
	}
	return nil
}

// FilterBooks keeps bookmakers whose key or title matches one of books,
// case-insensitively. An empty filter keeps everything.
func FilterBooks(ev Event, books []string) Event {
	want := make(map[string]bool, len(books))
	for _, b := range books {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			want[b] = true
		}
	}
	if len(want) == 0 {
		return ev
	}

	out := ev
	out.Bookmakers = nil
	for _, b := range ev.Bookmakers {
		if want[strings.ToLower(b.Key)] || want[strings.ToLower(b.Title)] {
			out.Bookmakers = append(out.Bookmakers, b)
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Aggregation
// ----------------------------------------------------------------------------

// Result is the ranked output for one event and market.
type Result struct {
	Market    market.Classification
	Rows      []scoring.Row
	GameTotal *float64
	Skipped   int // players with no usable value
}

// Aggregator groups, scores and ranks quotes. It holds no per-call state.
type Aggregator struct {
	scorer *scoring.Scorer
}

func New(classifier *market.Classifier) *Aggregator {
	return &Aggregator{scorer: scoring.NewScorer(classifier)}
}

// Aggregate scores every player quoted in marketKey. Players keep the order
// they were first seen in, and ties in score keep that order after sorting.
// Players with no usable value are skipped; malformed fields never fail the
// call.
func (a *Aggregator) Aggregate(ev Event, marketKey string) (Result, error) {
	class := a.scorer.Classify(marketKey)
	res := Result{Market: class, Rows: []scoring.Row{}, GameTotal: GameTotal(ev.Bookmakers)}

	var order []string
	byPlayer := make(map[string][]reconcile.Quote)
	for _, b := range ev.Bookmakers {
		book := BookName(b)
		for _, m := range b.Markets {
			if m.Key != marketKey {
				continue
			}
			for _, o := range m.Outcomes {
				q, ok := Normalize(book, o)
				if !ok {
					continue
				}
				if _, seen := byPlayer[q.Player]; !seen {
					order = append(order, q.Player)
				}
				byPlayer[q.Player] = append(byPlayer[q.Player], q)
			}
		}
	}

	for _, player := range order {
		row, err := scoring.Score(player, class, byPlayer[player], res.GameTotal)
		if errors.Is(err, scoring.ErrNoUsableValue) {
			res.Skipped++
			continue
		}
		if err != nil {
			return Result{}, err
		}
		res.Rows = append(res.Rows, row)
	}

	sort.SliceStable(res.Rows, func(i, j int) bool {
		return res.Rows[i].Score > res.Rows[j].Score
	})
	return res, nil
}
