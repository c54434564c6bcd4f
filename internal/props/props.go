// Package props serves scored player-prop rankings for one game.
package props

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/albapepper/scoracle-props/internal/aggregate"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
	"github.com/albapepper/scoracle-props/internal/reconcile"
	"github.com/albapepper/scoracle-props/internal/scoring"
)

// ErrMissingEventID is returned when a request names no event.
var ErrMissingEventID = errors.New("missing eventId")

// Pro-gate reasons.
const (
	ReasonOutOfCredits  = "OUT_OF_USAGE_CREDITS"
	ReasonNotAuthorized = "NOT_AUTHORIZED_FOR_PLAYER_MARKETS"
)

const noOutcomesNote = "No outcomes found for this game/market."

// OddsSource is the subset of the odds client the service needs.
type OddsSource interface {
	EventOdds(ctx context.Context, r oddsapi.EventOddsRequest) (aggregate.Event, error)
}

// Request selects one game and market.
type Request struct {
	Mode    string // "" or "preseason"
	EventID string
	Market  string
	Regions string
	Books   []string
}

// Response is the ranked player list, or the Pro gate when the provider
// refused the request.
type Response struct {
	EventID        string        `json:"eventId"`
	Market         *string       `json:"market"`
	PropsAvailable bool          `json:"propsAvailable"`
	Players        []scoring.Row `json:"players"`
	GameTotal      *float64      `json:"gameTotal,omitempty"`
	Note           string        `json:"note,omitempty"`
	ProRequired    bool          `json:"proRequired,omitempty"`
	Reason         string        `json:"reason,omitempty"`
}

// Service aggregates one event's odds into ranked rows.
type Service struct {
	odds           OddsSource
	aggregator     *aggregate.Aggregator
	defaultRegions string
	proGate        bool
	logger         *slog.Logger
}

// Options configures a Service.
type Options struct {
	DefaultRegions string
	ProGate        bool
}

func NewService(odds OddsSource, aggregator *aggregate.Aggregator, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultRegions == "" {
		opts.DefaultRegions = oddsapi.DefaultRegions
	}
	return &Service{
		odds:           odds,
		aggregator:     aggregator,
		defaultRegions: opts.DefaultRegions,
		proGate:        opts.ProGate,
		logger:         logger,
	}
}

// Players fetches the requested market plus totals for game context, filters
// books, and ranks players. With the Pro gate enabled, provider rejections
// produce a gated response with a sample row instead of an error.
func (s *Service) Players(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.EventID) == "" {
		return nil, ErrMissingEventID
	}
	key := req.Market
	if key == "" {
		key = market.DefaultRequestedMarket
	}
	regions := req.Regions
	if regions == "" {
		regions = s.defaultRegions
	}

	ev, err := s.odds.EventOdds(ctx, oddsapi.EventOddsRequest{
		Sport:   oddsapi.SportForMode(req.Mode),
		EventID: req.EventID,
		Regions: regions,
		Markets: []string{key, market.KeyTotals},
	})
	if err != nil {
		var apiErr *oddsapi.APIError
		if s.proGate && errors.As(err, &apiErr) {
			s.logger.Warn("Odds provider refused props request",
				"event_id", req.EventID, "market", key, "status", apiErr.Status, "code", apiErr.Code)
			return gated(req, key, apiErr), nil
		}
		return nil, fmt.Errorf("fetch odds for event %s: %w", req.EventID, err)
	}

	ev = aggregate.FilterBooks(ev, req.Books)
	res, err := s.aggregator.Aggregate(ev, key)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", key, err)
	}

	s.logger.Debug("Scored props",
		"event_id", req.EventID, "market", key,
		"books", len(ev.Bookmakers), "players", len(res.Rows), "skipped", res.Skipped)

	resp := &Response{
		EventID:        req.EventID,
		Market:         &key,
		PropsAvailable: len(res.Rows) > 0,
		Players:        res.Rows,
		GameTotal:      res.GameTotal,
	}
	if len(res.Rows) == 0 {
		resp.Note = noOutcomesNote
	}
	return resp, nil
}

// Reason maps a provider rejection to a Pro-gate reason.
func Reason(e *oddsapi.APIError) string {
	switch e.Code {
	case ReasonOutOfCredits, ReasonNotAuthorized:
		return e.Code
	default:
		return fmt.Sprintf("HTTP_%d", e.Status)
	}
}

func gateNote(reason string) string {
	switch reason {
	case ReasonOutOfCredits:
		return "We hit the free usage limit. Upgrade to Pro for live player props."
	case ReasonNotAuthorized:
		return "This key does not include player prop markets. Upgrade to Pro to unlock."
	default:
		return "Live props are temporarily unavailable."
	}
}

func gated(req Request, key string, apiErr *oddsapi.APIError) *Response {
	reason := Reason(apiErr)
	return &Response{
		EventID:        req.EventID,
		Market:         &key,
		PropsAvailable: false,
		Players:        []scoring.Row{SampleRow(key)},
		Note:           gateNote(reason),
		ProRequired:    true,
		Reason:         reason,
	}
}

// SampleRow is the placeholder shown behind the Pro gate.
func SampleRow(key string) scoring.Row {
	const book = "—"
	avg, best := -105, -102
	total := 49.5
	bookName := book
	return scoring.Row{
		Player:       "Sample Player",
		Market:       key,
		ValueType:    market.RegimePrice,
		BestBook:     &bookName,
		AvgPrice:     &avg,
		BestPrice:    &best,
		Score:        51,
		TotalContext: &total,
		Sources:      []reconcile.Quote{{Book: book, Player: "Sample Player", Price: &best}},
		Explain: scoring.PriceExplain{
			Kind:         market.RegimePrice,
			Formula:      scoring.PriceFormula,
			AvgPrice:     avg,
			AvgPriceRaw:  float64(avg),
			ImpliedProb:  51.2,
			BaseScore:    51,
			BestPrice:    &best,
			BestBook:     &bookName,
			TotalContext: &total,
		},
	}
}

// ----------------------------------------------------------------------------
// Debug
// ----------------------------------------------------------------------------

// RawOdds is the subset of the odds client used by Debug.
type RawOdds interface {
	Do(ctx context.Context, path string, params url.Values) (*oddsapi.RawResponse, error)
	URL(path string, params url.Values, withKey bool) string
	KeySuffix() string
}

// DebugRequest selects one event's raw odds.
type DebugRequest struct {
	Mode    string
	EventID string
	Regions string
	Markets string
}

// DebugSummary describes a raw provider response.
type DebugSummary struct {
	Status     int             `json:"status"`
	Bookmakers int             `json:"bookmakers"`
	Books      []string        `json:"books"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// DebugResponse shows exactly what was requested and what came back.
type DebugResponse struct {
	OddsURL        string       `json:"oddsUrl"`
	SportKey       string       `json:"sportKey"`
	UsingKeySuffix string       `json:"usingKeySuffix"`
	EventID        string       `json:"eventId"`
	Markets        string       `json:"markets"`
	Regions        string       `json:"regions"`
	Summary        DebugSummary `json:"summary"`
}

// Debug fetches one event's odds uncached and summarizes the raw response.
// The returned URL never contains the key.
func Debug(ctx context.Context, raw RawOdds, req DebugRequest) (*DebugResponse, error) {
	if strings.TrimSpace(req.EventID) == "" {
		return nil, ErrMissingEventID
	}
	if req.Regions == "" {
		req.Regions = oddsapi.GameRegions
	}
	if req.Markets == "" {
		req.Markets = strings.Join([]string{market.KeySpreads, market.KeyTotals, market.KeyAnytimeTD}, ",")
	}

	sport := oddsapi.SportForMode(req.Mode)
	path := oddsapi.EventOddsPath(sport, req.EventID)
	params := oddsapi.EventOddsParams(oddsapi.EventOddsRequest{Regions: req.Regions, Markets: strings.Split(req.Markets, ",")})

	resp, err := raw.Do(ctx, path, params)
	if err != nil {
		return nil, err
	}

	summary := DebugSummary{Status: resp.Status, Books: []string{}}
	ok := resp.Status >= 200 && resp.Status <= 299
	if strings.Contains(resp.ContentType, "application/json") {
		var ev aggregate.Event
		if json.Unmarshal(resp.Body, &ev) == nil {
			summary.Bookmakers = len(ev.Bookmakers)
			for _, b := range ev.Bookmakers {
				summary.Books = append(summary.Books, aggregate.BookName(b))
			}
		}
		if !ok && json.Valid(resp.Body) {
			summary.Body = resp.Body
		}
	} else {
		text, _ := json.Marshal(string(resp.Body))
		summary.Body = text
	}

	return &DebugResponse{
		OddsURL:        raw.URL(path, params, false),
		SportKey:       sport,
		UsingKeySuffix: raw.KeySuffix(),
		EventID:        req.EventID,
		Markets:        req.Markets,
		Regions:        req.Regions,
		Summary:        summary,
	}, nil
}
