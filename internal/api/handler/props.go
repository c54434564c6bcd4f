package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-props/internal/api/respond"
	"github.com/albapepper/scoracle-props/internal/props"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

// GetPlayers ranks one game's players for a market.
// @Summary Score player props
// @Description Aggregates every bookmaker's quotes for one game and market into a 0-100 score per player, highest first. Provider refusals return a Pro-gated sample instead of an error.
// @Tags props
// @Produce json
// @Param eventId query string true "Odds provider event ID"
// @Param market query string false "Market key" default(player_anytime_td)
// @Param mode query string false "Schedule" Enums(preseason)
// @Param regions query string false "Bookmaker regions" default(us,us2)
// @Param books query string false "Comma-separated bookmaker keys or titles"
// @Success 200 {object} props.Response
// @Success 304 "Not Modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	if !h.requireKey(w) {
		return
	}
	q := r.URL.Query()
	eventID := strings.TrimSpace(q.Get("eventId"))
	if eventID == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT_ID", "eventId query parameter is required")
		return
	}

	resp, err := h.Props.Players(r.Context(), props.Request{
		Mode:    q.Get("mode"),
		EventID: eventID,
		Market:  strings.TrimSpace(q.Get("market")),
		Regions: strings.TrimSpace(q.Get("regions")),
		Books:   splitList(q.Get("books")),
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	respond.WriteETagged(w, r, resp, h.settings.OddsTTL)
}

// GetOddsDebug shows the raw provider response for one event.
// @Summary Debug odds request
// @Description Fetches one event's odds uncached and summarizes what came back. The key is never echoed; only its last six characters.
// @Tags debug
// @Produce json
// @Param eventId query string true "Odds provider event ID"
// @Param mode query string false "Schedule" Enums(preseason)
// @Param regions query string false "Bookmaker regions" default(us,us2,eu,uk)
// @Param markets query string false "Comma-separated market keys" default(spreads,totals,player_anytime_td)
// @Success 200 {object} props.DebugResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/odds-debug [get]
func (h *Handler) GetOddsDebug(w http.ResponseWriter, r *http.Request) {
	if !h.requireKey(w) {
		return
	}
	q := r.URL.Query()
	resp, err := props.Debug(r.Context(), h.RawOdds, props.DebugRequest{
		Mode:    q.Get("mode"),
		EventID: strings.TrimSpace(q.Get("eventId")),
		Regions: strings.TrimSpace(q.Get("regions")),
		Markets: strings.TrimSpace(q.Get("markets")),
	})
	if errors.Is(err, props.ErrMissingEventID) {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT_ID", "eventId query parameter is required")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DEBUG_FAILED", "Odds request failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

// GetMarket classifies a market key.
// @Summary Classify market
// @Description Returns how a market key is valued: price or line regime, whether it is an alternate-line market, and its scoring cap.
// @Tags props
// @Produce json
// @Param key path string true "Market key"
// @Success 200 {object} market.Classification
// @Router /api/v1/markets/{key} [get]
func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.Classifier.Classify(chi.URLParam(r, "key")))
}

// writeUpstreamError maps provider and service failures to HTTP errors.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *oddsapi.APIError
	switch {
	case errors.Is(err, oddsapi.ErrMissingAPIKey):
		respond.WriteError(w, http.StatusInternalServerError, "NO_API_KEY", "No ODDS_API_KEY set")
	case errors.Is(err, props.ErrMissingEventID):
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT_ID", "eventId query parameter is required")
	case errors.As(err, &apiErr):
		respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Odds provider rejected the request", props.Reason(apiErr))
	default:
		respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Odds provider unavailable", err.Error())
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
