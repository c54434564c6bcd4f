package handler

import (
	"errors"
	"net/http"

	"github.com/albapepper/scoracle-props/internal/api/respond"
	"github.com/albapepper/scoracle-props/internal/cache"
	"github.com/albapepper/scoracle-props/internal/games"
)

// GetGames lists games in the current window.
// @Summary List games
// @Description Lists games with home spread, total, and implied team points. Preseason mode scans from yesterday up to week 1; otherwise week 1 is shown until it starts, then a rolling 7-day window.
// @Tags games
// @Produce json
// @Param mode query string false "Schedule" Enums(preseason)
// @Success 200 {object} games.Listing
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/games [get]
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	if !h.requireKey(w) {
		return
	}
	listing, err := h.Games.List(r.Context(), r.URL.Query().Get("mode"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	respond.WriteETagged(w, r, listing, cache.TTLGames)
}

// GetFirstEvent returns the first upcoming preseason game.
// @Summary First preseason game
// @Description Returns the earliest preseason event ID and up to ten example matchups.
// @Tags games
// @Produce json
// @Success 200 {object} games.First
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/first-event [get]
func (h *Handler) GetFirstEvent(w http.ResponseWriter, r *http.Request) {
	if !h.requireKey(w) {
		return
	}
	first, err := h.Games.FirstEvent(r.Context())
	if errors.Is(err, games.ErrNoGames) {
		respond.WriteError(w, http.StatusNotFound, "NO_GAMES", "no games found")
		return
	}
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, first)
}

// GetFindProps finds a game with player-prop markets.
// @Summary Find player props
// @Description Probes preseason then week-1 events in kickoff order and returns the first event offering any player_ market, with its market keys.
// @Tags games
// @Produce json
// @Success 200 {object} discovery.Result
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/find-props [get]
func (h *Handler) GetFindProps(w http.ResponseWriter, r *http.Request) {
	if !h.requireKey(w) {
		return
	}
	res, err := h.Finder.Find(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	respond.WriteETagged(w, r, res, cache.TTLDiscovery)
}
