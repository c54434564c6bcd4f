package handler

import (
	"encoding/json"
	"net/http"

	"github.com/albapepper/scoracle-props/internal/api/respond"
	"github.com/albapepper/scoracle-props/internal/matchup"
)

const maxBodyBytes = 1 << 16

// PostMatchup scores one player-versus-defense matchup.
// @Summary Score a matchup
// @Description Blends opponent defense, role and usage, Vegas context, recent trend, and red-zone share into a 0-100 score with every component and sub-part surfaced.
// @Tags matchup
// @Accept json
// @Produce json
// @Param inputs body matchup.Inputs true "Matchup inputs"
// @Success 200 {object} matchup.Breakdown
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/matchup [post]
func (h *Handler) PostMatchup(w http.ResponseWriter, r *http.Request) {
	var in matchup.Inputs
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be matchup inputs JSON", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, h.Blender.Compute(in))
}
