package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/albapepper/scoracle-props/internal/api/respond"
	"github.com/albapepper/scoracle-props/internal/waitlist"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

// PostSubscribe adds an email to the Pro waitlist.
// @Summary Join the waitlist
// @Description Records an email for Pro access. Stored in Postgres when configured, otherwise appended to a CSV file.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param body body subscribeRequest true "Email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/subscribe [post]
func (h *Handler) PostSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_EMAIL", "A valid email is required")
		return
	}

	if _, err := h.Waitlist.Subscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, waitlist.ErrInvalidEmail) {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_EMAIL", "A valid email is required")
			return
		}
		slog.Error("Waitlist subscribe failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not save your email")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{"ok": true})
}
