package handler

import (
	"net/http"

	"github.com/mcoot/gomoku-go/internal/api/middleware"
	"github.com/mcoot/gomoku-go/internal/api/response"
	"github.com/mcoot/gomoku-go/internal/services/stats"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	st, err := h.statsService.Get(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(st, stats.Summarize(st)))
}

// Reset handles DELETE /api/v1/stats
func (h *StatsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.statsService.Reset(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
