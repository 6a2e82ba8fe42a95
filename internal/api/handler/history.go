package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/mcoot/gomoku-go/internal/api/middleware"
	"github.com/mcoot/gomoku-go/internal/api/response"
	"github.com/mcoot/gomoku-go/internal/services/history"
)

// maxImportBytes bounds the size of an uploaded export document
const maxImportBytes = 8 << 20

// HistoryHandler handles match history endpoints
type HistoryHandler struct {
	historyService *history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *history.Service) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles GET /api/v1/history?limit=n
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	matches, err := h.historyService.ListRecent(r.Context(), player.ID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.History{Matches: make([]response.MatchSummary, len(matches))}
	for i, m := range matches {
		resp.Matches[i] = response.MatchSummaryFromModel(m)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Export handles GET /api/v1/history/export
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	doc, err := h.historyService.Export(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="gomoku-history.json"`)
	response.JSON(w, http.StatusOK, doc)
}

// Import handles POST /api/v1/history/import
func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		WriteError(w, NewInvalidRequestError("failed to read request body"))
		return
	}
	if len(data) > maxImportBytes {
		WriteError(w, NewInvalidRequestError("import document too large"))
		return
	}

	result, err := h.historyService.Import(r.Context(), player.ID, data)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ImportResultFromHistory(result))
}
