package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/gomoku-go/internal/api/middleware"
	"github.com/mcoot/gomoku-go/internal/api/request"
	"github.com/mcoot/gomoku-go/internal/api/response"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/history"
	"github.com/mcoot/gomoku-go/internal/services/match"
	"github.com/mcoot/gomoku-go/internal/sse"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	controller     *match.Controller
	historyService *history.Service
	hubManager     *sse.HubManager
}

// NewMatchHandler creates a new match handler. hubManager may be nil to disable event streams.
func NewMatchHandler(controller *match.Controller, historyService *history.Service, hubManager *sse.HubManager) *MatchHandler {
	return &MatchHandler{
		controller:     controller,
		historyService: historyService,
		hubManager:     hubManager,
	}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateMatchRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	mode, err := model.ParseMatchMode(req.Mode)
	if err != nil {
		WriteError(w, err)
		return
	}

	opts := match.MatchOptions{
		Mode:            mode,
		BoardSize:       req.BoardSize,
		HumanSide:       req.HumanSide,
		Difficulty:      difficultyOrDefault(req.Difficulty),
		BlackDifficulty: difficultyOrDefault(req.BlackDifficulty),
		WhiteDifficulty: difficultyOrDefault(req.WhiteDifficulty),
	}

	m, err := h.controller.CreateMatch(r.Context(), player.ID, opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeMatch(w, http.StatusCreated, m)
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	h.writeMatch(w, http.StatusOK, m)
}

// PlaceStone handles POST /api/v1/matches/{id}/moves
func (h *MatchHandler) PlaceStone(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.PlaceStoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Row == nil || req.Col == nil {
		WriteError(w, NewInvalidRequestError("row and col are required"))
		return
	}

	pos := model.Position{Row: *req.Row, Col: *req.Col}
	m, err := h.controller.PlaceStone(r.Context(), matchID(r), player.ID, pos)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeMatch(w, http.StatusOK, m)
}

// PlayAIMove handles POST /api/v1/matches/{id}/ai-move
func (h *MatchHandler) PlayAIMove(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.PlayAIMove(r.Context(), matchID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeMatch(w, http.StatusOK, m)
}

// Suggest handles GET /api/v1/matches/{id}/suggestion
func (h *MatchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := matchID(r)

	pos, err := h.controller.SuggestMove(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	m, err := h.controller.GetMatch(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Suggestion{
		Player: m.NextPlayer().String(),
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// SetDifficulty handles PATCH /api/v1/matches/{id}/difficulty
func (h *MatchHandler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SetDifficultyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Difficulty == nil {
		WriteError(w, NewInvalidRequestError("difficulty is required"))
		return
	}

	m, err := h.controller.SetDifficulty(r.Context(), matchID(r), player.ID, req.Side, *req.Difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeMatch(w, http.StatusOK, m)
}

// Resign handles POST /api/v1/matches/{id}/resign
func (h *MatchHandler) Resign(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.Resign(r.Context(), matchID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeMatch(w, http.StatusOK, m)
}

// Replay handles GET /api/v1/matches/{id}/replay?step=n. Without step the final position is returned.
func (h *MatchHandler) Replay(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	step := len(m.Moves)
	if raw := r.URL.Query().Get("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("step must be an integer"))
			return
		}
		step = n
	}

	frame, err := h.historyService.Replay(r.Context(), player.ID, m.ID, step)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.FrameFromHistory(frame))
}

// Events handles GET /api/v1/matches/{id}/events
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("event streams are disabled"))
		return
	}
	m, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	hub := h.hubManager.GetOrCreateHub(m.ID)
	sse.ServeSSE(w, r, hub, player.ID)
}

// loadOwned fetches the match named in the path and checks the caller owns it
func (h *MatchHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*model.Match, bool) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.GetMatch(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	if m.OwnerID != player.ID {
		WriteError(w, model.ErrNotMatchOwner)
		return nil, false
	}
	return m, true
}

func (h *MatchHandler) writeMatch(w http.ResponseWriter, status int, m *model.Match) {
	resp, err := response.MatchFromModel(m)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, resp)
}

func matchID(r *http.Request) model.MatchID {
	return model.MatchID(mux.Vars(r)["id"])
}

// decodeBody decodes a JSON request body. Enum parse failures keep their model error so the
// client sees which field was wrong.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrUnknownDifficulty), errors.Is(err, model.ErrInvalidSide):
		return err
	default:
		return NewInvalidRequestError("invalid request body")
	}
}

func difficultyOrDefault(d *model.Difficulty) model.Difficulty {
	if d == nil {
		return model.DefaultDifficulty
	}
	return *d
}
