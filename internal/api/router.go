package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gomoku-go/internal/api/handler"
	"github.com/mcoot/gomoku-go/internal/api/middleware"
	"github.com/mcoot/gomoku-go/internal/services/auth"
	"github.com/mcoot/gomoku-go/internal/services/history"
	"github.com/mcoot/gomoku-go/internal/services/match"
	"github.com/mcoot/gomoku-go/internal/services/stats"
	"github.com/mcoot/gomoku-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	MatchController *match.Controller
	HistoryService  *history.Service
	StatsService    *stats.Service
	HubManager      *sse.HubManager // Optional; nil disables event streams
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.HistoryService, cfg.HubManager)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Public routes
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/difficulties", handler.Difficulties).Methods(http.MethodGet)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Create).Methods(http.MethodPost)
	matches.HandleFunc("/{id}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/moves", matchHandler.PlaceStone).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/ai-move", matchHandler.PlayAIMove).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/suggestion", matchHandler.Suggest).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/difficulty", matchHandler.SetDifficulty).Methods(http.MethodPatch)
	matches.HandleFunc("/{id}/resign", matchHandler.Resign).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/replay", matchHandler.Replay).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/events", matchHandler.Events).Methods(http.MethodGet)

	hist := api.PathPrefix("/history").Subrouter()
	hist.Use(authMiddleware)
	hist.HandleFunc("", historyHandler.List).Methods(http.MethodGet)
	hist.HandleFunc("/export", historyHandler.Export).Methods(http.MethodGet)
	hist.HandleFunc("/import", historyHandler.Import).Methods(http.MethodPost)

	st := api.PathPrefix("/stats").Subrouter()
	st.Use(authMiddleware)
	st.HandleFunc("", statsHandler.Get).Methods(http.MethodGet)
	st.HandleFunc("", statsHandler.Reset).Methods(http.MethodDelete)

	return r
}
