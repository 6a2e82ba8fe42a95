package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/storage"
)

// Service keeps per-player aggregates of finished matches
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	// Serializes read-modify-write cycles on stored aggregates
	mu sync.Mutex
}

// New creates a new stats Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "stats-service")),
	}
}

// Get returns the owner's aggregate, or an empty one if nothing has been recorded
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (*model.Statistics, error) {
	st, err := s.storage.GetStats(ctx, playerID)
	if errors.Is(err, model.ErrStatsNotFound) {
		return model.NewStatistics(playerID), nil
	}
	return st, err
}

// Record folds a finished match into its owner's aggregate
func (s *Service) Record(ctx context.Context, match *model.Match) error {
	if !match.IsFinished() {
		return fmt.Errorf("record stats for match %s: match is still in progress", match.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Get(ctx, match.OwnerID)
	if err != nil {
		return err
	}

	apply(st, match)
	st.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveStats(ctx, st); err != nil {
		return err
	}

	s.logger.Debug("match recorded",
		slog.String("player_id", string(match.OwnerID)),
		slog.String("match_id", string(match.ID)),
		slog.Int("total_games", st.TotalGames),
	)
	return nil
}

// Summary derives rates and averages from the owner's aggregate
func (s *Service) Summary(ctx context.Context, playerID model.PlayerID) (*model.StatsSummary, error) {
	st, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(st)
	return &summary, nil
}

// Reset discards the owner's aggregate
func (s *Service) Reset(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteStats(ctx, playerID); err != nil {
		return err
	}
	s.logger.Info("stats reset", slog.String("player_id", string(playerID)))
	return nil
}

// apply adds one finished match to st
func apply(st *model.Statistics, match *model.Match) {
	st.TotalGames++
	switch {
	case match.Outcome == model.OutcomeDraw:
		st.Draws++
	case match.Winner == model.Black:
		st.BlackWins++
	case match.Winner == model.White:
		st.WhiteWins++
	}

	if st.GamesByMode == nil {
		st.GamesByMode = make(map[model.MatchMode]int)
	}
	st.GamesByMode[match.Mode]++
	st.TotalMoves += len(match.Moves)

	d := match.Duration()
	st.TotalDuration += d
	st.LongestGame = max(st.LongestGame, d)
	if d > 0 && (st.ShortestGame == 0 || d < st.ShortestGame) {
		st.ShortestGame = d
	}

	if match.Mode == model.ModeVsAI {
		engine := match.HumanSide().Opponent()
		switch {
		case match.Outcome == model.OutcomeDraw:
			st.Engine.Draws++
		case match.Winner == engine:
			st.Engine.Wins++
		default:
			st.Engine.Losses++
		}
	}
}

// Summarize computes the presentation view of st
func Summarize(st *model.Statistics) model.StatsSummary {
	summary := model.StatsSummary{
		TotalGames:   st.TotalGames,
		LongestGame:  st.LongestGame,
		ShortestGame: st.ShortestGame,
		GamesByMode:  make(map[model.MatchMode]int, len(st.GamesByMode)),
		Engine:       st.Engine,
	}
	for mode, n := range st.GamesByMode {
		summary.GamesByMode[mode] = n
	}

	if st.TotalGames > 0 {
		total := float64(st.TotalGames)
		summary.BlackWinRate = percent(st.BlackWins, total)
		summary.WhiteWinRate = percent(st.WhiteWins, total)
		summary.DrawRate = percent(st.Draws, total)
		summary.AverageMoves = float64(st.TotalMoves) / total
		summary.AverageDuration = st.TotalDuration / time.Duration(st.TotalGames)
	}

	if engineGames := st.Engine.Wins + st.Engine.Losses + st.Engine.Draws; engineGames > 0 {
		summary.EngineWinRate = percent(st.Engine.Wins, float64(engineGames))
	}
	return summary
}

func percent(n int, total float64) float64 {
	return float64(n) / total * 100
}
