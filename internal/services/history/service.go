package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/storage"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 50

	// ExportVersion is written into every export document and required on import
	ExportVersion = 1
)

// Frame is the board as it stood after Step of Total moves
type Frame struct {
	MatchID    model.MatchID `json:"match_id"`
	Step       int           `json:"step"`
	Total      int           `json:"total"`
	Grid       model.Grid    `json:"grid"`
	LastMove   *model.Move   `json:"last_move,omitempty"`
	NextPlayer model.Stone   `json:"next_player"`
	Outcome    model.Outcome `json:"outcome"`
	Winner     model.Stone   `json:"winner"`
}

// ExportDocument is the portable form of a player's finished matches
type ExportDocument struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	PlayerID   model.PlayerID `json:"player_id"`
	Matches    []*model.Match `json:"matches"`
}

// ImportResult reports what an import did
type ImportResult struct {
	Imported int             `json:"imported"`
	Skipped  []model.MatchID `json:"skipped"` // Already present
}

// Service lists, replays, exports and imports finished matches
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new history Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "history-service")),
	}
}

// ListRecent returns the owner's finished matches, newest first.
// limit <= 0 selects DefaultListLimit; larger values are capped at MaxListLimit.
func (s *Service) ListRecent(ctx context.Context, owner model.PlayerID, limit int) ([]*model.Match, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	matches, err := s.finishedMatches(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Replay rebuilds the board of one of the owner's matches after step moves
func (s *Service) Replay(ctx context.Context, owner model.PlayerID, id model.MatchID, step int) (*Frame, error) {
	match, err := s.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.OwnerID != owner {
		return nil, model.ErrNotMatchOwner
	}

	board, err := match.BoardAt(step)
	if err != nil {
		return nil, err
	}

	frame := &Frame{
		MatchID:    match.ID,
		Step:       step,
		Total:      len(match.Moves),
		Grid:       board.Snapshot(),
		NextPlayer: board.CurrentPlayer(),
		Outcome:    board.Outcome(),
	}
	_, frame.Winner = board.Status()
	if step > 0 {
		mv := match.Moves[step-1]
		frame.LastMove = &mv
	}
	// A resignation ends the match without ending the board
	if step == len(match.Moves) && match.IsFinished() {
		frame.Outcome = match.Outcome
		frame.Winner = match.Winner
	}
	if frame.Outcome != model.OutcomeInProgress {
		frame.NextPlayer = model.Empty
	}
	return frame, nil
}

// Export returns every finished match the owner has
func (s *Service) Export(ctx context.Context, owner model.PlayerID) (*ExportDocument, error) {
	matches, err := s.finishedMatches(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.logger.Info("history exported",
		slog.String("player_id", string(owner)),
		slog.Int("matches", len(matches)),
	)
	return &ExportDocument{
		Version:    ExportVersion,
		ExportedAt: s.clock.Now(),
		PlayerID:   owner,
		Matches:    matches,
	}, nil
}

// Import validates every match in an export document and stores the new ones under owner.
// The whole document is rejected if any match fails validation.
func (s *Service) Import(ctx context.Context, owner model.PlayerID, data []byte) (*ImportResult, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImport, err)
	}
	if doc.Version != ExportVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", model.ErrInvalidImport, doc.Version)
	}

	seen := make(map[model.MatchID]bool, len(doc.Matches))
	for i, m := range doc.Matches {
		if m == nil {
			return nil, fmt.Errorf("%w: match %d is empty", model.ErrInvalidImport, i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("%w: duplicate match id %q", model.ErrInvalidImport, m.ID)
		}
		seen[m.ID] = true
		if err := Validate(m); err != nil {
			return nil, fmt.Errorf("%w: match %q: %v", model.ErrInvalidImport, m.ID, err)
		}
	}

	result := &ImportResult{Skipped: []model.MatchID{}}
	for _, m := range doc.Matches {
		exists, err := s.storage.MatchExists(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}

		m.OwnerID = owner
		if err := s.storage.SaveMatch(ctx, m); err != nil {
			return nil, err
		}
		result.Imported++
	}

	s.logger.Info("history imported",
		slog.String("player_id", string(owner)),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// Validate checks that a finished match record is internally consistent by replaying it
func Validate(m *model.Match) error {
	if m.ID == "" {
		return errors.New("missing id")
	}
	if !m.Mode.Valid() {
		return model.ErrUnknownMode
	}
	if !m.IsFinished() {
		return errors.New("match is not finished")
	}

	board, err := m.Board()
	if err != nil {
		return err
	}

	over, winner := board.Status()
	switch {
	case m.Resigned:
		if over || m.Outcome != model.OutcomeWon || !m.Winner.IsPlayer() {
			return errors.New("resignation does not match the recorded moves")
		}
	case !over:
		return errors.New("recorded moves do not finish the game")
	case board.Outcome() != m.Outcome || winner != m.Winner:
		return fmt.Errorf("recorded result %s/%s does not match the moves", m.Outcome, m.Winner)
	}
	return nil
}

func (s *Service) finishedMatches(ctx context.Context, owner model.PlayerID) ([]*model.Match, error) {
	all, err := s.storage.ListMatchesForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	finished := make([]*model.Match, 0, len(all))
	for _, m := range all {
		if m.IsFinished() {
			finished = append(finished, m)
		}
	}
	return finished, nil
}
