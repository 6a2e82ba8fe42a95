package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	_ = s.storage.SaveRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Match tests

func newMatch(id model.MatchID, owner model.PlayerID, created time.Time) *model.Match {
	return &model.Match{
		ID:        id,
		OwnerID:   owner,
		Mode:      model.ModeVsAI,
		BoardSize: 10,
		White:     model.SideConfig{Engine: true, Difficulty: model.DifficultyHard},
		Outcome:   model.OutcomeInProgress,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := newMatch("match-1", "player-1", time.Now())
	match.Moves = []model.Move{{Number: 1, Player: model.Black, Position: model.Position{Row: 4, Col: 4}}}

	err := s.storage.SaveMatch(s.ctx, match)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(match.ID, retrieved.ID)
	s.Equal(match.White, retrieved.White)
	s.Len(retrieved.Moves, 1)
}

func (s *StorageSuite) TestMatchesAreCopied() {
	match := newMatch("match-1", "player-1", time.Now())
	_ = s.storage.SaveMatch(s.ctx, match)

	// Mutating the caller's copy must not leak into storage
	match.Moves = append(match.Moves, model.Move{Number: 1})
	retrieved, _ := s.storage.GetMatch(s.ctx, "match-1")
	s.Empty(retrieved.Moves)

	retrieved.Outcome = model.OutcomeDraw
	again, _ := s.storage.GetMatch(s.ctx, "match-1")
	s.Equal(model.OutcomeInProgress, again.Outcome)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestMatchExists() {
	exists, err := s.storage.MatchExists(s.ctx, "match-1")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveMatch(s.ctx, newMatch("match-1", "player-1", time.Now()))

	exists, err = s.storage.MatchExists(s.ctx, "match-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteMatch() {
	_ = s.storage.SaveMatch(s.ctx, newMatch("match-1", "player-1", time.Now()))

	err := s.storage.DeleteMatch(s.ctx, "match-1")
	s.Require().NoError(err)

	_, err = s.storage.GetMatch(s.ctx, "match-1")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatchesForOwnerNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveMatch(s.ctx, newMatch("old", "player-1", base))
	_ = s.storage.SaveMatch(s.ctx, newMatch("new", "player-1", base.Add(time.Hour)))
	_ = s.storage.SaveMatch(s.ctx, newMatch("mid", "player-1", base.Add(time.Minute)))
	_ = s.storage.SaveMatch(s.ctx, newMatch("other", "player-2", base))

	matches, err := s.storage.ListMatchesForOwner(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(matches, 3)
	s.Equal(model.MatchID("new"), matches[0].ID)
	s.Equal(model.MatchID("mid"), matches[1].ID)
	s.Equal(model.MatchID("old"), matches[2].ID)
}

func (s *StorageSuite) TestListMatchesForOwnerEmpty() {
	matches, err := s.storage.ListMatchesForOwner(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(matches)
}

// Statistics tests

func (s *StorageSuite) TestSaveAndGetStats() {
	stats := model.NewStatistics("player-1")
	stats.TotalGames = 3
	stats.GamesByMode[model.ModeVsAI] = 2

	err := s.storage.SaveStats(s.ctx, stats)
	s.Require().NoError(err)

	// Mutating after save must not leak into storage
	stats.GamesByMode[model.ModeVsAI] = 99

	retrieved, err := s.storage.GetStats(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(3, retrieved.TotalGames)
	s.Equal(2, retrieved.GamesByMode[model.ModeVsAI])
}

func (s *StorageSuite) TestGetStatsNotFound() {
	_, err := s.storage.GetStats(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestDeleteStats() {
	_ = s.storage.SaveStats(s.ctx, model.NewStatistics("player-1"))

	err := s.storage.DeleteStats(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetStats(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrStatsNotFound)
}
