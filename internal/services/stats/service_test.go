package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gomoku-go/internal/dependencies/mocks"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/stats"
	"github.com/mcoot/gomoku-go/internal/storage/memory"
	"github.com/mcoot/gomoku-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store     *memory.Storage
	mockClock *mocks.MockClock
	service   *stats.Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = stats.New(s.store, s.mockClock, testutil.NopLogger())
	s.ctx = context.Background()
}

// finished builds a finished match lasting d with the given number of moves
func (s *ServiceSuite) finished(mode model.MatchMode, outcome model.Outcome, winner model.Stone, moves int, d time.Duration) *model.Match {
	created := s.mockClock.Now()
	end := created.Add(d)
	m := &model.Match{
		ID:         model.MatchID("m-" + d.String()),
		OwnerID:    "p1",
		Mode:       mode,
		BoardSize:  10,
		Outcome:    outcome,
		Winner:     winner,
		CreatedAt:  created,
		UpdatedAt:  end,
		FinishedAt: &end,
		Moves:      make([]model.Move, moves),
	}
	if mode == model.ModeVsAI {
		m.White = model.SideConfig{Engine: true, Difficulty: model.DifficultyHard}
	}
	return m
}

func (s *ServiceSuite) TestGetWithoutRecordsIsEmpty() {
	st, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(0, st.TotalGames)
	s.NotNil(st.GamesByMode)
}

func (s *ServiceSuite) TestRecordAggregates() {
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeWon, model.Black, 9, 2*time.Minute)))
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeWon, model.White, 20, 5*time.Minute)))
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeTwoPlayer, model.OutcomeDraw, model.Empty, 100, time.Minute)))

	st, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(3, st.TotalGames)
	s.Equal(1, st.BlackWins)
	s.Equal(1, st.WhiteWins)
	s.Equal(1, st.Draws)
	s.Equal(2, st.GamesByMode[model.ModeVsAI])
	s.Equal(1, st.GamesByMode[model.ModeTwoPlayer])
	s.Equal(129, st.TotalMoves)
	s.Equal(8*time.Minute, st.TotalDuration)
	s.Equal(5*time.Minute, st.LongestGame)
	s.Equal(time.Minute, st.ShortestGame)
	// Engine played White: lost the first, won the second
	s.Equal(model.EngineRecord{Wins: 1, Losses: 1}, st.Engine)
	s.Equal(s.mockClock.Now(), st.UpdatedAt)
}

func (s *ServiceSuite) TestRecordRejectsUnfinishedMatch() {
	m := s.finished(model.ModeVsAI, model.OutcomeInProgress, model.Empty, 3, time.Minute)
	s.Error(s.service.Record(s.ctx, m))
}

func (s *ServiceSuite) TestSummary() {
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeWon, model.Black, 10, 2*time.Minute)))
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeWon, model.White, 30, 4*time.Minute)))
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeWon, model.White, 20, 6*time.Minute)))
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeVsAI, model.OutcomeDraw, model.Empty, 100, 8*time.Minute)))

	summary, err := s.service.Summary(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(4, summary.TotalGames)
	s.InDelta(25.0, summary.BlackWinRate, 1e-9)
	s.InDelta(50.0, summary.WhiteWinRate, 1e-9)
	s.InDelta(25.0, summary.DrawRate, 1e-9)
	s.InDelta(40.0, summary.AverageMoves, 1e-9)
	s.Equal(5*time.Minute, summary.AverageDuration)
	s.InDelta(50.0, summary.EngineWinRate, 1e-9)
}

func (s *ServiceSuite) TestSummaryOfNothing() {
	summary, err := s.service.Summary(s.ctx, "p1")
	s.Require().NoError(err)
	s.Zero(summary.TotalGames)
	s.Zero(summary.BlackWinRate)
	s.Zero(summary.AverageDuration)
}

func (s *ServiceSuite) TestReset() {
	s.Require().NoError(s.service.Record(s.ctx, s.finished(model.ModeAIBattle, model.OutcomeWon, model.Black, 9, time.Minute)))
	s.Require().NoError(s.service.Reset(s.ctx, "p1"))

	st, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Zero(st.TotalGames)
}
