package history_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gomoku-go/internal/dependencies/mocks"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/history"
	"github.com/mcoot/gomoku-go/internal/storage/memory"
	"github.com/mcoot/gomoku-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store     *memory.Storage
	mockClock *mocks.MockClock
	service   *history.Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = history.New(s.store, s.mockClock, testutil.NopLogger())
	s.ctx = context.Background()
}

// blackWinMoves has Black win along row 4 while White plays along row 0
var blackWinMoves = []model.Position{
	{Row: 4, Col: 0}, {Row: 0, Col: 0},
	{Row: 4, Col: 1}, {Row: 0, Col: 1},
	{Row: 4, Col: 2}, {Row: 0, Col: 2},
	{Row: 4, Col: 3}, {Row: 0, Col: 3},
	{Row: 4, Col: 4},
}

// newMatch records positions as alternating moves and derives the result from the board
func (s *ServiceSuite) newMatch(id model.MatchID, positions []model.Position) *model.Match {
	created := s.mockClock.Now()
	m := &model.Match{
		ID:        id,
		OwnerID:   "p1",
		Mode:      model.ModeTwoPlayer,
		BoardSize: 10,
		Outcome:   model.OutcomeInProgress,
		CreatedAt: created,
		UpdatedAt: created,
	}
	board := model.NewBoard(10)
	for i, pos := range positions {
		m.Moves = append(m.Moves, model.Move{
			Number:   i + 1,
			Player:   board.CurrentPlayer(),
			Position: pos,
			PlayedAt: created.Add(time.Duration(i) * time.Second),
		})
		s.Require().True(board.Place(pos.Row, pos.Col))
	}
	if over, winner := board.Status(); over {
		m.Outcome = board.Outcome()
		m.Winner = winner
		finished := created.Add(time.Minute)
		m.FinishedAt = &finished
	}
	s.mockClock.Advance(time.Minute)
	return m
}

func (s *ServiceSuite) save(m *model.Match) *model.Match {
	s.Require().NoError(s.store.SaveMatch(s.ctx, m))
	return m
}

// ListRecent tests

func (s *ServiceSuite) TestListRecentOnlyFinishedNewestFirst() {
	s.save(s.newMatch("first", blackWinMoves))
	s.save(s.newMatch("unfinished", blackWinMoves[:3]))
	s.save(s.newMatch("second", blackWinMoves))

	matches, err := s.service.ListRecent(s.ctx, "p1", 0)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(model.MatchID("second"), matches[0].ID)
	s.Equal(model.MatchID("first"), matches[1].ID)
}

func (s *ServiceSuite) TestListRecentLimits() {
	for i := 0; i < history.MaxListLimit+5; i++ {
		s.save(s.newMatch(model.MatchID(fmt.Sprintf("m%02d", i)), blackWinMoves))
	}

	matches, err := s.service.ListRecent(s.ctx, "p1", 0)
	s.Require().NoError(err)
	s.Len(matches, history.DefaultListLimit)

	matches, err = s.service.ListRecent(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Len(matches, 3)

	matches, err = s.service.ListRecent(s.ctx, "p1", 1000)
	s.Require().NoError(err)
	s.Len(matches, history.MaxListLimit)
}

// Replay tests

func (s *ServiceSuite) TestReplayStartAndMiddle() {
	m := s.save(s.newMatch("m1", blackWinMoves))

	frame, err := s.service.Replay(s.ctx, "p1", m.ID, 0)
	s.Require().NoError(err)
	s.Equal(0, frame.Step)
	s.Equal(9, frame.Total)
	s.Nil(frame.LastMove)
	s.Equal(model.Black, frame.NextPlayer)
	s.Equal(model.OutcomeInProgress, frame.Outcome)

	frame, err = s.service.Replay(s.ctx, "p1", m.ID, 3)
	s.Require().NoError(err)
	s.Require().NotNil(frame.LastMove)
	s.Equal(model.Position{Row: 4, Col: 1}, frame.LastMove.Position)
	s.Equal(model.Black, frame.Grid[4][1])
	s.Equal(model.Empty, frame.Grid[0][1])
	s.Equal(model.White, frame.NextPlayer)
}

func (s *ServiceSuite) TestReplayFinalFrame() {
	m := s.save(s.newMatch("m1", blackWinMoves))

	frame, err := s.service.Replay(s.ctx, "p1", m.ID, 9)
	s.Require().NoError(err)
	s.Equal(model.OutcomeWon, frame.Outcome)
	s.Equal(model.Black, frame.Winner)
	s.Equal(model.Empty, frame.NextPlayer)
}

func (s *ServiceSuite) TestReplayResignedMatch() {
	m := s.newMatch("m1", blackWinMoves[:4])
	m.Outcome = model.OutcomeWon
	m.Winner = model.Black
	m.Resigned = true
	s.save(m)

	frame, err := s.service.Replay(s.ctx, "p1", m.ID, 4)
	s.Require().NoError(err)
	s.Equal(model.OutcomeWon, frame.Outcome)
	s.Equal(model.Black, frame.Winner)

	frame, err = s.service.Replay(s.ctx, "p1", m.ID, 3)
	s.Require().NoError(err)
	s.Equal(model.OutcomeInProgress, frame.Outcome)
}

func (s *ServiceSuite) TestReplayErrors() {
	m := s.save(s.newMatch("m1", blackWinMoves))

	_, err := s.service.Replay(s.ctx, "p1", m.ID, 10)
	s.ErrorIs(err, model.ErrReplayStepOutOfRange)

	_, err = s.service.Replay(s.ctx, "p2", m.ID, 0)
	s.ErrorIs(err, model.ErrNotMatchOwner)

	_, err = s.service.Replay(s.ctx, "p1", "missing", 0)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Export / Import tests

func (s *ServiceSuite) TestExportOnlyFinished() {
	s.save(s.newMatch("done", blackWinMoves))
	s.save(s.newMatch("open", blackWinMoves[:2]))

	doc, err := s.service.Export(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(history.ExportVersion, doc.Version)
	s.Equal(model.PlayerID("p1"), doc.PlayerID)
	s.Require().Len(doc.Matches, 1)
	s.Equal(model.MatchID("done"), doc.Matches[0].ID)
}

func (s *ServiceSuite) TestExportImportRoundTrip() {
	s.save(s.newMatch("m1", blackWinMoves))
	s.save(s.newMatch("m2", blackWinMoves))

	doc, err := s.service.Export(s.ctx, "p1")
	s.Require().NoError(err)
	data, err := json.Marshal(doc)
	s.Require().NoError(err)

	target := history.New(memory.New(), s.mockClock, testutil.NopLogger())
	result, err := target.Import(s.ctx, "p9", data)
	s.Require().NoError(err)
	s.Equal(2, result.Imported)
	s.Empty(result.Skipped)

	matches, err := target.ListRecent(s.ctx, "p9", 0)
	s.Require().NoError(err)
	s.Len(matches, 2)
	s.Equal(model.PlayerID("p9"), matches[0].OwnerID)

	// A second import skips what is already there
	result, err = target.Import(s.ctx, "p9", data)
	s.Require().NoError(err)
	s.Equal(0, result.Imported)
	s.ElementsMatch([]model.MatchID{"m1", "m2"}, result.Skipped)
}

func (s *ServiceSuite) TestImportRejectsTamperedResult() {
	m := s.newMatch("m1", blackWinMoves)
	m.Winner = model.White
	data, err := json.Marshal(history.ExportDocument{Version: history.ExportVersion, Matches: []*model.Match{m}})
	s.Require().NoError(err)

	_, err = s.service.Import(s.ctx, "p1", data)
	s.ErrorIs(err, model.ErrInvalidImport)

	exists, _ := s.store.MatchExists(s.ctx, "m1")
	s.False(exists)
}

func (s *ServiceSuite) TestImportRejectsIllegalMoves() {
	m := s.newMatch("m1", blackWinMoves)
	m.Moves[2].Position = m.Moves[0].Position
	data, _ := json.Marshal(history.ExportDocument{Version: history.ExportVersion, Matches: []*model.Match{m}})

	_, err := s.service.Import(s.ctx, "p1", data)
	s.ErrorIs(err, model.ErrInvalidImport)
}

func (s *ServiceSuite) TestImportRejectsBadDocuments() {
	_, err := s.service.Import(s.ctx, "p1", []byte("not json"))
	s.ErrorIs(err, model.ErrInvalidImport)

	_, err = s.service.Import(s.ctx, "p1", []byte(`{"version":99,"matches":[]}`))
	s.ErrorIs(err, model.ErrInvalidImport)

	unfinished := s.newMatch("m1", blackWinMoves[:3])
	data, _ := json.Marshal(history.ExportDocument{Version: history.ExportVersion, Matches: []*model.Match{unfinished}})
	_, err = s.service.Import(s.ctx, "p1", data)
	s.ErrorIs(err, model.ErrInvalidImport)
}

func (s *ServiceSuite) TestValidateAcceptsResignation() {
	m := s.newMatch("m1", blackWinMoves[:4])
	m.Outcome = model.OutcomeWon
	m.Winner = model.White
	m.Resigned = true
	s.NoError(history.Validate(m))
}
