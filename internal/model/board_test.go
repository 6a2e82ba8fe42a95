package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BoardSuite struct {
	suite.Suite
	board *Board
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

func (s *BoardSuite) SetupTest() {
	s.board = NewBoard(DefaultBoardSize)
}

// playLine places black stones along line, answering each with a white stone from fillers
func (s *BoardSuite) playLine(line []Position, fillers []Position) {
	for i, pos := range line {
		s.Require().Equal(Black, s.board.CurrentPlayer())
		s.Require().True(s.board.Place(pos.Row, pos.Col), "black move %d at %v", i, pos)
		if over, _ := s.board.Status(); over {
			return
		}
		f := fillers[i]
		s.Require().True(s.board.Place(f.Row, f.Col), "white filler %d at %v", i, f)
	}
}

func (s *BoardSuite) TestNewBoardStartsWithBlack() {
	s.Equal(Black, s.board.CurrentPlayer())
	s.Equal(OutcomeInProgress, s.board.Outcome())
	s.Equal(100, s.board.EmptyCount())
	_, ok := s.board.LastMove()
	s.False(ok)
}

func (s *BoardSuite) TestNewBoardPanicsOnZeroSize() {
	s.Panics(func() { NewBoard(0) })
}

func (s *BoardSuite) TestPlaceTogglesPlayer() {
	s.True(s.board.Place(4, 4))
	s.Equal(Black, s.board.At(Position{Row: 4, Col: 4}))
	s.Equal(White, s.board.CurrentPlayer())

	last, ok := s.board.LastMove()
	s.True(ok)
	s.Equal(Position{Row: 4, Col: 4}, last)
}

func (s *BoardSuite) TestPlaceRejectsOutOfRange() {
	before := s.board.Snapshot()

	s.False(s.board.Place(-1, 0))
	s.False(s.board.Place(0, 10))
	s.False(s.board.Place(10, 10))

	s.Equal(before, s.board.Snapshot())
	s.Equal(Black, s.board.CurrentPlayer())
}

func (s *BoardSuite) TestPlaceRejectsOccupiedCell() {
	s.Require().True(s.board.Place(4, 4))
	s.Equal(White, s.board.CurrentPlayer())

	s.False(s.board.Place(4, 4))
	s.Equal(White, s.board.CurrentPlayer())
	s.Equal(Black, s.board.At(Position{Row: 4, Col: 4}))
}

func (s *BoardSuite) TestHorizontalWinOnFifthStone() {
	line := []Position{{4, 4}, {4, 5}, {4, 6}, {4, 7}, {4, 8}}
	fillers := []Position{{0, 0}, {0, 2}, {0, 4}, {0, 6}}

	s.playLine(line[:4], fillers)
	over, winner := s.board.Status()
	s.False(over)
	s.Equal(Empty, winner)

	s.Require().True(s.board.Place(4, 8))
	over, winner = s.board.Status()
	s.True(over)
	s.Equal(Black, winner)
	s.Equal(OutcomeWon, s.board.Outcome())
	// The winner stays current
	s.Equal(Black, s.board.CurrentPlayer())
}

func (s *BoardSuite) TestWinOnEveryAxis() {
	cases := []struct {
		name string
		line []Position
	}{
		{"horizontal", []Position{{4, 1}, {4, 2}, {4, 3}, {4, 4}, {4, 5}}},
		{"vertical", []Position{{2, 3}, {3, 3}, {4, 3}, {5, 3}, {6, 3}}},
		{"diagonal", []Position{{2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}}},
		{"anti-diagonal", []Position{{2, 7}, {3, 6}, {4, 5}, {5, 4}, {6, 3}}},
	}
	fillers := []Position{{9, 0}, {9, 2}, {9, 4}, {9, 6}}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.board = NewBoard(DefaultBoardSize)
			s.playLine(tc.line[:4], fillers)
			over, _ := s.board.Status()
			s.False(over, "no win after four stones")

			last := tc.line[4]
			s.Require().True(s.board.Place(last.Row, last.Col))
			over, winner := s.board.Status()
			s.True(over)
			s.Equal(Black, winner)
		})
	}
}

func (s *BoardSuite) TestWinCompletedInTheMiddle() {
	line := []Position{{4, 1}, {4, 2}, {4, 4}, {4, 5}}
	fillers := []Position{{9, 0}, {9, 2}, {9, 4}, {9, 6}}
	s.playLine(line, fillers)

	s.Require().True(s.board.Place(4, 3))
	over, winner := s.board.Status()
	s.True(over)
	s.Equal(Black, winner)
}

func (s *BoardSuite) TestNoMovesAfterWin() {
	line := []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}
	fillers := []Position{{9, 0}, {9, 2}, {9, 4}, {9, 6}}
	s.playLine(line, fillers)
	s.Require().True(s.board.IsOver())

	s.False(s.board.Place(5, 5))
	s.Equal(Empty, s.board.At(Position{Row: 5, Col: 5}))
}

func (s *BoardSuite) TestFullBoardWithoutFiveIsDraw() {
	var blacks, whites []Position
	for row := 0; row < DefaultBoardSize; row++ {
		for col := 0; col < DefaultBoardSize; col++ {
			if (col+row/2)%2 == 0 {
				blacks = append(blacks, Position{Row: row, Col: col})
			} else {
				whites = append(whites, Position{Row: row, Col: col})
			}
		}
	}
	s.Require().Len(blacks, 50)
	s.Require().Len(whites, 50)

	for i := range blacks {
		s.Require().True(s.board.Place(blacks[i].Row, blacks[i].Col))
		s.Require().True(s.board.Place(whites[i].Row, whites[i].Col))
	}

	over, winner := s.board.Status()
	s.True(over)
	s.Equal(Empty, winner)
	s.Equal(OutcomeDraw, s.board.Outcome())
	s.Empty(s.board.ValidMoves())
}

func (s *BoardSuite) TestValidMovesRowMajor() {
	board := NewBoard(5)
	s.Require().True(board.Place(0, 1))
	s.Require().True(board.Place(2, 0))

	moves := board.ValidMoves()
	s.Len(moves, 23)
	s.Equal(Position{Row: 0, Col: 0}, moves[0])
	s.Equal(Position{Row: 0, Col: 2}, moves[1])
	s.Equal(Position{Row: 1, Col: 4}, moves[8])
	s.Equal(Position{Row: 2, Col: 1}, moves[9])
	s.Equal(Position{Row: 4, Col: 4}, moves[22])
}

func (s *BoardSuite) TestSnapshotIsIndependent() {
	s.Require().True(s.board.Place(3, 3))
	snap := s.board.Snapshot()
	snap[3][3] = White
	snap[0][0] = Black

	s.Equal(Black, s.board.At(Position{Row: 3, Col: 3}))
	s.Equal(Empty, s.board.At(Position{Row: 0, Col: 0}))
}

func (s *BoardSuite) TestPlayAndUnplayRestoreState() {
	s.Require().True(s.board.Place(4, 4))
	s.Require().True(s.board.Place(5, 5))
	before := s.board.Snapshot()

	undo := s.board.Play(Position{Row: 0, Col: 0}, White)
	s.Equal(White, s.board.At(Position{Row: 0, Col: 0}))
	s.Equal(Black, s.board.CurrentPlayer())
	s.board.Unplay(undo)

	s.Equal(before, s.board.Snapshot())
	s.Equal(Black, s.board.CurrentPlayer())
	last, _ := s.board.LastMove()
	s.Equal(Position{Row: 5, Col: 5}, last)
	s.Equal(98, s.board.EmptyCount())
}

func (s *BoardSuite) TestUnplayRevertsWin() {
	line := []Position{{4, 4}, {4, 5}, {4, 6}, {4, 7}}
	fillers := []Position{{0, 0}, {0, 2}, {0, 4}, {0, 6}}
	s.playLine(line, fillers)

	undo := s.board.Play(Position{Row: 4, Col: 8}, Black)
	s.True(s.board.IsOver())
	s.board.Unplay(undo)

	over, winner := s.board.Status()
	s.False(over)
	s.Equal(Empty, winner)
	s.Equal(Black, s.board.CurrentPlayer())
}

func (s *BoardSuite) TestWouldWinDoesNotMutate() {
	line := []Position{{4, 4}, {4, 5}, {4, 6}, {4, 7}}
	fillers := []Position{{0, 0}, {0, 2}, {0, 4}, {0, 6}}
	s.playLine(line, fillers)
	before := s.board.Snapshot()

	s.True(s.board.WouldWin(Position{Row: 4, Col: 3}, Black))
	s.True(s.board.WouldWin(Position{Row: 4, Col: 8}, Black))
	s.False(s.board.WouldWin(Position{Row: 4, Col: 3}, White))
	s.False(s.board.WouldWin(Position{Row: 4, Col: 4}, Black), "occupied cell")

	s.Equal(before, s.board.Snapshot())
}

func (s *BoardSuite) TestResetClearsEverything() {
	s.Require().True(s.board.Place(4, 4))
	s.board.Reset()

	s.Equal(100, len(s.board.ValidMoves()))
	s.Equal(Black, s.board.CurrentPlayer())
	s.Equal(OutcomeInProgress, s.board.Outcome())
}

func (s *BoardSuite) TestCenterRoundsDownOnEvenBoards() {
	cases := map[int]Position{
		5:  {Row: 2, Col: 2},
		6:  {Row: 2, Col: 2},
		9:  {Row: 4, Col: 4},
		10: {Row: 4, Col: 4},
		15: {Row: 7, Col: 7},
		25: {Row: 12, Col: 12},
	}
	for size, want := range cases {
		s.Equal(want, NewBoard(size).Center(), "size %d", size)
	}
}

func (s *BoardSuite) TestValidateBoardSize() {
	s.NoError(ValidateBoardSize(10))
	s.NoError(ValidateBoardSize(MinBoardSize))
	s.NoError(ValidateBoardSize(MaxBoardSize))
	s.ErrorIs(ValidateBoardSize(4), ErrInvalidBoardSize)
	s.ErrorIs(ValidateBoardSize(26), ErrInvalidBoardSize)
}
