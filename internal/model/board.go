package model

import "fmt"

const (
	// WinLength is the run of same-colour stones that wins the game
	WinLength = 5

	DefaultBoardSize = 10
	MinBoardSize     = WinLength
	MaxBoardSize     = 25
)

// Position identifies a cell on the board
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Axes are the four undirected lines a run can lie on: horizontal, vertical and both diagonals
var Axes = [4]Position{
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
	{Row: 1, Col: -1},
}

// Grid is a row-major copy of the board cells: Grid[row][col]
type Grid [][]Stone

// NewGrid creates an empty size x size grid
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for i := range g {
		g[i] = make([]Stone, size)
	}
	return g
}

// Clone returns an independent copy of the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Stone, len(row))
		copy(out[i], row)
	}
	return out
}

// Size returns the grid dimension
func (g Grid) Size() int {
	return len(g)
}

// Outcome is the lifecycle state of a board
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeDraw       Outcome = "draw"
)

// ValidateBoardSize checks a requested board size against the supported range
func ValidateBoardSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// Board is the game state machine. It is not safe for concurrent use.
type Board struct {
	size     int
	cells    Grid
	empty    int
	current  Stone
	lastMove Position
	hasLast  bool
	outcome  Outcome
	winner   Stone
}

// NewBoard creates an empty board with Black to move
func NewBoard(size int) *Board {
	if size < 1 {
		panic(fmt.Sprintf("model: invalid board size %d", size))
	}
	b := &Board{size: size}
	b.Reset()
	return b
}

// Reset discards all state and starts a fresh game
func (b *Board) Reset() {
	b.cells = NewGrid(b.size)
	b.empty = b.size * b.size
	b.current = Black
	b.lastMove = Position{}
	b.hasLast = false
	b.outcome = OutcomeInProgress
	b.winner = Empty
}

// Size returns the board dimension
func (b *Board) Size() int {
	return b.size
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.size && pos.Col >= 0 && pos.Col < b.size
}

// At returns the stone at pos, or Empty when out of range
func (b *Board) At(pos Position) Stone {
	if !b.IsValidPosition(pos) {
		return Empty
	}
	return b.cells[pos.Row][pos.Col]
}

// IsEmpty returns true if the cell is on the board and unoccupied
func (b *Board) IsEmpty(pos Position) bool {
	return b.IsValidPosition(pos) && b.cells[pos.Row][pos.Col] == Empty
}

// EmptyCount returns the number of unoccupied cells
func (b *Board) EmptyCount() int {
	return b.empty
}

// StoneCount returns the number of stones on the board
func (b *Board) StoneCount() int {
	return b.size*b.size - b.empty
}

// CurrentPlayer returns the player whose turn it is
func (b *Board) CurrentPlayer() Stone {
	return b.current
}

// LastMove returns the most recent placement, if any
func (b *Board) LastMove() (Position, bool) {
	return b.lastMove, b.hasLast
}

// Outcome returns the lifecycle state
func (b *Board) Outcome() Outcome {
	return b.outcome
}

// Status reports whether the game is over and who won (Empty for a draw or an unfinished game)
func (b *Board) Status() (bool, Stone) {
	return b.outcome != OutcomeInProgress, b.winner
}

// IsOver is shorthand for the first value of Status
func (b *Board) IsOver() bool {
	return b.outcome != OutcomeInProgress
}

// Snapshot returns a copy of the grid that callers may freely modify
func (b *Board) Snapshot() Grid {
	return b.cells.Clone()
}

// ValidMoves returns every empty cell in row-major order
func (b *Board) ValidMoves() []Position {
	moves := make([]Position, 0, b.empty)
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			if b.cells[row][col] == Empty {
				moves = append(moves, Position{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Place puts the current player's stone at (row, col).
// Returns false without touching the board if the cell is off the board or occupied,
// or if the game has already finished.
func (b *Board) Place(row, col int) bool {
	pos := Position{Row: row, Col: col}
	if b.IsOver() || !b.IsEmpty(pos) {
		return false
	}
	b.Play(pos, b.current)
	return true
}

// Undo restores the state that existed before a Play call
type Undo struct {
	pos      Position
	current  Stone
	lastMove Position
	hasLast  bool
	outcome  Outcome
	winner   Stone
}

// Play places stone at pos regardless of whose turn it is and returns a record for Unplay.
// The caller guarantees pos is an empty cell on the board; search uses this for speculative moves.
func (b *Board) Play(pos Position, stone Stone) Undo {
	undo := Undo{
		pos:      pos,
		current:  b.current,
		lastMove: b.lastMove,
		hasLast:  b.hasLast,
		outcome:  b.outcome,
		winner:   b.winner,
	}

	b.cells[pos.Row][pos.Col] = stone
	b.empty--
	b.lastMove = pos
	b.hasLast = true

	switch {
	case b.isWinAt(pos, stone):
		b.outcome = OutcomeWon
		b.winner = stone
		b.current = stone
	case b.empty == 0:
		b.outcome = OutcomeDraw
		b.winner = Empty
		b.current = stone.Opponent()
	default:
		b.current = stone.Opponent()
	}
	return undo
}

// Unplay reverts a Play. Undo records must be applied in reverse order.
func (b *Board) Unplay(u Undo) {
	b.cells[u.pos.Row][u.pos.Col] = Empty
	b.empty++
	b.current = u.current
	b.lastMove = u.lastMove
	b.hasLast = u.hasLast
	b.outcome = u.outcome
	b.winner = u.winner
}

// WouldWin reports whether placing stone at the empty cell pos would complete a line of five
func (b *Board) WouldWin(pos Position, stone Stone) bool {
	if !b.IsEmpty(pos) {
		return false
	}
	for _, axis := range Axes {
		if b.RunThrough(pos, axis, stone) >= WinLength {
			return true
		}
	}
	return false
}

// RunThrough returns the length of the run of stone through pos along axis, counting pos itself
func (b *Board) RunThrough(pos Position, axis Position, stone Stone) int {
	return 1 + b.countFrom(pos, axis, stone) + b.countFrom(pos, Position{Row: -axis.Row, Col: -axis.Col}, stone)
}

// isWinAt walks each axis outward from the freshly placed stone and stops as soon as
// one axis reaches WinLength
func (b *Board) isWinAt(pos Position, stone Stone) bool {
	for _, axis := range Axes {
		count := 1
		for _, dir := range [2]Position{axis, {Row: -axis.Row, Col: -axis.Col}} {
			r, c := pos.Row+dir.Row, pos.Col+dir.Col
			for r >= 0 && r < b.size && c >= 0 && c < b.size && b.cells[r][c] == stone {
				count++
				if count >= WinLength {
					return true
				}
				r += dir.Row
				c += dir.Col
			}
		}
	}
	return false
}

// countFrom counts contiguous stones starting one step from pos in direction dir
func (b *Board) countFrom(pos Position, dir Position, stone Stone) int {
	count := 0
	r, c := pos.Row+dir.Row, pos.Col+dir.Col
	for r >= 0 && r < b.size && c >= 0 && c < b.size && b.cells[r][c] == stone {
		count++
		r += dir.Row
		c += dir.Col
	}
	return count
}

// Center returns the opening cell ((N-1)/2, (N-1)/2), the upper-left of the middle four on even boards
func (b *Board) Center() Position {
	c := (b.size - 1) / 2
	return Position{Row: c, Col: c}
}
