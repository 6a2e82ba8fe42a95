package search

import (
	"log/slog"
	"math"
	"time"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/dependencies/random"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/evalcache"
	"github.com/mcoot/gomoku-go/internal/services/evaluation"
)

// Strategy chooses moves for one side of a match
type Strategy interface {
	// ChooseMove returns the move to play on board, or false if none is legal
	ChooseMove(board *model.Board) (model.Position, bool)
}

// Mode records which path produced a move
type Mode string

const (
	ModeNone    Mode = "none"
	ModeOpening Mode = "opening"
	ModeRandom  Mode = "random"
	ModeSimple  Mode = "simple"
	ModeSearch  Mode = "search"
)

// Stats describes the most recent ChooseMove call
type Stats struct {
	Mode        Mode           `json:"mode"`
	Move        model.Position `json:"move"`
	Score       int            `json:"score"` // Only set by ModeSearch
	Candidates  int            `json:"candidates"`
	Nodes       int            `json:"nodes"`
	CacheHits   int            `json:"cache_hits"`
	CacheMisses int            `json:"cache_misses"`
	Duration    time.Duration  `json:"duration"`
}

// Engine plays one colour. It is not safe for concurrent use and mutates the board
// it is given while searching, always restoring it before returning.
type Engine struct {
	self       model.Stone
	difficulty model.Difficulty
	profile    model.DifficultyProfile
	evaluator  *evaluation.Evaluator
	cache      *evalcache.Cache
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	last       Stats
}

// Ensure Engine implements Strategy
var _ Strategy = (*Engine)(nil)

// NewEngine creates an engine playing self at the given difficulty.
// cache may be nil to disable evaluation caching.
func NewEngine(
	self model.Stone,
	difficulty model.Difficulty,
	evaluator *evaluation.Evaluator,
	cache *evalcache.Cache,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		self:       self,
		difficulty: difficulty,
		profile:    difficulty.Profile(),
		evaluator:  evaluator,
		cache:      cache,
		clock:      clk,
		random:     rnd,
		logger: logger.With(
			slog.String("component", "search-engine"),
			slog.String("side", self.String()),
		),
	}
}

// Self returns the colour the engine plays
func (e *Engine) Self() model.Stone {
	return e.self
}

// Difficulty returns the configured difficulty
func (e *Engine) Difficulty() model.Difficulty {
	return e.difficulty
}

// Profile returns the active profile
func (e *Engine) Profile() model.DifficultyProfile {
	return e.profile
}

// SetDifficulty switches to the profile of d and clears cached evaluations
func (e *Engine) SetDifficulty(d model.Difficulty) {
	e.difficulty = d
	e.SetProfile(d.Profile())
}

// SetProfile installs a custom profile and clears cached evaluations
func (e *Engine) SetProfile(p model.DifficultyProfile) {
	e.profile = p
	if e.cache != nil {
		e.cache.Clear()
	}
}

// LastSearch returns statistics for the previous ChooseMove call
func (e *Engine) LastSearch() Stats {
	return e.last
}

// ChooseMove picks a move for the engine's colour. The board must have the engine to move.
func (e *Engine) ChooseMove(board *model.Board) (model.Position, bool) {
	start := e.clock.Now()
	e.last = Stats{Mode: ModeNone}
	defer func() {
		e.last.Duration = e.clock.Now().Sub(start)
		e.logger.Debug("move chosen",
			slog.String("mode", string(e.last.Mode)),
			slog.String("move", e.last.Move.String()),
			slog.Int("nodes", e.last.Nodes),
			slog.Duration("duration", e.last.Duration),
		)
	}()

	if board.IsOver() {
		return model.Position{}, false
	}
	moves := board.ValidMoves()
	if len(moves) == 0 {
		return model.Position{}, false
	}

	var move model.Position
	switch {
	case len(moves) == board.Size()*board.Size():
		e.last.Mode = ModeOpening
		move = board.Center()
	case e.random.Float64() < e.profile.RandomFactor:
		e.last.Mode = ModeRandom
		move = moves[e.random.Intn(len(moves))]
	case !e.profile.UseSearch:
		e.last.Mode = ModeSimple
		move = e.simpleMove(board, moves)
	default:
		e.last.Mode = ModeSearch
		move, e.last.Score = e.searchMove(board, moves)
	}

	e.last.Move = move
	return move, true
}

// centerPreference lists offsets from the centre cell tried by simple mode
var centerPreference = [...]model.Position{
	{Row: 0, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
	{Row: -1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 2, Col: 0},
	{Row: 0, Col: 2},
}

// simpleMove wins if it can, blocks if it must, and otherwise heads for the centre
func (e *Engine) simpleMove(board *model.Board, moves []model.Position) model.Position {
	for _, m := range moves {
		if board.WouldWin(m, e.self) {
			return m
		}
	}
	opponent := e.self.Opponent()
	for _, m := range moves {
		if board.WouldWin(m, opponent) {
			return m
		}
	}

	c := board.Center()
	for _, off := range centerPreference {
		pos := model.Position{Row: c.Row + off.Row, Col: c.Col + off.Col}
		if board.IsEmpty(pos) {
			return pos
		}
	}
	return moves[e.random.Intn(len(moves))]
}

// searchMove runs a fixed-depth alpha-beta search over the most promising root moves
func (e *Engine) searchMove(board *model.Board, moves []model.Position) (model.Position, int) {
	candidates := e.candidates(board, moves, e.profile.MaxCandidateMoves)
	e.last.Candidates = len(candidates)
	depth := max(e.profile.Depth, 1)

	best := candidates[0]
	bestScore := math.MinInt
	for _, m := range candidates {
		score := e.scoreMove(board, m, e.self, depth-1, false, math.MinInt, math.MaxInt)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

// scoreMove plays pos for stone, searches the resulting position and takes the stone back
func (e *Engine) scoreMove(board *model.Board, pos model.Position, stone model.Stone, depth int, maximizing bool, alpha, beta int) int {
	undo := board.Play(pos, stone)
	defer board.Unplay(undo)
	return e.minimax(board, depth, maximizing, alpha, beta)
}

func (e *Engine) minimax(board *model.Board, depth int, maximizing bool, alpha, beta int) int {
	e.last.Nodes++
	if depth <= 0 || board.IsOver() {
		return e.evaluate(board)
	}

	candidates := e.candidates(board, board.ValidMoves(), e.profile.MaxReplyMoves)
	if maximizing {
		value := math.MinInt
		for _, m := range candidates {
			value = max(value, e.scoreMove(board, m, e.self, depth-1, false, alpha, beta))
			alpha = max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.MaxInt
	opponent := e.self.Opponent()
	for _, m := range candidates {
		value = min(value, e.scoreMove(board, m, opponent, depth-1, true, alpha, beta))
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value
}

// evaluate scores the board for the engine, consulting the cache first
func (e *Engine) evaluate(board *model.Board) int {
	if e.cache == nil {
		return e.evaluator.Evaluate(board, e.self, e.self.Opponent())
	}

	key := evalcache.BoardFingerprint(board)
	if score, ok := e.cache.Get(key); ok {
		e.last.CacheHits++
		return score
	}
	e.last.CacheMisses++
	score := e.evaluator.Evaluate(board, e.self, e.self.Opponent())
	e.cache.Put(key, score)
	return score
}
