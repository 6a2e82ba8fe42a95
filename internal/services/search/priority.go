package search

import (
	"math"
	"slices"

	"github.com/mcoot/gomoku-go/internal/model"
)

const (
	winPriority   = 1000
	blockPriority = 800
	// neighbourRadius is the Chebyshev distance within which stones add priority
	neighbourRadius = 2
	centreBonus     = 10
)

// candidates returns moves unchanged when there are at most limit of them (or limit <= 0),
// otherwise the limit highest-priority moves. Equal priorities keep their enumeration order.
func (e *Engine) candidates(board *model.Board, moves []model.Position, limit int) []model.Position {
	if limit <= 0 || len(moves) <= limit {
		return moves
	}

	type scored struct {
		pos      model.Position
		priority int
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		ranked[i] = scored{pos: m, priority: e.priority(board, m)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.priority - a.priority
	})

	out := make([]model.Position, limit)
	for i := range out {
		out[i] = ranked[i].pos
	}
	return out
}

// priority ranks an empty cell by tactical urgency, stone density nearby and centrality
func (e *Engine) priority(board *model.Board, pos model.Position) int {
	p := 0
	if board.WouldWin(pos, e.self) {
		p += winPriority
	}
	if board.WouldWin(pos, e.self.Opponent()) {
		p += blockPriority
	}

	for dr := -neighbourRadius; dr <= neighbourRadius; dr++ {
		for dc := -neighbourRadius; dc <= neighbourRadius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := model.Position{Row: pos.Row + dr, Col: pos.Col + dc}
			if board.At(n) != model.Empty {
				p += 10 + (3-(abs(dr)+abs(dc)))*5
			}
		}
	}

	ctr := float64(board.Size()-1) / 2
	dist := math.Abs(float64(pos.Row)-ctr) + math.Abs(float64(pos.Col)-ctr)
	if bonus := centreBonus - int(dist); bonus > 0 {
		p += bonus
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
