package evaluation

import (
	"sync"

	"github.com/mcoot/gomoku-go/internal/model"
)

const (
	// WinScore is returned for a position the evaluated player has won
	WinScore = 10000
	// RunScale multiplies the weighted run length of each axis
	RunScale = 10
)

// Evaluator scores positions from one player's point of view.
// Weight tables are built lazily per board size and shared between callers.
type Evaluator struct {
	mu     sync.RWMutex
	tables map[int]*WeightTable
}

// New creates a new Evaluator
func New() *Evaluator {
	return &Evaluator{tables: make(map[int]*WeightTable)}
}

// Table returns the weight table for a board size, building it on first use
func (e *Evaluator) Table(size int) *WeightTable {
	e.mu.RLock()
	t, ok := e.tables[size]
	e.mu.RUnlock()
	if ok {
		return t
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.tables[size]; ok {
		return t
	}
	t = NewWeightTable(size)
	e.tables[size] = t
	return t
}

// Evaluate scores board for self. Finished games score ±WinScore (0 for a draw);
// otherwise each axis contributes the difference between the players' best weighted runs.
// It never caches; search.Engine looks positions up in its evalcache before calling it.
func (e *Evaluator) Evaluate(board *model.Board, self, opponent model.Stone) int {
	if over, winner := board.Status(); over {
		switch winner {
		case self:
			return WinScore
		case opponent:
			return -WinScore
		default:
			return 0
		}
	}

	table := e.Table(board.Size())
	var selfBest, oppBest [len(model.Axes)]int

	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			pos := model.Position{Row: row, Col: col}
			stone := board.At(pos)
			var best *[len(model.Axes)]int
			switch stone {
			case self:
				best = &selfBest
			case opponent:
				best = &oppBest
			default:
				continue
			}

			weight := table.At(pos)
			for i, axis := range model.Axes {
				if v := board.RunThrough(pos, axis, stone) * weight; v > best[i] {
					best[i] = v
				}
			}
		}
	}

	score := 0
	for i := range model.Axes {
		score += RunScale*selfBest[i] - RunScale*oppBest[i]
	}
	return score
}

// MaxHeuristic is the largest magnitude the non-terminal heuristic can reach on a board of size
func MaxHeuristic(size int) int {
	return len(model.Axes) * (model.WinLength - 1) * NewWeightTable(size).Max() * RunScale
}
