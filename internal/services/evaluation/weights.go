package evaluation

import "github.com/mcoot/gomoku-go/internal/model"

// WeightTable holds the positional value of each cell: its distance to the nearest edge.
// A table is immutable once built.
type WeightTable struct {
	size    int
	weights [][]int
	max     int
}

// NewWeightTable builds the table for a size x size board
func NewWeightTable(size int) *WeightTable {
	t := &WeightTable{size: size, weights: make([][]int, size)}
	for row := 0; row < size; row++ {
		t.weights[row] = make([]int, size)
		for col := 0; col < size; col++ {
			w := min(row, col, size-1-row, size-1-col)
			t.weights[row][col] = w
			t.max = max(t.max, w)
		}
	}
	return t
}

// Size returns the board dimension the table was built for
func (t *WeightTable) Size() int {
	return t.size
}

// At returns the weight of pos, or 0 when it is off the board
func (t *WeightTable) At(pos model.Position) int {
	if pos.Row < 0 || pos.Row >= t.size || pos.Col < 0 || pos.Col >= t.size {
		return 0
	}
	return t.weights[pos.Row][pos.Col]
}

// Max returns the largest weight in the table
func (t *WeightTable) Max() int {
	return t.max
}
