package evalcache

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mcoot/gomoku-go/internal/model"
)

// Config holds configuration for the evaluation cache
type Config struct {
	// Size is the maximum number of cached positions
	Size int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{Size: 200_000}
}

// Stats reports cache effectiveness
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Cache maps position fingerprints to scores. Scores are only meaningful for the
// player they were computed for, so each engine owns its own Cache.
type Cache struct {
	entries *lru.Cache[string, int]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates a bounded cache
func New(cfg Config) (*Cache, error) {
	entries, err := lru.New[string, int](cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("create evaluation cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached score for key
func (c *Cache) Get(key string) (int, bool) {
	score, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return score, ok
}

// Put stores a score, evicting the least recently used entry when full
func (c *Cache) Put(key string, score int) {
	c.entries.Add(key, score)
}

// Clear drops every entry and resets the counters
func (c *Cache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len returns the number of cached positions
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats returns the hit/miss counters since the last Clear
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}

// Fingerprint is the canonical key of a grid: the size, a colon, then one digit per cell
// ('0' empty, '1' black, '2' white) in row-major order
func Fingerprint(grid model.Grid) string {
	size := grid.Size()
	var sb strings.Builder
	sb.Grow(4 + size*size)
	sb.WriteString(strconv.Itoa(size))
	sb.WriteByte(':')
	for _, row := range grid {
		for _, cell := range row {
			sb.WriteByte('0' + byte(cell))
		}
	}
	return sb.String()
}

// BoardFingerprint is Fingerprint for a live board, without copying its grid
func BoardFingerprint(board *model.Board) string {
	size := board.Size()
	var sb strings.Builder
	sb.Grow(4 + size*size)
	sb.WriteString(strconv.Itoa(size))
	sb.WriteByte(':')
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			sb.WriteByte('0' + byte(board.At(model.Position{Row: row, Col: col})))
		}
	}
	return sb.String()
}
