package model

import "time"

// Statistics is the running aggregate of one player's finished matches
type Statistics struct {
	PlayerID      PlayerID          `json:"player_id"`
	TotalGames    int               `json:"total_games"`
	BlackWins     int               `json:"black_wins"`
	WhiteWins     int               `json:"white_wins"`
	Draws         int               `json:"draws"`
	GamesByMode   map[MatchMode]int `json:"games_by_mode"`
	TotalMoves    int               `json:"total_moves"`
	TotalDuration time.Duration     `json:"total_duration"`
	LongestGame   time.Duration     `json:"longest_game"`
	ShortestGame  time.Duration     `json:"shortest_game"` // 0 until a timed game is recorded
	Engine        EngineRecord      `json:"engine"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// EngineRecord counts results from the engine's point of view in vs_ai matches
type EngineRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// NewStatistics returns an empty aggregate for a player
func NewStatistics(playerID PlayerID) *Statistics {
	return &Statistics{
		PlayerID:    playerID,
		GamesByMode: make(map[MatchMode]int),
	}
}

// StatsSummary is the derived, presentation-ready view of Statistics
type StatsSummary struct {
	TotalGames      int               `json:"total_games"`
	BlackWinRate    float64           `json:"black_win_rate"` // Percent
	WhiteWinRate    float64           `json:"white_win_rate"`
	DrawRate        float64           `json:"draw_rate"`
	AverageMoves    float64           `json:"average_moves"`
	AverageDuration time.Duration     `json:"average_duration"`
	LongestGame     time.Duration     `json:"longest_game"`
	ShortestGame    time.Duration     `json:"shortest_game"`
	GamesByMode     map[MatchMode]int `json:"games_by_mode"`
	Engine          EngineRecord      `json:"engine"`
	EngineWinRate   float64           `json:"engine_win_rate"`
}

// Clone returns a deep copy that shares no mutable state with s
func (s *Statistics) Clone() *Statistics {
	out := *s
	out.GamesByMode = make(map[MatchMode]int, len(s.GamesByMode))
	for mode, n := range s.GamesByMode {
		out.GamesByMode[mode] = n
	}
	return &out
}
