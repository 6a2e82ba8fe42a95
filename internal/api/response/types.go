package response

import (
	"strings"
	"time"

	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/auth"
	"github.com/mcoot/gomoku-go/internal/services/history"
	"github.com/mcoot/gomoku-go/internal/services/search"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Side describes who plays one colour
type Side struct {
	Controller string `json:"controller"` // "human" or "engine"
	Difficulty string `json:"difficulty,omitempty"`
}

// SideFromModel converts model.SideConfig
func SideFromModel(c model.SideConfig) Side {
	if !c.Engine {
		return Side{Controller: "human"}
	}
	return Side{Controller: "engine", Difficulty: c.Difficulty.String()}
}

// Move represents one move in a match record
type Move struct {
	Number      int       `json:"number"`
	Player      string    `json:"player"`
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	PlayedAt    time.Time `json:"played_at"`
	ByEngine    bool      `json:"by_engine,omitempty"`
	ThinkTimeMS int64     `json:"think_time_ms,omitempty"`
}

// MoveFromModel converts model.Move
func MoveFromModel(m model.Move) Move {
	return Move{
		Number:      m.Number,
		Player:      m.Player.String(),
		Row:         m.Position.Row,
		Col:         m.Position.Col,
		PlayedAt:    m.PlayedAt,
		ByEngine:    m.ByEngine,
		ThinkTimeMS: m.ThinkTime.Milliseconds(),
	}
}

// RenderGrid renders a grid as one string per row using X for black, O for white and . for empty
func RenderGrid(g model.Grid) []string {
	rows := make([]string, len(g))
	for i, row := range g {
		var b strings.Builder
		for _, cell := range row {
			b.WriteByte(cell.Symbol())
		}
		rows[i] = b.String()
	}
	return rows
}

// Match is the full state of a match
type Match struct {
	ID         string     `json:"id"`
	Mode       string     `json:"mode"`
	BoardSize  int        `json:"board_size"`
	Black      Side       `json:"black"`
	White      Side       `json:"white"`
	Board      []string   `json:"board"`
	Moves      []Move     `json:"moves"`
	NextPlayer string     `json:"next_player,omitempty"` // Empty once finished
	Outcome    string     `json:"outcome"`
	Winner     string     `json:"winner,omitempty"`
	Resigned   bool       `json:"resigned,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// MatchFromModel converts a match, replaying its moves to render the board
func MatchFromModel(m *model.Match) (Match, error) {
	board, err := m.Board()
	if err != nil {
		return Match{}, err
	}

	moves := make([]Move, len(m.Moves))
	for i, mv := range m.Moves {
		moves[i] = MoveFromModel(mv)
	}

	resp := Match{
		ID:         string(m.ID),
		Mode:       string(m.Mode),
		BoardSize:  m.BoardSize,
		Black:      SideFromModel(m.Black),
		White:      SideFromModel(m.White),
		Board:      RenderGrid(board.Snapshot()),
		Moves:      moves,
		Outcome:    string(m.Outcome),
		Resigned:   m.Resigned,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		FinishedAt: m.FinishedAt,
	}
	if m.Winner.IsPlayer() {
		resp.Winner = m.Winner.String()
	}
	if !m.IsFinished() {
		resp.NextPlayer = m.NextPlayer().String()
	}
	return resp, nil
}

// MatchSummary is a compact history entry
type MatchSummary struct {
	ID         string     `json:"id"`
	Mode       string     `json:"mode"`
	BoardSize  int        `json:"board_size"`
	Outcome    string     `json:"outcome"`
	Winner     string     `json:"winner,omitempty"`
	Resigned   bool       `json:"resigned,omitempty"`
	Moves      int        `json:"moves"`
	DurationMS int64      `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// MatchSummaryFromModel converts a match to its history entry
func MatchSummaryFromModel(m *model.Match) MatchSummary {
	s := MatchSummary{
		ID:         string(m.ID),
		Mode:       string(m.Mode),
		BoardSize:  m.BoardSize,
		Outcome:    string(m.Outcome),
		Resigned:   m.Resigned,
		Moves:      len(m.Moves),
		DurationMS: m.Duration().Milliseconds(),
		CreatedAt:  m.CreatedAt,
		FinishedAt: m.FinishedAt,
	}
	if m.Winner.IsPlayer() {
		s.Winner = m.Winner.String()
	}
	return s
}

// History is the response for GET /history
type History struct {
	Matches []MatchSummary `json:"matches"`
}

// Suggestion is the response for GET /matches/{id}/suggestion
type Suggestion struct {
	Player string `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// Frame is one replay step
type Frame struct {
	MatchID    string   `json:"match_id"`
	Step       int      `json:"step"`
	Total      int      `json:"total"`
	Board      []string `json:"board"`
	LastMove   *Move    `json:"last_move,omitempty"`
	NextPlayer string   `json:"next_player,omitempty"`
	Outcome    string   `json:"outcome"`
	Winner     string   `json:"winner,omitempty"`
}

// FrameFromHistory converts a history.Frame
func FrameFromHistory(f *history.Frame) Frame {
	resp := Frame{
		MatchID: string(f.MatchID),
		Step:    f.Step,
		Total:   f.Total,
		Board:   RenderGrid(f.Grid),
		Outcome: string(f.Outcome),
	}
	if f.LastMove != nil {
		mv := MoveFromModel(*f.LastMove)
		resp.LastMove = &mv
	}
	if f.NextPlayer.IsPlayer() {
		resp.NextPlayer = f.NextPlayer.String()
	}
	if f.Winner.IsPlayer() {
		resp.Winner = f.Winner.String()
	}
	return resp
}

// SearchInfo summarizes an engine's latest decision
type SearchInfo struct {
	Mode        string `json:"mode"`
	Nodes       int    `json:"nodes"`
	Candidates  int    `json:"candidates"`
	CacheHits   int    `json:"cache_hits"`
	CacheMisses int    `json:"cache_misses"`
	DurationMS  int64  `json:"duration_ms"`
}

// SearchInfoFromStats converts search.Stats
func SearchInfoFromStats(s search.Stats) SearchInfo {
	return SearchInfo{
		Mode:        string(s.Mode),
		Nodes:       s.Nodes,
		Candidates:  s.Candidates,
		CacheHits:   s.CacheHits,
		CacheMisses: s.CacheMisses,
		DurationMS:  s.Duration.Milliseconds(),
	}
}

// Difficulty describes one engine profile
type Difficulty struct {
	Name              string  `json:"name"`
	DisplayName       string  `json:"display_name"`
	Depth             int     `json:"depth"`
	RandomFactor      float64 `json:"random_factor"`
	UseSearch         bool    `json:"use_search"`
	MaxCandidateMoves int     `json:"max_candidate_moves"`
}

// Difficulties lists every profile from weakest to strongest
func Difficulties() []Difficulty {
	out := make([]Difficulty, 0, 4)
	for _, d := range model.ValidDifficulties() {
		p := d.Profile()
		out = append(out, Difficulty{
			Name:              d.String(),
			DisplayName:       d.DisplayName(),
			Depth:             p.Depth,
			RandomFactor:      p.RandomFactor,
			UseSearch:         p.UseSearch,
			MaxCandidateMoves: p.MaxCandidateMoves,
		})
	}
	return out
}

// Stats is the response for GET /stats
type Stats struct {
	TotalGames        int            `json:"total_games"`
	BlackWins         int            `json:"black_wins"`
	WhiteWins         int            `json:"white_wins"`
	Draws             int            `json:"draws"`
	BlackWinRate      float64        `json:"black_win_rate"`
	WhiteWinRate      float64        `json:"white_win_rate"`
	DrawRate          float64        `json:"draw_rate"`
	GamesByMode       map[string]int `json:"games_by_mode"`
	TotalMoves        int            `json:"total_moves"`
	AverageMoves      float64        `json:"average_moves"`
	AverageDurationMS int64          `json:"average_duration_ms"`
	LongestGameMS     int64          `json:"longest_game_ms"`
	ShortestGameMS    int64          `json:"shortest_game_ms"`
	EngineWins        int            `json:"engine_wins"`
	EngineLosses      int            `json:"engine_losses"`
	EngineDraws       int            `json:"engine_draws"`
	EngineWinRate     float64        `json:"engine_win_rate"`
}

// StatsFromModel combines the raw aggregate with its derived summary
func StatsFromModel(st *model.Statistics, sum model.StatsSummary) Stats {
	byMode := make(map[string]int, len(st.GamesByMode))
	for mode, n := range st.GamesByMode {
		byMode[string(mode)] = n
	}
	return Stats{
		TotalGames:        st.TotalGames,
		BlackWins:         st.BlackWins,
		WhiteWins:         st.WhiteWins,
		Draws:             st.Draws,
		BlackWinRate:      sum.BlackWinRate,
		WhiteWinRate:      sum.WhiteWinRate,
		DrawRate:          sum.DrawRate,
		GamesByMode:       byMode,
		TotalMoves:        st.TotalMoves,
		AverageMoves:      sum.AverageMoves,
		AverageDurationMS: sum.AverageDuration.Milliseconds(),
		LongestGameMS:     st.LongestGame.Milliseconds(),
		ShortestGameMS:    st.ShortestGame.Milliseconds(),
		EngineWins:        st.Engine.Wins,
		EngineLosses:      st.Engine.Losses,
		EngineDraws:       st.Engine.Draws,
		EngineWinRate:     sum.EngineWinRate,
	}
}

// ImportResult is the response for POST /history/import
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// ImportResultFromHistory converts history.ImportResult
func ImportResultFromHistory(r *history.ImportResult) ImportResult {
	skipped := make([]string, len(r.Skipped))
	for i, id := range r.Skipped {
		skipped[i] = string(id)
	}
	return ImportResult{Imported: r.Imported, Skipped: skipped}
}
