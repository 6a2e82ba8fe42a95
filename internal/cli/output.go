package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Match:
		o.printMatch(v)
	case Suggestion:
		fmt.Fprintf(o.w, "Suggested move for %s: %d %d\n", v.Player, v.Row, v.Col)
	case Frame:
		o.printFrame(v)
	case History:
		o.printHistory(v)
	case Stats:
		o.printStats(v)
	case DifficultyList:
		o.printDifficulties(v)
	case ImportResult:
		fmt.Fprintf(o.w, "Imported: %d\n", v.Imported)
		if len(v.Skipped) > 0 {
			fmt.Fprintf(o.w, "Skipped (already present): %s\n", strings.Join(v.Skipped, ", "))
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Side response type
type Side struct {
	Controller string `json:"controller"`
	Difficulty string `json:"difficulty,omitempty"`
}

func (s Side) String() string {
	if s.Difficulty == "" {
		return s.Controller
	}
	return s.Controller + " (" + s.Difficulty + ")"
}

// Move response type
type Move struct {
	Number      int       `json:"number"`
	Player      string    `json:"player"`
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	PlayedAt    time.Time `json:"played_at"`
	ByEngine    bool      `json:"by_engine,omitempty"`
	ThinkTimeMS int64     `json:"think_time_ms,omitempty"`
}

// Match response type
type Match struct {
	ID         string   `json:"id"`
	Mode       string   `json:"mode"`
	BoardSize  int      `json:"board_size"`
	Black      Side     `json:"black"`
	White      Side     `json:"white"`
	Board      []string `json:"board"`
	Moves      []Move   `json:"moves"`
	NextPlayer string   `json:"next_player,omitempty"`
	Outcome    string   `json:"outcome"`
	Winner     string   `json:"winner,omitempty"`
	Resigned   bool     `json:"resigned,omitempty"`
}

// Suggestion response type
type Suggestion struct {
	Player string `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// Frame response type
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

// MatchSummary response type
type MatchSummary struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	BoardSize  int       `json:"board_size"`
	Outcome    string    `json:"outcome"`
	Winner     string    `json:"winner,omitempty"`
	Resigned   bool      `json:"resigned,omitempty"`
	Moves      int       `json:"moves"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// History response type
type History struct {
	Matches []MatchSummary `json:"matches"`
}

// Stats response type
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

// Difficulty response type
type Difficulty struct {
	Name              string  `json:"name"`
	DisplayName       string  `json:"display_name"`
	Depth             int     `json:"depth"`
	RandomFactor      float64 `json:"random_factor"`
	UseSearch         bool    `json:"use_search"`
	MaxCandidateMoves int     `json:"max_candidate_moves"`
}

// DifficultyList response type
type DifficultyList struct {
	Difficulties []Difficulty `json:"difficulties"`
}

// ImportResult response type
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printMatch(m Match) {
	fmt.Fprintf(o.w, "Match: %s\n", m.ID)
	fmt.Fprintf(o.w, "Mode: %s  Board: %dx%d\n", m.Mode, m.BoardSize, m.BoardSize)
	fmt.Fprintf(o.w, "Black: %s  White: %s\n", m.Black, m.White)
	fmt.Fprintln(o.w)
	renderBoard(o.w, m.Board, lastMovePtr(m.Moves))
	fmt.Fprintln(o.w)

	if n := len(m.Moves); n > 0 {
		last := m.Moves[n-1]
		fmt.Fprintf(o.w, "Last move: #%d %s at %d %d", last.Number, last.Player, last.Row, last.Col)
		if last.ByEngine {
			fmt.Fprintf(o.w, " (engine, %dms)", last.ThinkTimeMS)
		}
		fmt.Fprintln(o.w)
	}
	fmt.Fprintln(o.w, resultLine(m.Outcome, m.Winner, m.Resigned, m.NextPlayer))
}

func (o *Output) printFrame(f Frame) {
	fmt.Fprintf(o.w, "Match: %s  Step %d/%d\n\n", f.MatchID, f.Step, f.Total)
	renderBoard(o.w, f.Board, f.LastMove)
	fmt.Fprintln(o.w)
	fmt.Fprintln(o.w, resultLine(f.Outcome, f.Winner, false, f.NextPlayer))
}

func (o *Output) printHistory(h History) {
	if len(h.Matches) == 0 {
		fmt.Fprintln(o.w, "No finished matches")
		return
	}
	for _, m := range h.Matches {
		result := m.Outcome
		if m.Winner != "" {
			result = m.Winner + " won"
			if m.Resigned {
				result += " by resignation"
			}
		}
		fmt.Fprintf(o.w, "%s  %-10s %2dx%-2d %3d moves  %-24s %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Mode, m.BoardSize, m.BoardSize, m.Moves, result, m.ID)
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Games: %d\n", s.TotalGames)
	fmt.Fprintf(o.w, "Black wins: %d (%.1f%%)\n", s.BlackWins, s.BlackWinRate)
	fmt.Fprintf(o.w, "White wins: %d (%.1f%%)\n", s.WhiteWins, s.WhiteWinRate)
	fmt.Fprintf(o.w, "Draws: %d (%.1f%%)\n", s.Draws, s.DrawRate)
	fmt.Fprintf(o.w, "Average moves: %.1f\n", s.AverageMoves)
	fmt.Fprintf(o.w, "Average duration: %s\n", time.Duration(s.AverageDurationMS)*time.Millisecond)
	fmt.Fprintf(o.w, "Engine: %d-%d-%d (%.1f%% wins)\n", s.EngineWins, s.EngineLosses, s.EngineDraws, s.EngineWinRate)
	for mode, n := range s.GamesByMode {
		fmt.Fprintf(o.w, "  %s: %d\n", mode, n)
	}
}

func (o *Output) printDifficulties(l DifficultyList) {
	for _, d := range l.Difficulties {
		search := "simple"
		if d.UseSearch {
			search = fmt.Sprintf("depth %d, %d candidates", d.Depth, d.MaxCandidateMoves)
		}
		fmt.Fprintf(o.w, "%-8s random %.0f%%  %s\n", d.Name, d.RandomFactor*100, search)
	}
}

func lastMovePtr(moves []Move) *Move {
	if len(moves) == 0 {
		return nil
	}
	return &moves[len(moves)-1]
}

func resultLine(outcome, winner string, resigned bool, next string) string {
	switch {
	case winner != "" && resigned:
		return "Result: " + winner + " wins by resignation"
	case winner != "":
		return "Result: " + winner + " wins"
	case outcome == "draw":
		return "Result: draw"
	case next != "":
		return "To move: " + next
	default:
		return "Status: " + outcome
	}
}

// renderBoard prints rows of X/O/. with coordinates, bracketing the last move
func renderBoard(w io.Writer, rows []string, last *Move) {
	size := len(rows)
	if size == 0 {
		return
	}

	fmt.Fprint(w, "    ")
	for col := 0; col < size; col++ {
		fmt.Fprintf(w, "%2d ", col)
	}
	fmt.Fprintln(w)

	for row, line := range rows {
		fmt.Fprintf(w, "%2d  ", row)
		for col := 0; col < len(line); col++ {
			if last != nil && last.Row == row && last.Col == col {
				fmt.Fprintf(w, "[%c]", line[col])
			} else {
				fmt.Fprintf(w, " %c ", line[col])
			}
		}
		fmt.Fprintln(w)
	}
}
