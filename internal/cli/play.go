package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/dependencies/random"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/evalcache"
	"github.com/mcoot/gomoku-go/internal/services/evaluation"
	"github.com/mcoot/gomoku-go/internal/services/search"
)

const playCacheSize = 50_000

func newPlayCmd() *cobra.Command {
	var (
		size       int
		difficulty string
		side       string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play against the engine locally",
		Long: `Play a match against the engine in this terminal, without a server.

Enter moves as "row col" (0-indexed). Type "hint" for a suggestion
or "quit" to abandon the match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.ValidateBoardSize(size); err != nil {
				return err
			}
			d, err := model.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			human, err := model.ParseStone(strings.ToLower(side))
			if err != nil {
				return err
			}

			logger := slog.New(slog.DiscardHandler)
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			game, err := newLocalGame(size, human, d, clock.New(), random.New(), logger)
			if err != nil {
				return err
			}
			return game.run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&size, "size", model.DefaultBoardSize, "Board size")
	cmd.Flags().StringVar(&difficulty, "difficulty", model.DefaultDifficulty.String(), "Engine difficulty: easy, medium, hard, expert")
	cmd.Flags().StringVar(&side, "side", "black", "Your side: black or white")

	return cmd
}

// localGame runs a single human-vs-engine match on a terminal
type localGame struct {
	board  *model.Board
	human  model.Stone
	engine *search.Engine
	hints  *search.Engine
}

func newLocalGame(size int, human model.Stone, d model.Difficulty, clk clock.Clock, rnd random.Random, logger *slog.Logger) (*localGame, error) {
	cache, err := evalcache.New(evalcache.Config{Size: playCacheSize})
	if err != nil {
		return nil, err
	}
	evaluator := evaluation.New()

	hints := search.NewEngine(human, model.DifficultyExpert, evaluator, nil, clk, rnd, logger)
	profile := hints.Profile()
	profile.RandomFactor = 0
	hints.SetProfile(profile)

	return &localGame{
		board:  model.NewBoard(size),
		human:  human,
		engine: search.NewEngine(human.Opponent(), d, evaluator, cache, clk, rnd, logger),
		hints:  hints,
	}, nil
}

func (g *localGame) run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "You are %s (%c) against the %s engine\n", g.human, g.human.Symbol(), g.engine.Difficulty())

	for !g.board.IsOver() {
		if g.board.CurrentPlayer() != g.human {
			pos, ok := g.engine.ChooseMove(g.board)
			if !ok || !g.board.Place(pos.Row, pos.Col) {
				return fmt.Errorf("engine failed to move")
			}
			fmt.Fprintf(out, "Engine plays %d %d\n", pos.Row, pos.Col)
			continue
		}

		fmt.Fprintln(out)
		renderBoard(out, boardRows(g.board), g.lastMove())
		fmt.Fprintf(out, "Your move (%s): ", g.human)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nMatch abandoned")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(out, "Match abandoned")
			return nil
		case "hint":
			if pos, ok := g.hints.ChooseMove(g.board); ok {
				fmt.Fprintf(out, "Try %d %d\n", pos.Row, pos.Col)
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Fprintln(out, `Enter a move as "row col"`)
			continue
		}
		row, col, err := parseCoords(fields[0], fields[1])
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if !g.board.Place(row, col) {
			fmt.Fprintf(out, "Illegal move %d %d\n", row, col)
		}
	}

	fmt.Fprintln(out)
	renderBoard(out, boardRows(g.board), g.lastMove())
	switch _, winner := g.board.Status(); winner {
	case g.human:
		fmt.Fprintln(out, "You win!")
	case model.Empty:
		fmt.Fprintln(out, "Draw")
	default:
		fmt.Fprintln(out, "The engine wins")
	}
	return nil
}

func (g *localGame) lastMove() *Move {
	pos, ok := g.board.LastMove()
	if !ok {
		return nil
	}
	return &Move{Row: pos.Row, Col: pos.Col}
}

// boardRows renders each board row as a string of X, O and .
func boardRows(b *model.Board) []string {
	grid := b.Snapshot()
	rows := make([]string, len(grid))
	for i, row := range grid {
		buf := make([]byte, len(row))
		for j, stone := range row {
			buf[j] = stone.Symbol()
		}
		rows[i] = string(buf)
	}
	return rows
}
