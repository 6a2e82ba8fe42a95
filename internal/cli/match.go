package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchMoveCmd())
	cmd.AddCommand(newMatchAIMoveCmd())
	cmd.AddCommand(newMatchSuggestCmd())
	cmd.AddCommand(newMatchDifficultyCmd())
	cmd.AddCommand(newMatchResignCmd())
	cmd.AddCommand(newMatchReplayCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	var (
		mode            string
		size            int
		side            string
		difficulty      string
		blackDifficulty string
		whiteDifficulty string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new match",
		Long: `Start a new match.

Modes:
  vs_ai       You against the engine (default)
  two_player  Both sides played from this account
  ai_battle   Engine against engine, advanced with 'match ai-move'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"mode": mode}
			if size > 0 {
				req["board_size"] = size
			}
			if side != "" {
				req["human_side"] = side
			}
			if difficulty != "" {
				req["difficulty"] = difficulty
			}
			if blackDifficulty != "" {
				req["black_difficulty"] = blackDifficulty
			}
			if whiteDifficulty != "" {
				req["white_difficulty"] = whiteDifficulty
			}

			var result Match
			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "vs_ai", "Match mode: vs_ai, two_player, ai_battle")
	cmd.Flags().IntVar(&size, "size", 0, "Board size (server default if omitted)")
	cmd.Flags().StringVar(&side, "side", "", "Your side in vs_ai: black or white")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Engine difficulty in vs_ai")
	cmd.Flags().StringVar(&blackDifficulty, "black", "", "Black engine difficulty in ai_battle")
	cmd.Flags().StringVar(&whiteDifficulty, "white", "", "White engine difficulty in ai_battle")

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <match-id>",
		Short: "Show the current state of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Get(matchPath(args[0], ""), &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newMatchMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <match-id> <row> <col>",
		Short: "Place a stone for the player to move",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCoords(args[1], args[2])
			if err != nil {
				return err
			}

			req := map[string]int{"row": row, "col": col}
			var result Match
			if err := client.Post(matchPath(args[0], "/moves"), req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newMatchAIMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ai-move <match-id>",
		Short: "Ask the engine to play for the side to move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Post(matchPath(args[0], "/ai-move"), nil, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newMatchSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <match-id>",
		Short: "Get a move suggestion without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Suggestion
			if err := client.Get(matchPath(args[0], "/suggestion"), &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newMatchDifficultyCmd() *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "difficulty <match-id> <difficulty>",
		Short: "Change an engine's difficulty mid-match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if side == "" {
				var current Match
				if err := client.Get(matchPath(args[0], ""), &current); err != nil {
					return err
				}
				var err error
				if side, err = engineSide(current); err != nil {
					return err
				}
			}

			req := map[string]string{"difficulty": args[1], "side": side}

			var result Match
			if err := client.Patch(matchPath(args[0], "/difficulty"), req, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "", "Engine side to change: black or white (the only engine in vs_ai)")

	return cmd
}

func newMatchResignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resign <match-id>",
		Short: "Resign the match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Post(matchPath(args[0], "/resign"), nil, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

func newMatchReplayCmd() *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "replay <match-id>",
		Short: "Show the board after a given number of moves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := matchPath(args[0], "/replay")
			if cmd.Flags().Changed("step") {
				path += "?step=" + strconv.Itoa(step)
			}

			var result Frame
			if err := client.Get(path, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "Number of moves to replay (default: all)")

	return cmd
}

func newDifficultiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "difficulties",
		Short: "List engine difficulty levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DifficultyList
			if err := client.Get("/api/v1/difficulties", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}

// engineSide picks the only engine-controlled side of m
func engineSide(m Match) (string, error) {
	black := m.Black.Controller == "engine"
	white := m.White.Controller == "engine"
	switch {
	case black && white:
		return "", fmt.Errorf("both sides are engines, --side is required")
	case black:
		return "black", nil
	case white:
		return "white", nil
	default:
		return "", fmt.Errorf("match %s has no engine player", m.ID)
	}
}

func matchPath(id, suffix string) string {
	return "/api/v1/matches/" + url.PathEscape(id) + suffix
}

// parseCoords parses a row and column argument pair
func parseCoords(rowArg, colArg string) (int, int, error) {
	row, err := strconv.Atoi(rowArg)
	if err != nil {
		return 0, 0, fmt.Errorf("row must be a number: %s", rowArg)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil {
		return 0, 0, fmt.Errorf("col must be a number: %s", colArg)
	}
	return row, col, nil
}
