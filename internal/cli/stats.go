package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show game statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats
			if err := client.Get("/api/v1/stats", &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear all statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/stats"); err != nil {
				return err
			}

			outputFor(cmd).PrintMessage("Statistics reset")
			return nil
		},
	})

	return cmd
}
