package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Finished match history",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryImportCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List finished matches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/history"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result History
			if err := client.Get(path, &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of matches to show")

	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export finished matches as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc json.RawMessage
			if err := client.Get("/api/v1/history/export", &doc); err != nil {
				return err
			}

			if file == "" || file == "-" {
				_, err := cmd.OutOrStdout().Write(append(doc, '\n'))
				return err
			}

			if err := os.WriteFile(file, doc, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			outputFor(cmd).PrintMessage("Exported to " + file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	return cmd
}

func newHistoryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import matches from an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			if !json.Valid(data) {
				return fmt.Errorf("%s is not valid JSON", args[0])
			}

			var result ImportResult
			if err := client.Post("/api/v1/history/import", json.RawMessage(data), &result); err != nil {
				return err
			}

			outputFor(cmd).Print(result)
			return nil
		},
	}
}
