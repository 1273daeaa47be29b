// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded research sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "maximum sessions to list")
	sessionsCmd.Flags().Bool("json", false, "output sessions as JSON")
	sessionsCmd.Flags().String("export", "", "write all sessions to a .json or .yaml file instead of listing")

	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		n, err := session.Export(cmd.Context(), store, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d sessions to %s\n", n, path)
		return nil
	}

	records, err := store.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if asJSON {
		return writeJSON(os.Stdout, records)
	}
	printSessions(os.Stdout, records)
	return nil
}

func printSessions(w io.Writer, records []types.SessionRecord) {
	fmt.Fprintf(w, "%-36s  %-20s  %-9s  %-5s  %-6s  %s\n", "ID", "STARTED", "STATUS", "CALLS", "PAPERS", "QUERY")
	for _, r := range records {
		fmt.Fprintf(w, "%-36s  %-20s  %-9s  %-5d  %-6d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.CallsUsed, len(r.PapersRead), truncate(r.Query, 60))
	}
	fmt.Fprintf(w, "\n%d sessions\n", len(records))
}
