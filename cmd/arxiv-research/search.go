// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search arXiv for recent papers",
	Long: `Search queries the arXiv API for papers matching a query within the
configured categories, newest first, and drops papers published before
the recency cutoff. arXiv query syntax such as "ti:transformer" or
"au:bengio" is passed through.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search query (required)")
	searchCmd.Flags().Int("days-back", 0, "only keep papers from the last N days, 1-30 (default from config)")
	searchCmd.Flags().Int("max-results", 10, "maximum papers to request, 1-50")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	daysBack, _ := cmd.Flags().GetInt("days-back")
	if daysBack == 0 {
		daysBack = cfg.Agent.DefaultDaysBack
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")

	res := newToolset(cfg, nil).SearchPapers(cmd.Context(), session.NewState(), query, daysBack, maxResults)
	if res.Status != types.StatusSuccess {
		return fmt.Errorf("search: %s", res.Message)
	}
	if asJSON {
		return writeJSON(os.Stdout, res)
	}
	printPapers(os.Stdout, res)
	return nil
}

func printPapers(w io.Writer, res types.SearchToolResult) {
	fmt.Fprintf(w, "%-4s  %-18s  %-20s  %-50s  %s\n", "#", "ID", "PUBLISHED", "TITLE", "AUTHORS")
	for i, p := range res.Papers {
		fmt.Fprintf(w, "%-4d  %-18s  %-20s  %-50s  %s\n",
			i+1, p.ID, p.Published, truncate(p.Title, 50), strings.Join(p.Authors, ", "))
	}
	fmt.Fprintf(w, "\n%d results\n", res.TotalFound)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
