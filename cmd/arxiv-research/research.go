// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run a research session and save a digest document",
	Long: `Research runs one session: search arXiv, read the newest matching
papers, and save a Markdown digest under the output directory. The session
response is printed as JSON and recorded in the session history.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("query", "", "research query (required)")
	researchCmd.Flags().Int("max-papers", 0, "papers to analyze, 1-50 (default from config)")
	researchCmd.Flags().Int("days-back", 0, "search window in days, 1-30 (default from config)")
	_ = researchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	daysBack, _ := cmd.Flags().GetInt("days-back")

	store, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := newService(cfg, store, prometheus.NewRegistry())
	resp := svc.Run(cmd.Context(), types.ResearchRequest{Query: query, MaxPapers: maxPapers, DaysBack: daysBack})
	if err := writeJSON(os.Stdout, resp); err != nil {
		return err
	}
	if resp.Status == types.RunError {
		return fmt.Errorf("research session %s failed", resp.SessionID)
	}
	return nil
}
