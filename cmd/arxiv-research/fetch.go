// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <paper-id>",
	Short: "Fetch the full text of an arXiv paper",
	Long: `Fetch retrieves the HTML rendering of a paper from ar5iv, falling back
to arxiv.org/html, and prints its title and plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("max-chars", 0, "truncate content to N characters (default from config)")
	fetchCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	c := cfg
	if maxChars, _ := cmd.Flags().GetInt("max-chars"); maxChars > 0 {
		c.Agent.ContentMaxChars = maxChars
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	res := newToolset(c, nil).FetchPaperContent(cmd.Context(), session.NewState(), args[0])
	if res.Status != types.StatusSuccess {
		return fmt.Errorf("fetch: %s", res.Message)
	}
	if asJSON {
		return writeJSON(os.Stdout, res)
	}
	fmt.Fprintf(os.Stdout, "%s\n\n%s\n", res.Title, res.Content)
	if res.Truncated {
		fmt.Fprintf(os.Stdout, "\n[truncated at %d characters]\n", c.Agent.ContentMaxChars)
	}
	return nil
}
