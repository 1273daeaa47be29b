// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

// BuildPrompt renders the opening message handed to the agent.
func BuildPrompt(req types.ResearchRequest) string {
	return fmt.Sprintf(`Research query: %s

Parameters:
- Search papers from the last %d days
- Analyze up to %d papers

Please search arXiv, read relevant papers, and save a research summary document.`,
		req.Query, req.DaysBack, req.MaxPapers)
}
