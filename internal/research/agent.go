// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxiv-research/internal/docstore"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

// Tools is what an agent may call during a run. Every call acts on the
// run's own session.
type Tools interface {
	SearchPapers(ctx context.Context, query string, daysBack, maxResults int) types.SearchToolResult
	FetchPaperContent(ctx context.Context, paperID string) types.ContentToolResult
	SaveDocument(ctx context.Context, doc docstore.Document) types.SaveToolResult
}

// Agent drives one research run. It returns an error only when the run as
// a whole failed; individual tool failures come back as tool results.
type Agent interface {
	Run(ctx context.Context, prompt string, req types.ResearchRequest, tools Tools) error
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, prompt string, req types.ResearchRequest, tools Tools) error

func (f AgentFunc) Run(ctx context.Context, prompt string, req types.ResearchRequest, tools Tools) error {
	return f(ctx, prompt, req, tools)
}

const excerptChars = 1200

// PipelineAgent is a fixed-plan agent: one search, read the newest papers
// until MaxPapers have been read, save a digest.
type PipelineAgent struct{}

// Run implements Agent.
func (PipelineAgent) Run(ctx context.Context, _ string, req types.ResearchRequest, tools Tools) error {
	found := tools.SearchPapers(ctx, req.Query, req.DaysBack, req.MaxPapers)
	if found.Status == types.StatusError {
		return fmt.Errorf("searching %q: %s", req.Query, found.Message)
	}

	var read []readPaper
	for _, p := range found.Papers {
		if len(read) >= req.MaxPapers {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		content := tools.FetchPaperContent(ctx, p.ID)
		if content.Status != types.StatusSuccess {
			continue
		}
		read = append(read, readPaper{summary: p, content: content})
	}

	saved := tools.SaveDocument(ctx, digest(req, found, read))
	if saved.Status != types.StatusSuccess {
		return fmt.Errorf("saving document: %s", saved.Message)
	}
	return nil
}

type readPaper struct {
	summary types.PaperSummary
	content types.ContentToolResult
}

func digest(req types.ResearchRequest, found types.SearchToolResult, read []readPaper) docstore.Document {
	doc := docstore.Document{Title: "Research digest: " + req.Query}

	var overview strings.Builder
	fmt.Fprintf(&overview, "Searched arXiv for %q over the last %d days. ", req.Query, req.DaysBack)
	fmt.Fprintf(&overview, "Found %d papers and read %d in full.", found.TotalFound, len(read))
	if found.Status == types.StatusLimitReached {
		overview.WriteString("\n\nThe search call limit was reached before this run could search.")
	}
	doc.Sections = append(doc.Sections, docstore.Section{Heading: "Overview", Body: overview.String()})

	for _, r := range read {
		var b strings.Builder
		fmt.Fprintf(&b, "[%s](%s)\n\n", r.summary.ID, r.summary.URL)
		if len(r.summary.Authors) > 0 {
			fmt.Fprintf(&b, "Authors: %s\n\n", strings.Join(r.summary.Authors, ", "))
		}
		fmt.Fprintf(&b, "Published: %s\n\n", r.summary.Published)
		fmt.Fprintf(&b, "%s\n\n", r.summary.Abstract)
		excerpt := r.content.Content
		if len([]rune(excerpt)) > excerptChars {
			excerpt = string([]rune(excerpt)[:excerptChars]) + "..."
		}
		fmt.Fprintf(&b, "> %s", excerpt)
		doc.Sections = append(doc.Sections, docstore.Section{Heading: r.summary.Title, Body: b.String()})
	}

	var refs strings.Builder
	for _, p := range found.Papers {
		fmt.Fprintf(&refs, "- [%s](%s)\n", p.Title, p.URL)
	}
	if refs.Len() > 0 {
		doc.Sections = append(doc.Sections, docstore.Section{Heading: "References", Body: refs.String()})
	}
	return doc
}
