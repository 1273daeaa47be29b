// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes the operations a research agent calls: search
// papers, fetch paper content and save the final document. Every operation
// takes the session state as a borrowed handle, enforces the search call
// budget on it, and reports outcomes as structured results rather than Go
// errors.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/arxiv-research/internal/docstore"
	"github.com/pdiddy/arxiv-research/internal/fetch"
	"github.com/pdiddy/arxiv-research/internal/metrics"
	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

// Searcher queries the paper index.
type Searcher interface {
	Search(ctx context.Context, query string, daysBack, maxResults int) (types.SearchResult, error)
}

// ContentFetcher retrieves the full text of one paper.
type ContentFetcher interface {
	Fetch(ctx context.Context, paperID string) (*types.PaperContent, error)
}

// Toolset holds the collaborators shared by all sessions. It keeps no
// per-session data of its own.
type Toolset struct {
	searcher Searcher
	fetcher  ContentFetcher
	docs     docstore.Store
	cfg      types.AgentConfig
	budget   session.Budget
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

// New builds a Toolset. docs may be nil when documents are never saved; m
// may be nil to disable instrumentation.
func New(s Searcher, f ContentFetcher, docs docstore.Store, cfg types.AgentConfig, log logrus.FieldLogger, m *metrics.Metrics) *Toolset {
	return &Toolset{
		searcher: s,
		fetcher:  f,
		docs:     docs,
		cfg:      cfg,
		budget:   session.Budget{MaxCalls: cfg.MaxArxivCalls},
		log:      log,
		metrics:  m,
	}
}

// Budget returns the search call budget applied to every session.
func (t *Toolset) Budget() session.Budget { return t.budget }

// SearchPapers runs one budgeted search. A session that has used all of its
// calls gets a limit_reached result and its state is not touched. Otherwise
// the call is counted before the search runs, so a failing search still
// uses quota.
func (t *Toolset) SearchPapers(ctx context.Context, st *session.State, query string, daysBack, maxResults int) types.SearchToolResult {
	remaining, ok := t.budget.TryConsume(st)
	if !ok {
		t.log.WithFields(logrus.Fields{
			"query":     query,
			"max_calls": t.budget.MaxCalls,
		}).Info("search rejected: call budget exhausted")
		t.metrics.SearchCall(metrics.OutcomeRejected, 0)
		return types.SearchToolResult{
			Status:         types.StatusLimitReached,
			Papers:         []types.PaperSummary{},
			CallsRemaining: 0,
			Message:        fmt.Sprintf("ArXiv API call limit reached (%d calls max).", t.budget.MaxCalls),
		}
	}

	daysBack = clamp(daysBack, types.MinDaysBack, types.MaxDaysBack)
	maxResults = clamp(maxResults, types.MinMaxResults, types.MaxMaxResults)

	result, err := t.searcher.Search(ctx, query, daysBack, maxResults)
	if err != nil {
		t.log.WithError(err).WithField("query", query).Warn("search failed")
		t.metrics.SearchCall(metrics.OutcomeError, 0)
		return types.SearchToolResult{
			Status:         types.StatusError,
			Papers:         []types.PaperSummary{},
			CallsRemaining: remaining,
			Message:        fmt.Sprintf("search failed: %v", err),
		}
	}

	papers := make([]types.PaperSummary, 0, len(result.Papers))
	for _, p := range result.Papers {
		papers = append(papers, normalizePaper(p, t.cfg.AbstractMaxChars, t.cfg.MaxAuthors))
	}
	t.metrics.SearchCall(metrics.OutcomeSuccess, len(papers))

	return types.SearchToolResult{
		Status:         types.StatusSuccess,
		Papers:         papers,
		TotalFound:     result.TotalFound(),
		CallsRemaining: remaining,
	}
}

// FetchPaperContent retrieves a paper's text. On success the paper id is
// appended to the session's papers-read list and the content is cut to the
// configured maximum. On failure the list is unchanged.
func (t *Toolset) FetchPaperContent(ctx context.Context, st *session.State, paperID string) types.ContentToolResult {
	content, err := t.fetcher.Fetch(ctx, paperID)
	if err != nil || content == nil {
		if err != nil && !errors.Is(err, fetch.ErrContentUnavailable) {
			t.log.WithError(err).WithField("paper_id", paperID).Warn("fetch failed")
		}
		t.metrics.FetchResult(false)
		return types.ContentToolResult{
			Status:  types.StatusError,
			PaperID: paperID,
			Message: fmt.Sprintf("Could not fetch paper %s. It may not have an HTML version.", paperID),
		}
	}

	st.RecordRead(paperID)
	t.metrics.FetchResult(true)

	text, truncated := truncateRunes(content.Content, t.cfg.ContentMaxChars)
	return types.ContentToolResult{
		Status:    types.StatusSuccess,
		PaperID:   content.PaperID,
		Title:     content.Title,
		Content:   text,
		Truncated: truncated,
	}
}

// SaveDocument stores doc and records its URL in the session state.
func (t *Toolset) SaveDocument(ctx context.Context, st *session.State, doc docstore.Document) types.SaveToolResult {
	if t.docs == nil {
		return types.SaveToolResult{Status: types.StatusError, Message: "no document store configured"}
	}
	url, err := t.docs.Save(ctx, doc)
	if err != nil {
		t.log.WithError(err).WithField("title", doc.Title).Warn("saving document failed")
		return types.SaveToolResult{
			Status:  types.StatusError,
			Message: fmt.Sprintf("saving document: %v", err),
		}
	}
	st.SetString(session.KeyDocumentURL, url)
	return types.SaveToolResult{
		Status:  types.StatusSuccess,
		URL:     url,
		Message: "Document saved successfully.",
	}
}

// Bind returns the toolset bound to one session. The returned Session must
// not be kept past the run that owns st.
func (t *Toolset) Bind(sessionID string, st *session.State) *Session {
	return &Session{ID: sessionID, tools: t, state: st}
}

// Session is a Toolset bound to one session's state.
type Session struct {
	ID    string
	tools *Toolset
	state *session.State
}

func (s *Session) SearchPapers(ctx context.Context, query string, daysBack, maxResults int) types.SearchToolResult {
	return s.tools.SearchPapers(ctx, s.state, query, daysBack, maxResults)
}

func (s *Session) FetchPaperContent(ctx context.Context, paperID string) types.ContentToolResult {
	return s.tools.FetchPaperContent(ctx, s.state, paperID)
}

// SaveDocument tags doc with the session id and papers read before saving.
func (s *Session) SaveDocument(ctx context.Context, doc docstore.Document) types.SaveToolResult {
	if doc.SessionID == "" {
		doc.SessionID = s.ID
	}
	if len(doc.Papers) == 0 {
		doc.Papers = s.state.PapersRead()
	}
	return s.tools.SaveDocument(ctx, s.state, doc)
}

// normalizePaper shapes a paper for the agent.
func normalizePaper(p types.Paper, abstractMax, maxAuthors int) types.PaperSummary {
	abstract, cut := truncateRunes(p.Abstract, abstractMax)
	if cut {
		abstract += "..."
	}
	authors := p.Authors
	if maxAuthors > 0 && len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}
	return types.PaperSummary{
		ID:         p.ID,
		Title:      p.Title,
		Abstract:   abstract,
		Authors:    append([]string(nil), authors...),
		Published:  p.Published.UTC().Format(time.RFC3339),
		URL:        p.URL,
		PDFURL:     p.PDFURL,
		Categories: p.Categories,
	}
}

// truncateRunes cuts s to at most n runes. n <= 0 means no limit.
func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 || len(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
