// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-research/internal/docstore"
	"github.com/pdiddy/arxiv-research/internal/fetch"
	"github.com/pdiddy/arxiv-research/internal/logging"
	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

type fakeSearcher struct {
	mu     sync.Mutex
	calls  int
	last   [2]int
	papers []types.Paper
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, query string, daysBack, maxResults int) (types.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = [2]int{daysBack, maxResults}
	if f.err != nil {
		return types.SearchResult{}, f.err
	}
	return types.SearchResult{Query: query, Papers: f.papers}, nil
}

type fakeFetcher struct {
	content map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, id string) (*types.PaperContent, error) {
	text, ok := f.content[id]
	if !ok {
		return nil, fmt.Errorf("%w for %s: %w", fetch.ErrContentUnavailable, id, errors.New("HTTP 404"))
	}
	return &types.PaperContent{PaperID: id, Title: "Title " + id, Content: text, Source: "ar5iv"}, nil
}

type fakeDocs struct {
	saved []docstore.Document
	err   error
}

func (f *fakeDocs) Save(_ context.Context, doc docstore.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, doc)
	return "file:///out/" + docstore.Slug(doc.Title) + ".md", nil
}

func testConfig() types.AgentConfig {
	return types.DefaultConfig().Agent
}

func newToolset(s Searcher, f ContentFetcher, d docstore.Store) *Toolset {
	return New(s, f, d, testConfig(), logging.Discard(), nil)
}

func samplePaper(id string) types.Paper {
	return types.Paper{
		ID:        id,
		Title:     "Paper " + id,
		Abstract:  "Short abstract.",
		Authors:   []string{"A"},
		Published: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		URL:       "http://arxiv.org/abs/" + id,
	}
}

func TestSearchPapers_Success(t *testing.T) {
	s := &fakeSearcher{papers: []types.Paper{samplePaper("2401.00001v1"), samplePaper("2401.00002v1")}}
	ts := newToolset(s, &fakeFetcher{}, nil)
	st := session.NewState()

	res := ts.SearchPapers(context.Background(), st, "diffusion models", 7, 5)

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.TotalFound)
	assert.Equal(t, 4, res.CallsRemaining)
	require.Len(t, res.Papers, 2)
	assert.Equal(t, "2401.00001v1", res.Papers[0].ID)
	assert.Equal(t, "2025-03-14T09:30:00Z", res.Papers[0].Published)
	assert.Equal(t, 1, st.CallsUsed())
	assert.Equal(t, [2]int{7, 5}, s.last)
}

func TestSearchPapers_ClampsArguments(t *testing.T) {
	s := &fakeSearcher{}
	ts := newToolset(s, &fakeFetcher{}, nil)

	ts.SearchPapers(context.Background(), session.NewState(), "q", 90, 500)
	assert.Equal(t, [2]int{30, 50}, s.last)

	ts.SearchPapers(context.Background(), session.NewState(), "q", 0, -3)
	assert.Equal(t, [2]int{1, 1}, s.last)
}

func TestSearchPapers_FailureStillConsumesQuota(t *testing.T) {
	s := &fakeSearcher{err: errors.New("arxiv search unavailable: HTTP 500")}
	ts := newToolset(s, &fakeFetcher{}, nil)
	st := session.NewState()

	res := ts.SearchPapers(context.Background(), st, "q", 7, 5)

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Message, "HTTP 500")
	assert.Empty(t, res.Papers)
	assert.Equal(t, 4, res.CallsRemaining)
	assert.Equal(t, 1, st.CallsUsed())
}

func TestSearchPapers_LimitReachedDoesNotMutate(t *testing.T) {
	s := &fakeSearcher{}
	ts := newToolset(s, &fakeFetcher{}, nil)
	st := session.NewState()
	st.SetInt(session.KeyCallsUsed, 5)

	res := ts.SearchPapers(context.Background(), st, "q", 7, 5)

	assert.Equal(t, types.StatusLimitReached, res.Status)
	assert.Equal(t, 0, res.CallsRemaining)
	assert.Contains(t, res.Message, "5 calls max")
	assert.Equal(t, 5, st.CallsUsed())
	assert.Equal(t, 0, s.calls, "searcher must not be called once the budget is spent")
}

func TestSearchPapers_BudgetSequence(t *testing.T) {
	s := &fakeSearcher{}
	ts := newToolset(s, &fakeFetcher{}, nil)
	st := session.NewState()

	for want := 4; want >= 0; want-- {
		res := ts.SearchPapers(context.Background(), st, "q", 7, 5)
		require.Equal(t, types.StatusSuccess, res.Status)
		assert.Equal(t, want, res.CallsRemaining)
	}
	res := ts.SearchPapers(context.Background(), st, "q", 7, 5)
	assert.Equal(t, types.StatusLimitReached, res.Status)
	assert.Equal(t, 5, s.calls)
	assert.Equal(t, 5, st.CallsUsed())
}

func TestNormalizePaper(t *testing.T) {
	p := samplePaper("2401.00001v2")
	p.Abstract = strings.Repeat("é", 510)
	p.Authors = []string{"A", "B", "C", "D", "E", "F", "G"}
	p.Published = time.Date(2025, 3, 14, 11, 30, 0, 0, time.FixedZone("", 2*3600))

	got := normalizePaper(p, 500, 5)

	assert.Equal(t, strings.Repeat("é", 500)+"...", got.Abstract)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got.Authors)
	assert.Equal(t, "2025-03-14T09:30:00Z", got.Published)
	assert.Len(t, p.Authors, 7, "source paper is not modified")
}

func TestNormalizePaper_ShortAbstractUnchanged(t *testing.T) {
	got := normalizePaper(samplePaper("x"), 500, 5)
	assert.Equal(t, "Short abstract.", got.Abstract)
	assert.Equal(t, []string{"A"}, got.Authors)
}

func TestTruncateRunes(t *testing.T) {
	s, cut := truncateRunes("héllo", 2)
	assert.Equal(t, "hé", s)
	assert.True(t, cut)

	s, cut = truncateRunes("héllo", 5)
	assert.Equal(t, "héllo", s)
	assert.False(t, cut)

	s, cut = truncateRunes("héllo", 0)
	assert.Equal(t, "héllo", s)
	assert.False(t, cut)
}

func TestFetchPaperContent_Success(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{content: map[string]string{"2401.00001v1": "full text"}}, nil)
	st := session.NewState()

	res := ts.FetchPaperContent(context.Background(), st, "2401.00001v1")

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, "2401.00001v1", res.PaperID)
	assert.Equal(t, "Title 2401.00001v1", res.Title)
	assert.Equal(t, "full text", res.Content)
	assert.False(t, res.Truncated)
	assert.Equal(t, []string{"2401.00001v1"}, st.PapersRead())
}

func TestFetchPaperContent_TruncatesLongContent(t *testing.T) {
	cfg := testConfig()
	cfg.ContentMaxChars = 10
	ts := New(&fakeSearcher{}, &fakeFetcher{content: map[string]string{"p": strings.Repeat("x", 25)}}, nil, cfg, logging.Discard(), nil)

	res := ts.FetchPaperContent(context.Background(), session.NewState(), "p")

	assert.Equal(t, strings.Repeat("x", 10), res.Content)
	assert.True(t, res.Truncated)
}

func TestFetchPaperContent_UnavailableLeavesListUnchanged(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{content: map[string]string{"a": "text"}}, nil)
	st := session.NewState()
	ts.FetchPaperContent(context.Background(), st, "a")

	res := ts.FetchPaperContent(context.Background(), st, "9999.99999")

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Message, "9999.99999")
	assert.Empty(t, res.Content)
	assert.Equal(t, []string{"a"}, st.PapersRead())
}

func TestFetchPaperContent_RepeatedReadsAreKept(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{content: map[string]string{"a": "text"}}, nil)
	st := session.NewState()
	ts.FetchPaperContent(context.Background(), st, "a")
	ts.FetchPaperContent(context.Background(), st, "a")
	assert.Equal(t, []string{"a", "a"}, st.PapersRead())
}

func TestSaveDocument(t *testing.T) {
	docs := &fakeDocs{}
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{content: map[string]string{"a": "text"}}, docs)
	st := session.NewState()
	bound := ts.Bind("sess-1", st)

	bound.FetchPaperContent(context.Background(), "a")
	res := bound.SaveDocument(context.Background(), docstore.Document{Title: "Digest"})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, "file:///out/digest.md", res.URL)
	assert.Equal(t, res.URL, st.GetString(session.KeyDocumentURL))
	require.Len(t, docs.saved, 1)
	assert.Equal(t, "sess-1", docs.saved[0].SessionID)
	assert.Equal(t, []string{"a"}, docs.saved[0].Papers)
}

func TestSaveDocument_Failure(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{}, &fakeDocs{err: errors.New("disk full")})
	st := session.NewState()

	res := ts.SaveDocument(context.Background(), st, docstore.Document{Title: "Digest"})

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Message, "disk full")
	assert.Empty(t, st.GetString(session.KeyDocumentURL))
}

func TestSaveDocument_NoStore(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{}, nil)
	res := ts.SaveDocument(context.Background(), session.NewState(), docstore.Document{Title: "x"})
	assert.Equal(t, types.StatusError, res.Status)
}

func TestBoundSessionSearchSharesState(t *testing.T) {
	ts := newToolset(&fakeSearcher{}, &fakeFetcher{}, nil)
	st := session.NewState()
	bound := ts.Bind("s", st)

	bound.SearchPapers(context.Background(), "q", 7, 5)
	bound.SearchPapers(context.Background(), "q", 7, 5)

	assert.Equal(t, 2, st.CallsUsed())
	assert.Equal(t, 3, ts.Budget().Remaining(st))
}
