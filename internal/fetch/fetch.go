// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the readable text of an arXiv paper from its HTML
// rendering, trying each configured source in order.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/arxiv-research/internal/httputil"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

// ErrContentUnavailable is returned when every source failed for a paper.
var ErrContentUnavailable = errors.New("content unavailable")

// Source is one place a paper's HTML rendering can be fetched from.
type Source interface {
	Name() string
	URL(paperID string) string
}

// HTMLSource serves <BaseURL>/<paper-id>.
type HTMLSource struct {
	SourceName string
	BaseURL    string
}

// Name returns the source identifier used in logs and metrics.
func (s HTMLSource) Name() string { return s.SourceName }

// URL returns the document URL for paperID.
func (s HTMLSource) URL(paperID string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + paperID
}

// Observer is told the outcome of every source attempt. A nil Observer is
// allowed.
type Observer interface {
	FetchAttempt(source string, ok bool)
}

// Fetcher retrieves paper content. A Fetcher is safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	sources    []Source
	userAgent  string
	maxRetries int
	log        logrus.FieldLogger
	observer   Observer
}

// New returns a Fetcher over the configured sources. The HTTP client
// follows redirects and applies cfg.Timeout to each attempt.
func New(cfg types.FetchConfig, log logrus.FieldLogger, observer Observer) *Fetcher {
	sources := make([]Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, HTMLSource{SourceName: s.Name, BaseURL: s.BaseURL})
	}
	return &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		sources:    sources,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		log:        log,
		observer:   observer,
	}
}

// Sources returns the source chain in the order it is tried.
func (f *Fetcher) Sources() []Source {
	return f.sources
}

// Fetch returns the content of paperID from the first source that answers
// with a 2xx document. Failures of earlier sources are only logged. When
// all sources fail the error wraps ErrContentUnavailable and each source's
// failure.
func (f *Fetcher) Fetch(ctx context.Context, paperID string) (*types.PaperContent, error) {
	var errs []error
	for _, src := range f.sources {
		doc, err := f.get(ctx, src.URL(paperID))
		if f.observer != nil {
			f.observer.FetchAttempt(src.Name(), err == nil)
		}
		if err != nil {
			f.log.WithFields(logrus.Fields{
				"paper_id": paperID,
				"source":   src.Name(),
			}).WithError(err).Warn("content source failed")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		return &types.PaperContent{
			PaperID: paperID,
			Title:   ExtractTitle(doc),
			Content: ExtractText(doc),
			Source:  src.Name(),
		}, nil
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no content sources configured"))
	}
	return nil, fmt.Errorf("%w for %s: %w", ErrContentUnavailable, paperID, errors.Join(errs...))
}

// get downloads one document. It sets User-Agent and asks for HTML; the
// HTTP client handles redirect following.
func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.maxRetries)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}
