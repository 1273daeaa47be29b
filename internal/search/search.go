// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the arXiv metadata API for recent papers in a
// fixed set of categories and turns the Atom feed into Paper records.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

// ErrSearchUnavailable wraps every failure that leaves a search call with
// nothing usable: transport errors, non-2xx responses, unreadable feeds.
var ErrSearchUnavailable = errors.New("search unavailable")

// Client searches arXiv. A Client is safe for concurrent use.
type Client struct {
	HTTP   *http.Client
	Config types.SearchConfig
	Log    logrus.FieldLogger

	// Now returns the current time; tests pin it.
	Now func() time.Time
}

// NewClient returns a Client whose HTTP client applies cfg.Timeout to
// every request.
func NewClient(cfg types.SearchConfig, log logrus.FieldLogger) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
		Log:    log,
		Now:    time.Now,
	}
}

// Search returns papers matching query within the configured categories,
// newest first, published no earlier than daysBack days ago. An empty
// query lists the categories alone. Entries that fail to parse are
// dropped; a failed request fails the whole call with ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string, daysBack, maxResults int) (types.SearchResult, error) {
	if daysBack < types.MinDaysBack || daysBack > types.MaxDaysBack {
		return types.SearchResult{}, fmt.Errorf("days_back must be between %d and %d, got %d", types.MinDaysBack, types.MaxDaysBack, daysBack)
	}
	if maxResults < types.MinMaxResults || maxResults > types.MaxMaxResults {
		return types.SearchResult{}, fmt.Errorf("max_results must be between %d and %d, got %d", types.MinMaxResults, types.MaxMaxResults, maxResults)
	}

	q := buildQuery(query, c.Config.Categories)
	log := c.Log.WithFields(logrus.Fields{"query": q, "days_back": daysBack, "max_results": maxResults})
	log.Debug("searching arXiv")

	feed, err := c.fetchFeed(ctx, buildURL(c.Config.BaseURL, q, maxResults))
	if err != nil {
		log.WithError(err).Warn("arXiv search failed")
		return types.SearchResult{}, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	cutoff := c.now().UTC().AddDate(0, 0, -daysBack)
	papers := make([]types.Paper, 0, len(feed.Entries))
	dropped := 0
	for _, entry := range feed.Entries {
		p, err := parseEntry(entry)
		if err != nil {
			dropped++
			log.WithError(err).Debug("dropping feed entry")
			continue
		}
		if p.Published.Before(cutoff) {
			continue
		}
		papers = append(papers, p)
	}

	log.WithFields(logrus.Fields{
		"entries": len(feed.Entries),
		"dropped": dropped,
		"kept":    len(papers),
	}).Info("arXiv search complete")

	return types.SearchResult{Query: q, Papers: papers}, nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
