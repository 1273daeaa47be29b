// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-research/internal/httputil"
)

// buildQuery restricts query to the given categories:
// "(query) AND (cat:A OR cat:B)", or the category disjunction alone when
// query is blank.
func buildQuery(query string, categories []string) string {
	cats := make([]string, 0, len(categories))
	for _, c := range categories {
		cats = append(cats, "cat:"+c)
	}
	catQuery := "(" + strings.Join(cats, " OR ") + ")"

	query = strings.TrimSpace(query)
	if query == "" {
		return catQuery
	}
	return "(" + query + ") AND " + catQuery
}

// buildURL returns the API URL for search_query, newest submissions first.
func buildURL(base, searchQuery string, maxResults int) string {
	params := url.Values{
		"search_query": {searchQuery},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	return base + "?" + params.Encode()
}

// fetchFeed issues the query and decodes the Atom response.
func (c *Client) fetchFeed(ctx context.Context, apiURL string) (*atomFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}
