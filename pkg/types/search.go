// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Tool result statuses reported to the research agent.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusLimitReached = "limit_reached"
)

// SearchResult is what the search client produced for one call: the final
// query sent upstream and the papers that survived parsing and the recency
// cutoff.
type SearchResult struct {
	Query  string  `json:"query"`
	Papers []Paper `json:"papers"`
}

// TotalFound is the number of papers before any caller-side truncation.
func (r SearchResult) TotalFound() int {
	return len(r.Papers)
}

// PaperSummary is the agent-facing form of a Paper: abstract truncated,
// authors capped, and the publication time rendered as RFC 3339.
type PaperSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []string `json:"authors"`
	Published  string   `json:"published"`
	URL        string   `json:"url"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// SearchToolResult is returned by the search tool.
type SearchToolResult struct {
	Status         string         `json:"status"`
	Papers         []PaperSummary `json:"papers"`
	TotalFound     int            `json:"total_found"`
	CallsRemaining int            `json:"calls_remaining"`
	Message        string         `json:"message,omitempty"`
}

// ContentToolResult is returned by the fetch-content tool.
type ContentToolResult struct {
	Status    string `json:"status"`
	PaperID   string `json:"paper_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SaveToolResult is returned by the save-document tool.
type SaveToolResult struct {
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}
