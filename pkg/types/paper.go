// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-research service:
// papers and their extracted content, tool results handed back to the
// research agent, and the request/response pair of a research run.
package types

import "time"

// UnknownTitle is substituted when a fetched document carries no <title>.
const UnknownTitle = "Unknown Title"

// Paper holds the metadata of one arXiv entry as returned by the search API.
type Paper struct {
	// ID is the identifier taken from the entry's /abs/ link. Version
	// suffixes (e.g. "v2") are kept.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace runs collapsed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper summary with whitespace runs collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists author display names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the first-version submission time in UTC.
	Published time.Time `json:"published" yaml:"published"`

	// URL is the abstract page URL.
	URL string `json:"url" yaml:"url"`

	// PDFURL is the link typed application/pdf, or empty when absent.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Categories lists the entry's category terms (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`
}

// PaperContent is the readable text of a paper's HTML rendering.
type PaperContent struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the document <title>, or UnknownTitle.
	Title string `json:"title" yaml:"title"`

	// Content is plain text: markup, scripts and styles removed, whitespace
	// collapsed. The fetcher does not cap its length.
	Content string `json:"content" yaml:"content"`

	// Source names the content source that served the document.
	Source string `json:"source" yaml:"source"`
}
