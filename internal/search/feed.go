// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

const pdfMediaType = "application/pdf"

// arXiv Atom feed XML structures. Optional elements are pointers so a
// missing element can be told apart from an empty one.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         *string        `xml:"id"`
	Title      *string        `xml:"title"`
	Summary    *string        `xml:"summary"`
	Published  *string        `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Reasons an entry is dropped.
var (
	errMissingID        = errors.New("missing or malformed id")
	errMissingTitle     = errors.New("missing title")
	errMissingSummary   = errors.New("missing summary")
	errMissingPublished = errors.New("missing published date")
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace replaces every whitespace run, newlines included,
// with one space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// parseEntry converts one feed entry into a Paper. Any missing or
// malformed required field fails the entry alone; the error says why.
func parseEntry(e atomEntry) (types.Paper, error) {
	if e.ID == nil {
		return types.Paper{}, errMissingID
	}
	id := extractArxivID(*e.ID)
	if id == "" {
		return types.Paper{}, fmt.Errorf("%w: %q", errMissingID, *e.ID)
	}
	if e.Published == nil {
		return types.Paper{}, errMissingPublished
	}
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(*e.Published))
	if err != nil {
		return types.Paper{}, fmt.Errorf("parsing published date: %w", err)
	}
	if e.Title == nil {
		return types.Paper{}, errMissingTitle
	}
	if e.Summary == nil {
		return types.Paper{}, errMissingSummary
	}

	p := types.Paper{
		ID:        id,
		Title:     collapseWhitespace(*e.Title),
		Abstract:  collapseWhitespace(*e.Summary),
		Published: published.UTC(),
		URL:       strings.TrimSpace(*e.ID),
	}

	p.Authors = make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}

	for _, l := range e.Links {
		if l.Rel == "alternate" && l.Href != "" {
			p.URL = l.Href
			break
		}
	}
	for _, l := range e.Links {
		if l.Type == pdfMediaType {
			p.PDFURL = l.Href
			break
		}
	}

	p.Categories = make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		p.Categories = append(p.Categories, c.Term)
	}
	return p, nil
}

// extractArxivID returns the path segment after "/abs/" in the entry's id
// URL (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1"). The
// version suffix is kept.
func extractArxivID(idURL string) string {
	const marker = "/abs/"
	idURL = strings.TrimSpace(idURL)
	idx := strings.Index(idURL, marker)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(marker):]
	id = strings.Trim(id, "/")
	if strings.ContainsAny(id, " \t\n?#") {
		return ""
	}
	return id
}
