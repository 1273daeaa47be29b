// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Research run statuses reported to the caller.
const (
	RunSuccess   = "success"
	RunCompleted = "completed"
	RunError     = "error"
)

// Request bounds.
const (
	MinDaysBack   = 1
	MaxDaysBack   = 30
	MinMaxResults = 1
	MaxMaxResults = 50
)

// ResearchRequest asks for a research document on a topic.
type ResearchRequest struct {
	Query     string `json:"query"`
	MaxPapers int    `json:"max_papers"`
	DaysBack  int    `json:"days_back"`
}

// WithDefaults fills zero-valued limits from cfg.
func (r ResearchRequest) WithDefaults(cfg AgentConfig) ResearchRequest {
	if r.MaxPapers == 0 {
		r.MaxPapers = cfg.DefaultMaxPapers
	}
	if r.DaysBack == 0 {
		r.DaysBack = cfg.DefaultDaysBack
	}
	return r
}

// Validate checks the request against the accepted ranges.
func (r ResearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	if r.MaxPapers < MinMaxResults || r.MaxPapers > MaxMaxResults {
		return fmt.Errorf("max_papers must be between %d and %d, got %d", MinMaxResults, MaxMaxResults, r.MaxPapers)
	}
	if r.DaysBack < MinDaysBack || r.DaysBack > MaxDaysBack {
		return fmt.Errorf("days_back must be between %d and %d, got %d", MinDaysBack, MaxDaysBack, r.DaysBack)
	}
	return nil
}

// ResearchResponse summarizes a finished research run.
type ResearchResponse struct {
	SessionID      string  `json:"session_id"`
	Status         string  `json:"status"`
	DocumentURL    *string `json:"document_url"`
	PapersAnalyzed int     `json:"papers_analyzed"`
	ArxivCallsUsed int     `json:"arxiv_calls_used"`
	Error          *string `json:"error"`
}

// SessionRecord is the persisted history of one research session.
type SessionRecord struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Status      string    `json:"status"`
	CallsUsed   int       `json:"calls_used"`
	PapersRead  []string  `json:"papers_read"`
	DocumentURL string    `json:"document_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
