// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

const exportLimit = 100000

// ExportEntry is one session in an export file.
type ExportEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Query       string   `json:"query" yaml:"query"`
	Status      string   `json:"status" yaml:"status"`
	CallsUsed   int      `json:"calls_used" yaml:"calls_used"`
	PapersRead  []string `json:"papers_read" yaml:"papers_read"`
	DocumentURL string   `json:"document_url,omitempty" yaml:"document_url,omitempty"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   string   `json:"started_at" yaml:"started_at"`
	FinishedAt  string   `json:"finished_at" yaml:"finished_at"`
}

// Export writes every stored session to path, newest first. The format
// follows the extension: .json for JSON, .yaml or .yml for YAML.
func Export(ctx context.Context, s Store, path string) (int, error) {
	records, err := s.List(ctx, exportLimit)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = toExportEntry(r)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(entries, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(entries)
	default:
		return 0, fmt.Errorf("unsupported export format %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return 0, fmt.Errorf("marshaling export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(entries), nil
}

func toExportEntry(r types.SessionRecord) ExportEntry {
	papers := r.PapersRead
	if papers == nil {
		papers = []string{}
	}
	return ExportEntry{
		ID:          r.ID,
		Query:       r.Query,
		Status:      r.Status,
		CallsUsed:   r.CallsUsed,
		PapersRead:  papers,
		DocumentURL: r.DocumentURL,
		Error:       r.Error,
		StartedAt:   r.StartedAt.UTC().Format(timeLayout),
		FinishedAt:  r.FinishedAt.UTC().Format(timeLayout),
	}
}
