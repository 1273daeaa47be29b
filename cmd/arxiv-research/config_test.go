// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	got, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), got)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arxiv-research.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  timeout: 5s
  categories: [cs.RO]
fetch:
  sources:
    - name: mirror
      base_url: http://mirror.local/html
agent:
  max_arxiv_calls: 3
`), 0o644))
	t.Setenv("ARXIV_RESEARCH_AGENT_MAX_ARXIV_CALLS", "2")
	t.Setenv("ARXIV_RESEARCH_SERVER_ADDR", ":9090")

	v := viper.New()
	v.SetConfigFile(path)
	got, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, got.Search.Timeout)
	assert.Equal(t, []string{"cs.RO"}, got.Search.Categories)
	assert.Equal(t, []types.SourceConfig{{Name: "mirror", BaseURL: "http://mirror.local/html"}}, got.Fetch.Sources)
	assert.Equal(t, 2, got.Agent.MaxArxivCalls, "env overrides file")
	assert.Equal(t, ":9090", got.Server.Addr)
	assert.Equal(t, 7, got.Agent.DefaultDaysBack, "unset keys keep defaults")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("ARXIV_RESEARCH_AGENT_MAX_ARXIV_CALLS", "0")
	_, err := loadConfig(viper.New())
	assert.ErrorContains(t, err, "max_arxiv_calls")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestPrintPapers(t *testing.T) {
	var buf bytes.Buffer
	printPapers(&buf, types.SearchToolResult{
		Papers: []types.PaperSummary{{
			ID:        "2401.00001v1",
			Title:     "A Very Long Title That Keeps Going Past The Column Width Of Fifty",
			Authors:   []string{"Ada", "Grace"},
			Published: "2025-03-14T09:30:00Z",
		}},
		TotalFound: 1,
	})
	out := buf.String()
	assert.Contains(t, out, "2401.00001v1")
	assert.Contains(t, out, "Ada, Grace")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "1 results")
}
