// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

const envPrefix = "ARXIV_RESEARCH"

// loadConfig resolves configuration from defaults, the config file (if
// any) and ARXIV_RESEARCH_* environment variables, in increasing priority.
// Nested keys map to env names with "." replaced by "_", e.g.
// ARXIV_RESEARCH_AGENT_MAX_ARXIV_CALLS.
func loadConfig(v *viper.Viper) (types.Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, types.DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.max_retries", d.Search.MaxRetries)
	v.SetDefault("search.base_url", d.Search.BaseURL)
	v.SetDefault("search.categories", d.Search.Categories)

	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	sources := make([]map[string]any, 0, len(d.Fetch.Sources))
	for _, s := range d.Fetch.Sources {
		sources = append(sources, map[string]any{"name": s.Name, "base_url": s.BaseURL})
	}
	v.SetDefault("fetch.sources", sources)

	v.SetDefault("agent.max_arxiv_calls", d.Agent.MaxArxivCalls)
	v.SetDefault("agent.default_days_back", d.Agent.DefaultDaysBack)
	v.SetDefault("agent.default_max_papers", d.Agent.DefaultMaxPapers)
	v.SetDefault("agent.abstract_max_chars", d.Agent.AbstractMaxChars)
	v.SetDefault("agent.max_authors", d.Agent.MaxAuthors)
	v.SetDefault("agent.content_max_chars", d.Agent.ContentMaxChars)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("storage.output_dir", d.Storage.OutputDir)
	v.SetDefault("storage.session_db", d.Storage.SessionDB)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
