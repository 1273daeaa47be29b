// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/arxiv-research/internal/docstore"
	"github.com/pdiddy/arxiv-research/internal/fetch"
	"github.com/pdiddy/arxiv-research/internal/metrics"
	"github.com/pdiddy/arxiv-research/internal/research"
	"github.com/pdiddy/arxiv-research/internal/search"
	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/internal/tools"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

const metricsNamespace = "arxiv_research"

// newToolset builds the search client, content fetcher and document store
// from c. m may be nil.
func newToolset(c types.Config, m *metrics.Metrics) *tools.Toolset {
	searcher := search.NewClient(c.Search, log)
	fetcher := fetch.New(c.Fetch, log, m)
	docs := docstore.NewFileStore(c.Storage.OutputDir)
	return tools.New(searcher, fetcher, docs, c.Agent, log, m)
}

// openSessionStore opens the SQLite history, or an in-memory one when no
// database path is configured.
func openSessionStore(c types.Config) (session.Store, error) {
	if c.Storage.SessionDB == "" {
		return session.NewMemoryStore(), nil
	}
	return session.OpenSQLite(c.Storage.SessionDB)
}

// newService wires a research service around the built-in pipeline agent.
func newService(c types.Config, store session.Store, reg prometheus.Registerer) *research.Service {
	m := metrics.New(metricsNamespace, reg)
	return research.NewService(newToolset(c, m), research.PipelineAgent{}, store, c.Agent, log, m)
}
