// Package metrics exposes Prometheus counters for search calls, content
// fetches and research runs.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Search call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Metrics holds the service collectors. A nil *Metrics records nothing, so
// components can be built without instrumentation.
type Metrics struct {
	searchCalls   *prometheus.CounterVec
	papersFound   prometheus.Histogram
	fetchAttempts *prometheus.CounterVec
	fetchResults  *prometheus.CounterVec
	researchRuns  *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them on reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	ns := strings.ReplaceAll(namespace, "-", "_")
	m := &Metrics{
		searchCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "search_calls_total",
			Help:      "Search tool invocations by outcome (success, error, rejected).",
		}, []string{"outcome"}),
		papersFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "search_papers_found",
			Help:      "Papers returned per successful search after the recency cutoff.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "content_source_attempts_total",
			Help:      "Content source attempts by source and result.",
		}, []string{"source", "result"}),
		fetchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "content_fetches_total",
			Help:      "Fetch-content tool invocations by outcome.",
		}, []string{"outcome"}),
		researchRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "research_runs_total",
			Help:      "Finished research runs by status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.searchCalls, m.papersFound, m.fetchAttempts, m.fetchResults, m.researchRuns)
	return m
}

// SearchCall counts one search tool invocation.
func (m *Metrics) SearchCall(outcome string, papers int) {
	if m == nil {
		return
	}
	m.searchCalls.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.papersFound.Observe(float64(papers))
	}
}

// FetchAttempt counts one content source attempt.
func (m *Metrics) FetchAttempt(source string, ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.fetchAttempts.WithLabelValues(source, result).Inc()
}

// FetchResult counts one fetch-content tool invocation.
func (m *Metrics) FetchResult(ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeError
	if ok {
		outcome = OutcomeSuccess
	}
	m.fetchResults.WithLabelValues(outcome).Inc()
}

// ResearchRun counts one finished research run.
func (m *Metrics) ResearchRun(status string) {
	if m == nil {
		return
	}
	m.researchRuns.WithLabelValues(status).Inc()
}
