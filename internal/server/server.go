// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes research runs, stored sessions, health and
// metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

// maxListLimit bounds GET /sessions?limit=.
const maxListLimit = 100

// Runner executes research requests.
type Runner interface {
	Run(ctx context.Context, req types.ResearchRequest) types.ResearchResponse
}

type Server struct {
	runner   Runner
	sessions session.Store
	gatherer prometheus.Gatherer
	log      logrus.FieldLogger
}

// New returns a Server. sessions and gatherer may be nil, which disables
// the matching endpoints.
func New(runner Runner, sessions session.Store, gatherer prometheus.Gatherer, log logrus.FieldLogger) *Server {
	return &Server{runner: runner, sessions: sessions, gatherer: gatherer, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/research", s.research)
	r.Get("/health", s.health)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.sessions != nil {
		r.Get("/sessions", s.listSessions)
		r.Get("/sessions/{id}", s.getSession)
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			return
		}
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func (s *Server) research(w http.ResponseWriter, r *http.Request) {
	var req types.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSONStatus(w, s.runner.Run(r.Context(), req), http.StatusOK)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}
	records, err := s.sessions.List(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("listing sessions")
		writeError(w, http.StatusInternalServerError, "listing sessions failed")
		return
	}
	if records == nil {
		records = []types.SessionRecord{}
	}
	writeJSONStatus(w, map[string]any{"sessions": records}, http.StatusOK)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("session_id", id).Error("loading session")
		writeError(w, http.StatusInternalServerError, "loading session failed")
		return
	}
	writeJSONStatus(w, rec, http.StatusOK)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSONStatus(w, map[string]string{"error": msg}, statusCode)
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}
