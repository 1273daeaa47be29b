// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs end-to-end research requests: it opens a session,
// hands the agent a toolset bound to that session, and turns the session's
// final state into the caller-facing response.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/arxiv-research/internal/metrics"
	"github.com/pdiddy/arxiv-research/internal/session"
	"github.com/pdiddy/arxiv-research/internal/tools"
	"github.com/pdiddy/arxiv-research/pkg/types"
)

// MsgNoDocument is reported when the agent finished without saving.
const MsgNoDocument = "Agent completed but no document was saved."

// Service runs research requests.
type Service struct {
	Tools   *tools.Toolset
	Agent   Agent
	Store   session.Store
	Config  types.AgentConfig
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics

	// NewID and Now are replaced in tests.
	NewID func() string
	Now   func() time.Time
}

// NewService returns a Service with uuid session ids. store and m may be
// nil.
func NewService(ts *tools.Toolset, agent Agent, store session.Store, cfg types.AgentConfig, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		Tools:   ts,
		Agent:   agent,
		Store:   store,
		Config:  cfg,
		Log:     log,
		Metrics: m,
		NewID:   uuid.NewString,
		Now:     time.Now,
	}
}

// Run executes one research request in a fresh session. It always returns
// a response; failures are reported in its Status and Error fields together
// with whatever calls and reads the session had accumulated.
func (s *Service) Run(ctx context.Context, req types.ResearchRequest) types.ResearchResponse {
	sessionID := s.NewID()
	started := s.Now().UTC()
	req = req.WithDefaults(s.Config)
	st := session.NewState()

	log := s.Log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"query":      req.Query,
	})

	var runErr error
	if err := req.Validate(); err != nil {
		runErr = err
	} else {
		log.WithFields(logrus.Fields{
			"max_papers": req.MaxPapers,
			"days_back":  req.DaysBack,
		}).Info("research started")
		runErr = s.runAgent(ctx, req, s.Tools.Bind(sessionID, st))
	}

	resp := buildResponse(sessionID, st, runErr)

	log.WithFields(logrus.Fields{
		"status":           resp.Status,
		"arxiv_calls_used": resp.ArxivCallsUsed,
		"papers_analyzed":  resp.PapersAnalyzed,
	}).Info("research finished")
	s.Metrics.ResearchRun(resp.Status)

	s.record(ctx, req, resp, st, started, log)
	return resp
}

// runAgent calls the agent, turning a panic into an error.
func (s *Service) runAgent(ctx context.Context, req types.ResearchRequest, ts Tools) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panicked: %v", r)
		}
	}()
	return s.Agent.Run(ctx, BuildPrompt(req), req, ts)
}

func buildResponse(sessionID string, st *session.State, runErr error) types.ResearchResponse {
	resp := types.ResearchResponse{
		SessionID:      sessionID,
		PapersAnalyzed: len(st.PapersRead()),
		ArxivCallsUsed: st.CallsUsed(),
	}
	docURL := st.GetString(session.KeyDocumentURL)

	switch {
	case runErr != nil:
		msg := runErr.Error()
		resp.Status = types.RunError
		resp.Error = &msg
	case docURL == "":
		msg := MsgNoDocument
		resp.Status = types.RunCompleted
		resp.Error = &msg
	default:
		resp.Status = types.RunSuccess
		resp.DocumentURL = &docURL
	}
	return resp
}

// record keeps the finished session. A failure is logged only.
func (s *Service) record(ctx context.Context, req types.ResearchRequest, resp types.ResearchResponse, st *session.State, started time.Time, log logrus.FieldLogger) {
	if s.Store == nil {
		return
	}
	rec := types.SessionRecord{
		ID:         resp.SessionID,
		Query:      req.Query,
		Status:     resp.Status,
		CallsUsed:  resp.ArxivCallsUsed,
		PapersRead: st.PapersRead(),
		StartedAt:  started,
		FinishedAt: s.Now().UTC(),
	}
	if resp.DocumentURL != nil {
		rec.DocumentURL = *resp.DocumentURL
	}
	if resp.Error != nil {
		rec.Error = *resp.Error
	}
	// The request context may already be cancelled; the record still lands.
	if err := s.Store.Save(context.WithoutCancel(ctx), rec); err != nil {
		log.WithError(err).Warn("recording session failed")
	}
}
