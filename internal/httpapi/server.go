// Package httpapi exposes the agent core over HTTP. It is a thin adapter:
// request validation and JSON shaping live here, all conversation and
// case semantics live in the agent package.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/haqsetu/triage/internal/agent"
	"github.com/haqsetu/triage/internal/archive"
	"github.com/haqsetu/triage/internal/config"
	"github.com/haqsetu/triage/internal/langs"
	"github.com/haqsetu/triage/internal/observability"
)

type Server struct {
	cfg      config.Config
	agent    *agent.Service
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, agentService *agent.Service, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		agent:   agentService,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up; other sites must not
				// be able to drive a citizen's conversation.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/agent/session", s.handleStartSession)
	r.Post("/v1/agent/chat", s.handleChat)
	r.Get("/v1/agent/session/{id}", s.handleGetSession)
	r.Get("/v1/agent/case/{id}", s.handleGetCase)
	r.Get("/v1/agent/archive/{id}", s.handleGetArchive)
	r.Get("/v1/agent/ws", s.handleChatWS)
	r.Get("/v1/languages", s.handleListLanguages)
	r.Get("/v1/perf/turns", s.handlePerfTurns)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"sessions": s.agent.SessionCount(),
	})
}

type startSessionRequest struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

type startSessionResponse struct {
	SessionID  string `json:"session_id"`
	Greeting   string `json:"greeting"`
	Disclaimer string `json:"disclaimer"`
	Language   string `json:"language"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := s.agent.StartSession(strings.TrimSpace(req.SessionID), strings.TrimSpace(req.Language))
	if err != nil {
		if errors.Is(err, agent.ErrUnsupportedLanguage) {
			respondError(w, http.StatusBadRequest, "unsupported_language", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "start_failed", err.Error())
		return
	}

	disclaimer, ok := langs.Disclaimer(sess.UserLanguage)
	if !ok {
		disclaimer = langs.DisclaimerEN
	}
	respondJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:  sess.SessionID,
		Greeting:   langs.Greeting(sess.UserLanguage),
		Disclaimer: disclaimer,
		Language:   sess.UserLanguage,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Language  string `json:"language"`
}

type chatResponse struct {
	ResponseText       string                   `json:"response_text"`
	SessionID          string                   `json:"session_id"`
	FollowUpQuestion   string                   `json:"follow_up_question,omitempty"`
	IdentifiedLaws     []agent.IdentifiedLaw    `json:"identified_laws"`
	ApplicableSchemes  []agent.ApplicableScheme `json:"applicable_schemes"`
	RecommendedActions []string                 `json:"recommended_actions"`
	Helplines          []agent.Helpline         `json:"helplines"`
	Severity           agent.Severity           `json:"severity"`
	Disclaimer         string                   `json:"disclaimer"`
	Language           string                   `json:"language"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}

	resp, err := s.agent.ProcessMessage(r.Context(), req.SessionID, req.Message, strings.TrimSpace(req.Language))
	if err != nil {
		writeAgentError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toChatResponse(req.SessionID, resp))
}

func toChatResponse(sessionID string, resp *agent.Response) chatResponse {
	out := chatResponse{
		ResponseText:       resp.ResponseText,
		SessionID:          sessionID,
		FollowUpQuestion:   resp.FollowUpQuestion,
		IdentifiedLaws:     []agent.IdentifiedLaw{},
		ApplicableSchemes:  []agent.ApplicableScheme{},
		RecommendedActions: []string{},
		Helplines:          []agent.Helpline{},
		Severity:           agent.SeverityLow,
		Disclaimer:         resp.Disclaimer,
		Language:           resp.Language,
	}
	if c := resp.CaseAnalysis; c != nil {
		if c.IdentifiedLaws != nil {
			out.IdentifiedLaws = c.IdentifiedLaws
		}
		if c.ApplicableSchemes != nil {
			out.ApplicableSchemes = c.ApplicableSchemes
		}
		if c.RecommendedActions != nil {
			out.RecommendedActions = c.RecommendedActions
		}
		if c.Helplines != nil {
			out.Helplines = c.Helplines
		}
		out.Severity = c.Severity
	}
	return out
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	sess, err := s.agent.GetSession(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	caseAnalysis, err := s.agent.GetCaseAnalysis(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, caseAnalysis)
}

// handleGetArchive serves the durable turn history. Unlike the session
// lookup this never 404s: the archive is best-effort and an id with no
// archived turns is simply an empty history.
func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.agent.ArchivedTurns(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "archive_unavailable", err.Error())
		return
	}
	if records == nil {
		records = []archive.TurnRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"turns":      records,
	})
}

func (s *Server) handleListLanguages(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"languages": langs.All()})
}

func (s *Server) handlePerfTurns(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.SnapshotTurnStages())
}

func writeAgentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agent.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, "empty_message", err.Error())
	case errors.Is(err, agent.ErrMessageTooLong):
		respondError(w, http.StatusBadRequest, "message_too_long", err.Error())
	case errors.Is(err, agent.ErrUnsupportedLanguage):
		respondError(w, http.StatusBadRequest, "unsupported_language", err.Error())
	case errors.Is(err, agent.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
