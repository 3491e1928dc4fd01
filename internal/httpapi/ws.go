package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/haqsetu/triage/internal/agent"
)

type wsChatMessage struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type wsErrorEvent struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// handleChatWS runs an interactive conversation over one socket: each
// inbound JSON frame is one user message, each outbound frame the full
// chat response. Turns are processed in arrival order on the socket.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		var msg wsChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		resp, err := s.agent.ProcessMessage(r.Context(), sessionID, msg.Message, strings.TrimSpace(msg.Language))
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err != nil {
			event := wsErrorEvent{Type: "error", Code: agentErrorCode(err), Detail: err.Error()}
			if writeErr := conn.WriteJSON(event); writeErr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(toChatResponse(sessionID, resp)); err != nil {
			return
		}
	}
}

func agentErrorCode(err error) string {
	switch {
	case errors.Is(err, agent.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, agent.ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, agent.ErrUnsupportedLanguage):
		return "unsupported_language"
	case errors.Is(err, agent.ErrSessionNotFound):
		return "session_not_found"
	default:
		return "internal_error"
	}
}
