package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/generation"
)

// ChatRequest is the request body for /chat and /chat/stream.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required,min=1,max=2000"`
}

// ChatResponse is the response for /chat.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Topic     string `json:"topic,omitempty"`
	Source    string `json:"source"`
	Model     string `json:"model,omitempty"`
}

// TranscriptResponse is the response for /sessions/{id}/transcript.
type TranscriptResponse struct {
	SessionID string           `json:"session_id"`
	Turns     []TranscriptTurn `json:"turns"`
}

// TranscriptTurn is one persisted turn.
type TranscriptTurn struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// handleChat answers one message, creating a session when none is given.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, sess, err := s.resolveChat(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	reply, topic := s.respond(r.Context(), sess, req.Message)

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		SessionID: sess.id.String(),
		Reply:     reply.Text,
		Topic:     topic,
		Source:    string(reply.Source),
		Model:     reply.Model,
	})
}

// handleChatStream answers one message over SSE. The reply itself is still
// produced whole; streaming covers the session handshake and completion so
// the widget can show typing state.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, sess, err := s.resolveChat(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	sse.WriteEvent("session", map[string]string{"session_id": sess.id.String()}) //nolint:errcheck

	reply, topic := s.respond(r.Context(), sess, req.Message)

	sse.WriteEvent("reply", ChatResponse{ //nolint:errcheck
		SessionID: sess.id.String(),
		Reply:     reply.Text,
		Topic:     topic,
		Source:    string(reply.Source),
		Model:     reply.Model,
	})
	sse.WriteEvent("done", map[string]string{"status": "complete"}) //nolint:errcheck
}

// resolveChat decodes, validates, and resolves the session for a chat
// request.
func (s *Server) resolveChat(r *http.Request) (*ChatRequest, *session, error) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, nil, &ErrValidation{Field: "message", Message: "message is required and must be at most 2000 characters"}
	}

	id := uuid.Nil
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			return nil, nil, &ErrValidation{Field: "session_id", Message: "must be a UUID"}
		}
		id = parsed
	}

	sess, err := s.registry.get(id)
	if err != nil {
		return nil, nil, err
	}
	return &req, sess, nil
}

// respond runs one turn under the session lock and persists the exchange.
// The resolved topic is captured while the lock is still held so a
// concurrent turn on the same session cannot change it before the response
// is written.
func (s *Server) respond(ctx context.Context, sess *session, message string) (generation.Reply, string) {
	sess.mu.Lock()
	reply := sess.selector.Respond(ctx, message)
	topic := sess.engine.Memory().Topic().Tag()
	sess.mu.Unlock()

	s.persistExchange(sess.id, message, reply)
	return reply, topic
}

// persistExchange writes the exchange to the transcript store, best effort.
// The request has already been answered; a store failure is only logged.
func (s *Server) persistExchange(sessionID uuid.UUID, message string, reply generation.Reply) {
	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.store.CreateSession(ctx, sessionID); err != nil {
			s.log.Warn("failed to persist session", zap.Error(err))
			return
		}
		if err := s.store.SaveExchange(ctx, sessionID, message, reply.Text, string(reply.Source)); err != nil {
			s.log.Warn("failed to persist exchange", zap.Error(err))
		}
	}()
}

// handleTranscript returns the persisted turns for one session.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonError(w, http.StatusNotFound, "transcript storage is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	stored, err := s.store.ListTurns(r.Context(), id, 200)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	turns := make([]TranscriptTurn, 0, len(stored))
	for _, t := range stored {
		turns = append(turns, TranscriptTurn{
			Speaker:   t.Speaker,
			Text:      t.Text,
			Source:    t.Source,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}
	s.jsonResponse(w, http.StatusOK, TranscriptResponse{SessionID: id.String(), Turns: turns})
}

// handleContent returns a summary of the current content snapshot.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()

	name := ""
	if snap.Profile != nil {
		name = snap.Profile.Name
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile_name": name,
		"counts":       snap.Counts(),
	})
}

// handleHealth reports liveness plus generation binding state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	gen := map[string]any{"status": "discovering"}
	if state, ok := s.discovery.Peek(); ok {
		switch {
		case state.Available():
			gen = map[string]any{"status": "bound", "model": state.Model}
		default:
			gen = map[string]any{"status": "rule-based", "reason": state.Reason}
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"sessions":   s.registry.count(),
		"generation": gen,
	})
}

// handleAdminRefresh forces a content refresh. Requires an admin token.
func (s *Server) handleAdminRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.errorResponse(w, err)
		return
	}

	snap, err := s.refresh(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.log.Info("content refreshed by admin")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "refreshed",
		"counts": snap.Counts(),
	})
}

// requireAdmin validates the bearer token on management endpoints.
func (s *Server) requireAdmin(r *http.Request) error {
	if !s.jwtService.Enabled() {
		return &ErrUnauthorized{}
	}
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return &ErrUnauthorized{}
	}
	if err := s.jwtService.ValidateToken(token); err != nil {
		return &ErrUnauthorized{}
	}
	return nil
}

// jsonResponse writes a JSON body with the given status.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

// errorResponse maps an error to its HTTP status and writes it.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonError(w, HTTPStatus(err), err.Error())
}

// jsonError writes an error body with an explicit status.
func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
