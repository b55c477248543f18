package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// staticSource serves a fixed snapshot and counts refreshes.
type staticSource struct {
	snap     *content.Snapshot
	refreshs int
}

func (s *staticSource) Snapshot(context.Context) (*content.Snapshot, error) { return s.snap, nil }
func (s *staticSource) Refresh(context.Context) (*content.Snapshot, error) {
	s.refreshs++
	return s.snap, nil
}

func serverSnapshot() *content.Snapshot {
	return &content.Snapshot{
		Profile: &content.Profile{Name: "Jordan Rivera", Email: "jordan@example.com"},
		Projects: []content.Project{
			{ID: "p1", Title: "Weather Dashboard", Description: "Realtime weather.", TechStack: []string{"React"}},
		},
		Experience: []content.Experience{
			{ID: "e1", Company: "Acme", Role: "Engineer", StartDate: "Jan 2022", Description: "Platform work.", TechStack: []string{"Go"}},
		},
	}
}

func newTestServer(t *testing.T, cfg Config) (*Server, *staticSource) {
	t.Helper()
	t.Setenv("RATE_LIMIT_BURST", "1000")

	source := &staticSource{snap: serverSnapshot()}
	s, err := New(cfg, source, nil, nil, zap.NewNop())
	require.NoError(t, err)
	return s, source
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestChat_CreatesSessionAndReplies(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"message": "hello!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Reply)
	assert.Equal(t, "rule", resp.Source)
}

func TestChat_SessionContinuity(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"message": "hello!"}`)
	var first ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	body := fmt.Sprintf(`{"session_id": %q, "message": "what projects have you built?"}`, first.SessionID)
	rec = doJSON(t, s, http.MethodPost, "/chat", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var second ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, second.Reply, "Weather Dashboard")
	assert.Equal(t, "projects", second.Topic)
	assert.Equal(t, 1, s.registry.count())
}

func TestChat_ConcurrentTurnsReportOwnTopic(t *testing.T) {
	// Each response carries the topic its own turn resolved to, even when
	// another request on the same session lands in between; run with -race.
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"message": "hello!"}`)
	var first ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	messages := []string{
		"what projects have you built?",
		"what is your work experience?",
	}

	var wg sync.WaitGroup
	results := make(chan *httptest.ResponseRecorder, 40)
	for i := 0; i < 20; i++ {
		for _, msg := range messages {
			wg.Add(1)
			go func(msg string) {
				defer wg.Done()
				body := fmt.Sprintf(`{"session_id": %q, "message": %q}`, first.SessionID, msg)
				results <- doJSON(t, s, http.MethodPost, "/chat", body)
			}(msg)
		}
	}
	wg.Wait()
	close(results)

	for rec := range results {
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		switch {
		case strings.Contains(resp.Reply, "impressive project"):
			assert.Equal(t, "projects", resp.Topic)
		case strings.Contains(resp.Reply, "professional journey"):
			assert.Equal(t, "experiences", resp.Topic)
		default:
			t.Fatalf("unexpected reply: %s", resp.Reply)
		}
	}
}

func TestChat_UnknownSessionIs404(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	body := `{"session_id": "8b7f5e92-0000-4000-8000-000000000000", "message": "hello"}`
	rec := doJSON(t, s, http.MethodPost, "/chat", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_Validation(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/chat", `{"session_id": "not-a-uuid", "message": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := strings.Repeat("a", 2001)
	rec = doJSON(t, s, http.MethodPost, "/chat", fmt.Sprintf(`{"message": %q}`, long))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatStream_EmitsEventSequence(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat/stream", `{"message": "hello!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: session")
	assert.Contains(t, body, "event: reply")
	assert.Contains(t, body, "event: done")
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	// Discovery has not been started in tests.
	gen := resp["generation"].(map[string]any)
	assert.Equal(t, "discovering", gen["status"])
}

func TestContent_ReturnsSummary(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodGet, "/content", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ProfileName string         `json:"profile_name"`
		Counts      map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Jordan Rivera", resp.ProfileName)
	assert.Equal(t, 1, resp.Counts["projects"])
	assert.Equal(t, 1, resp.Counts["experience"])
}

func TestAdminRefresh_RequiresToken(t *testing.T) {
	s, source := newTestServer(t, Config{Port: 8080, JWTSecret: "test-secret"})

	rec := doJSON(t, s, http.MethodPost, "/admin/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, source.refreshs)

	token, err := s.jwtService.GenerateToken()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	out := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(out, req)

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, 1, source.refreshs)
}

func TestAdminRefresh_DisabledWithoutSecret(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/admin/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTranscript_NotConfigured(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodGet, "/sessions/8b7f5e92-0000-4000-8000-000000000000/transcript", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh_PropagatesToSessions(t *testing.T) {
	s, source := newTestServer(t, Config{Port: 8080})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"message": "hello!"}`)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Swap the snapshot and refresh; the live session answers from the new
	// content on its next turn.
	source.snap = &content.Snapshot{
		Profile:  source.snap.Profile,
		Projects: []content.Project{{ID: "p9", Title: "Brand New Thing"}},
	}
	_, err := s.refresh(context.Background())
	require.NoError(t, err)

	body := fmt.Sprintf(`{"session_id": %q, "message": "what projects have you built?"}`, resp.SessionID)
	rec = doJSON(t, s, http.MethodPost, "/chat", body)

	var second ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Contains(t, second.Reply, "Brand New Thing")
	assert.NotContains(t, second.Reply, "Weather Dashboard")
}

func TestRateLimit_Returns429(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "2")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.001")

	source := &staticSource{snap: serverSnapshot()}
	s, err := New(Config{Port: 8080}, source, nil, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(t, s, http.MethodGet, "/health", "").Code)
}
