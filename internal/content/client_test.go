package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCMS serves canned GROQ results keyed by the document type in the
// query string.
func fakeCMS(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		query := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(query, `"profile"`):
			fmt.Fprint(w, `{"result":{"name":"Jordan Rivera","headline":"Full-Stack Developer","bio":"<p>Builds things.</p>","email":"jordan@example.com"}}`)
		case strings.Contains(query, `"experience"`):
			fmt.Fprint(w, `{"result":[{"_id":"e1","company":"Acme","role":"Engineer","startDate":"Jan 2022","description":"Platform work.","techStack":["Go"]}]}`)
		case strings.Contains(query, `"project"`):
			fmt.Fprint(w, `{"result":[{"_id":"p1","title":"Weather Dashboard","description":"Realtime weather.","techStack":["React"],"featured":true}]}`)
		case strings.Contains(query, `"education"`):
			fmt.Fprint(w, `{"result":[{"_id":"d1","institution":"State University","degree":"BSc","startYear":"2015","endYear":"2019"}]}`)
		case strings.Contains(query, `"certificate"`):
			fmt.Fprint(w, `{"result":null}`)
		default:
			http.Error(w, "unexpected query", http.StatusBadRequest)
		}
	}))
}

func TestClient_RefreshAssemblesSnapshot(t *testing.T) {
	srv := fakeCMS(t, nil)
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	snap, err := client.Refresh(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Jordan Rivera", snap.Profile.Name)
	// Rich text arrives stripped.
	assert.Equal(t, "Builds things.", snap.Profile.Bio)

	require.Len(t, snap.Experience, 1)
	assert.Equal(t, "Acme", snap.Experience[0].Company)
	require.Len(t, snap.Projects, 1)
	assert.True(t, snap.Projects[0].Featured)
	require.Len(t, snap.Education, 1)
	// Null results leave the collection empty, not an error.
	assert.Empty(t, snap.Certificates)
}

func TestClient_SnapshotServesFromCache(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCMS(t, &hits)
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, CacheTTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)

	first, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	fetched := hits.Load()
	assert.Equal(t, int64(5), fetched) // one request per collection

	second, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fetched, hits.Load())
	assert.Same(t, first, second)
}

func TestClient_RefreshBypassesCache(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCMS(t, &hits)
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, CacheTTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = client.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), hits.Load())
}

func TestClient_ErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClient_RequiresProjectOrBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{}, zap.NewNop())
	assert.Error(t, err)

	client, err := NewClient(ClientConfig{ProjectID: "abc123"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "https://abc123.apicdn.sanity.io/v2024-01-01/data/query/production", client.baseURL())
}
