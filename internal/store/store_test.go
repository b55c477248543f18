package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore connects to the database named by DATABASE_URL, skipping
// when none is configured.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping store integration test")
	}

	ctx := context.Background()
	s, err := Connect(ctx, databaseURL)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(s.Close)
	return s
}

func TestStore_SaveAndListExchanges(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sessionID := uuid.New()
	require.NoError(t, s.CreateSession(ctx, sessionID))
	// Creating the same session twice is a no-op, not an error.
	require.NoError(t, s.CreateSession(ctx, sessionID))

	require.NoError(t, s.SaveExchange(ctx, sessionID, "what projects?", "Here are the projects.", "rule"))
	require.NoError(t, s.SaveExchange(ctx, sessionID, "tell me more", "Generated detail.", "generative"))

	turns, err := s.ListTurns(ctx, sessionID, 10)
	require.NoError(t, err)
	require.Len(t, turns, 4)

	assert.Equal(t, "user", turns[0].Speaker)
	assert.Equal(t, "what projects?", turns[0].Text)
	assert.Equal(t, "bot", turns[1].Speaker)
	assert.Equal(t, "rule", turns[1].Source)
	assert.Equal(t, "generative", turns[3].Source)
}

func TestStore_ListTurnsRespectsLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sessionID := uuid.New()
	require.NoError(t, s.CreateSession(ctx, sessionID))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveExchange(ctx, sessionID, "q", "a", "rule"))
	}

	turns, err := s.ListTurns(ctx, sessionID, 2)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestStore_ListTurnsUnknownSessionEmpty(t *testing.T) {
	s := setupTestStore(t)

	turns, err := s.ListTurns(context.Background(), uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
