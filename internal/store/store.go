// Package store persists chat transcripts to PostgreSQL. Persistence is
// optional: the assistant runs fully in memory when no database is
// configured, and the server treats store failures as log-worthy, not fatal.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the transcript tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id UUID PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS chat_turns (
			id BIGSERIAL PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
			speaker TEXT NOT NULL,
			text TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'rule',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns(session_id, id);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure transcript schema: %w", err)
	}
	return nil
}

// CreateSession registers a new session row.
func (s *Store) CreateSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SaveExchange stores one user/bot exchange.
func (s *Store) SaveExchange(ctx context.Context, sessionID uuid.UUID, userText, botText, source string) error {
	batchSQL := `INSERT INTO chat_turns (session_id, speaker, text, source) VALUES ($1, $2, $3, $4)`
	if _, err := s.pool.Exec(ctx, batchSQL, sessionID, "user", userText, source); err != nil {
		return fmt.Errorf("failed to save user turn: %w", err)
	}
	if _, err := s.pool.Exec(ctx, batchSQL, sessionID, "bot", botText, source); err != nil {
		return fmt.Errorf("failed to save bot turn: %w", err)
	}
	return nil
}

// StoredTurn is one persisted transcript row.
type StoredTurn struct {
	Speaker   string
	Text      string
	Source    string
	CreatedAt time.Time
}

// ListTurns returns a session's transcript, oldest first, capped at limit.
func (s *Store) ListTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]StoredTurn, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT speaker, text, source, created_at
		 FROM chat_turns WHERE session_id = $1 ORDER BY id ASC LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []StoredTurn
	for rows.Next() {
		var t StoredTurn
		if err := rows.Scan(&t.Speaker, &t.Text, &t.Source, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
