package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/assistant"
	"github.com/jonathan/portfolio-assistant/internal/content"
	"github.com/jonathan/portfolio-assistant/internal/generation"
	"github.com/jonathan/portfolio-assistant/internal/llm"
)

// session holds one conversation's isolated state: its own memory and its
// own generation attempt state. The mutex serializes message handling so
// memory is never read mid-composition.
type session struct {
	id       uuid.UUID
	engine   *assistant.Engine
	selector *generation.Selector

	mu       sync.Mutex
	lastSeen time.Time
}

// sessionRegistry creates, looks up, and evicts sessions.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	client    llm.Client
	discovery *generation.Discovery
	log       *zap.Logger
	idleTTL   time.Duration
	snapshot  func() *content.Snapshot
}

func newSessionRegistry(client llm.Client, discovery *generation.Discovery, snapshot func() *content.Snapshot, log *zap.Logger) *sessionRegistry {
	return &sessionRegistry{
		sessions:  make(map[uuid.UUID]*session),
		client:    client,
		discovery: discovery,
		log:       log,
		idleTTL:   30 * time.Minute,
		snapshot:  snapshot,
	}
}

// get returns the existing session or creates one when id is uuid.Nil.
// An unknown non-nil id is an error so clients notice evicted sessions.
func (r *sessionRegistry) get(id uuid.UUID) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != uuid.Nil {
		s, ok := r.sessions[id]
		if !ok {
			return nil, &ErrSessionNotFound{SessionID: id}
		}
		s.lastSeen = time.Now()
		return s, nil
	}

	newID := uuid.New()
	engine := assistant.NewEngine(r.snapshot(), r.log.Named("engine"))
	s := &session{
		id:       newID,
		engine:   engine,
		selector: generation.NewSelector(r.client, engine, r.discovery, r.log.Named("selector")),
		lastSeen: time.Now(),
	}
	r.sessions[newID] = s
	r.log.Info("session created", zap.String("session_id", newID.String()))
	return s, nil
}

// refreshSnapshots points every live session at a newly fetched snapshot.
func (r *sessionRegistry) refreshSnapshots(snap *content.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.engine.SetSnapshot(snap)
	}
}

// evictIdle drops sessions idle past the TTL. Their transcripts survive in
// the store; only in-memory state is released.
func (r *sessionRegistry) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.idleTTL)
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			r.log.Debug("session evicted", zap.String("session_id", id.String()))
		}
	}
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
