package assistant

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// Engine is the rule-based conversation pipeline for one session: analyze,
// match, compose, then commit the exchange to memory. It never fails; every
// utterance resolves to display text.
//
// Engine is not safe for concurrent use: sessions process messages strictly
// one at a time. The only exception is SetSnapshot, which may run
// concurrently with a turn.
type Engine struct {
	snap     atomic.Pointer[content.Snapshot]
	composer *Composer
	memory   *Memory
	log      *zap.Logger
}

// NewEngine creates an engine over a content snapshot.
func NewEngine(snap *content.Snapshot, log *zap.Logger) *Engine {
	e := &Engine{
		composer: NewComposer(),
		memory:   NewMemory(),
		log:      log,
	}
	e.snap.Store(snap)
	return e
}

// NewEngineWithSeed creates an engine with a deterministic template picker,
// for tests.
func NewEngineWithSeed(snap *content.Snapshot, seed int64, log *zap.Logger) *Engine {
	e := NewEngine(snap, log)
	e.composer = NewComposerWithSeed(seed)
	return e
}

// Memory exposes the session memory for context building and persistence.
func (e *Engine) Memory() *Memory { return e.memory }

// Snapshot returns the content the engine answers from.
func (e *Engine) Snapshot() *content.Snapshot { return e.snap.Load() }

// SetSnapshot swaps in a refreshed snapshot. The swap is atomic and safe
// against a concurrent turn: the next turn answers from the new content,
// and in-flight composition is unaffected because each turn loads the
// snapshot once at entry.
func (e *Engine) SetSnapshot(snap *content.Snapshot) { e.snap.Store(snap) }

// Reply runs the full rule-based turn: classification, matching, composition,
// then the memory update. Memory and topic are only touched after the reply
// text is final.
func (e *Engine) Reply(utterance string) string {
	snap := e.snap.Load()
	analysis := Analyze(utterance, snap)
	matches := BuildMatches(analysis, snap)
	recentUser := e.memory.RecentUserTexts(3)

	reply, topic := e.composer.Compose(analysis, matches, e.memory.Topic(), recentUser, snap)

	e.memory.Observe(utterance, reply, topic)
	e.log.Debug("rule-based reply",
		zap.String("topic", topic.Tag()),
		zap.Int("project_matches", len(matches.Projects)),
		zap.Int("experience_matches", len(matches.Experience)))

	return reply
}

// RecordExchange commits an exchange produced outside the rule pipeline
// (a generative reply) without changing the topic.
func (e *Engine) RecordExchange(userText, botText string) {
	e.memory.ObserveExchange(userText, botText)
}
