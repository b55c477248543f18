package generation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/assistant"
	"github.com/jonathan/portfolio-assistant/internal/llm"
	"github.com/jonathan/portfolio-assistant/internal/prompts"
)

// fallbackModels are tried in order when model discovery fails or yields
// nothing usable.
var fallbackModels = []string{
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-pro",
	"gemini-1.5-pro-latest",
	"gemini-1.5-pro",
	"models/gemini-1.5-flash",
	"models/gemini-pro",
}

// maxOverloadRetries bounds how many alternate candidates a single message
// may try after an overload signal.
const maxOverloadRetries = 3

// Default timing bounds. A generation call that exceeds its timeout is
// classified as overloaded rather than stalling the conversation.
const (
	defaultCallTimeout  = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
	defaultReadyWait    = 2 * time.Second
)

// State is the generation attempt state: the bound model, the ordered
// alternative candidates, and why binding failed if it did.
type State struct {
	Model      string
	Candidates []string
	Reason     string
}

// Available reports whether a model is bound.
func (s State) Available() bool { return s.Model != "" }

// clone copies the state so per-session mutation never shares slices.
func (s State) clone() State {
	out := s
	out.Candidates = append([]string(nil), s.Candidates...)
	return out
}

// Discovery is the one-time model enumeration and warm-up, shared by every
// session. Sessions seed their own attempt state from its result.
type Discovery struct {
	client llm.Client
	log    *zap.Logger

	ready chan struct{}
	state State
}

// NewDiscovery prepares a discovery over the given client. Call Run to
// execute it; Wait blocks (bounded) until it completes.
func NewDiscovery(client llm.Client, log *zap.Logger) *Discovery {
	return &Discovery{client: client, log: log, ready: make(chan struct{})}
}

// NewStaticDiscovery returns an already-resolved discovery, for tests and
// for rule-only deployments.
func NewStaticDiscovery(state State) *Discovery {
	d := &Discovery{state: state, ready: make(chan struct{})}
	close(d.ready)
	return d
}

// Run executes discovery and publishes the result. Intended to be launched
// in its own goroutine at startup.
func (d *Discovery) Run(ctx context.Context) {
	d.state = discover(ctx, d.client, d.log)
	close(d.ready)
}

// Peek returns the discovery result without blocking. The second return is
// false while discovery is still in flight.
func (d *Discovery) Peek() (State, bool) {
	select {
	case <-d.ready:
		return d.state.clone(), true
	default:
		return State{}, false
	}
}

// Wait blocks until discovery completes or the bound elapses. The second
// return is false when discovery is still in flight.
func (d *Discovery) Wait(bound time.Duration) (State, bool) {
	select {
	case <-d.ready:
		return d.state.clone(), true
	case <-time.After(bound):
		return State{}, false
	}
}

// discover enumerates candidate models and warm-up probes each until one
// binds. Total failure is not an error: the returned state records the
// reason and every turn degrades to the rule-based engine.
func discover(ctx context.Context, client llm.Client, log *zap.Logger) State {
	if client == nil {
		return State{Reason: "generative backend not configured"}
	}

	probePrompt := prompts.MustGet("warmup_probe")

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Warn("model discovery failed", zap.Error(err))
	}

	if len(models) > 0 {
		log.Info("discovered generative models", zap.Strings("models", models))
		for _, model := range models {
			if err := probe(ctx, client, model, probePrompt); err != nil {
				log.Debug("model warm-up failed", zap.String("model", model), zap.Error(err))
				continue
			}
			log.Info("bound generative model", zap.String("model", model))
			return State{Model: model, Candidates: models}
		}
	}

	log.Info("trying fallback model list")
	for _, model := range fallbackModels {
		if err := probe(ctx, client, model, probePrompt); err != nil {
			log.Debug("fallback model warm-up failed", zap.String("model", model), zap.Error(err))
			continue
		}
		candidates := models
		if len(candidates) == 0 {
			candidates = append([]string(nil), fallbackModels...)
		}
		log.Info("bound fallback generative model", zap.String("model", model))
		return State{Model: model, Candidates: candidates}
	}

	log.Warn("no generative model usable, running rule-based only")
	return State{Candidates: models, Reason: "all candidate models failed warm-up"}
}

// probe runs the trivial warm-up generation that verifies a candidate.
func probe(ctx context.Context, client llm.Client, model, prompt string) error {
	probeCtx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()
	_, err := client.Generate(probeCtx, model, nil, prompt)
	return err
}

// Source identifies which path produced a reply.
type Source string

// Reply sources.
const (
	SourceRule       Source = "rule"
	SourceGenerative Source = "generative"
)

// Reply is the outcome of one Respond call.
type Reply struct {
	Text   string
	Source Source
	Model  string
}

// Selector wraps one session's engine with the generative backend. Respond
// never returns an error: any failure degrades to the rule-based engine,
// silently from the user's point of view.
type Selector struct {
	client      llm.Client
	engine      *assistant.Engine
	discovery   *Discovery
	log         *zap.Logger
	callTimeout time.Duration
	readyWait   time.Duration

	mu     sync.Mutex
	seeded bool
	state  State
}

// Option adjusts selector timing, used by tests.
type Option func(*Selector)

// WithCallTimeout bounds each generation call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Selector) { s.callTimeout = d }
}

// WithReadyWait bounds how long Respond waits for in-flight discovery.
func WithReadyWait(d time.Duration) Option {
	return func(s *Selector) { s.readyWait = d }
}

// NewSelector creates a selector for one session.
func NewSelector(client llm.Client, engine *assistant.Engine, discovery *Discovery, log *zap.Logger, opts ...Option) *Selector {
	s := &Selector{
		client:      client,
		engine:      engine,
		discovery:   discovery,
		log:         log,
		callTimeout: defaultCallTimeout,
		readyWait:   defaultReadyWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StateSnapshot returns a copy of the session's attempt state.
func (s *Selector) StateSnapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Respond answers one utterance. It tries the bound generative model first,
// retries a bounded number of alternates on overload, and otherwise
// delegates to the rule-based engine. The terminal fallback cannot fail.
func (s *Selector) Respond(ctx context.Context, utterance string) Reply {
	state, ok := s.currentState()
	if !ok || !state.Available() {
		return s.ruleReply(utterance)
	}

	grounding := BuildGroundingContext(s.engine.Snapshot(), s.engine.Memory().Recent(3), s.engine.Memory().Topic())
	history := s.history()
	prompt := grounding + "\n\nUser question: " + utterance

	text, err := s.generate(ctx, state.Model, history, prompt)
	if err == nil {
		s.engine.RecordExchange(utterance, text)
		return Reply{Text: text, Source: SourceGenerative, Model: state.Model}
	}

	class := Classify(err)
	s.log.Warn("generation failed",
		zap.String("model", state.Model),
		zap.String("class", class.String()),
		zap.Error(err))

	if class == ClassOverloaded {
		if reply, ok := s.tryAlternates(ctx, state, history, prompt, utterance); ok {
			return reply
		}
	}

	return s.ruleReply(utterance)
}

// currentState seeds the session state from discovery on first use. Returns
// false while discovery is still in flight past the wait bound; the caller
// degrades to the rule engine instead of blocking the conversation.
func (s *Selector) currentState() (State, bool) {
	if s.client == nil {
		return State{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		state, ok := s.discovery.Wait(s.readyWait)
		if !ok {
			return State{}, false
		}
		s.state = state
		s.seeded = true
	}
	return s.state.clone(), true
}

// tryAlternates walks up to maxOverloadRetries other candidates with the
// same context, rebinding to the first that succeeds.
func (s *Selector) tryAlternates(ctx context.Context, state State, history []llm.Message, prompt, utterance string) (Reply, bool) {
	tried := 0
	for _, model := range state.Candidates {
		if model == state.Model {
			continue
		}
		if tried >= maxOverloadRetries {
			break
		}
		tried++

		text, err := s.generate(ctx, model, history, prompt)
		if err != nil {
			s.log.Warn("alternate model failed", zap.String("model", model), zap.Error(err))
			continue
		}

		// Bind the working model for subsequent turns.
		s.mu.Lock()
		s.state.Model = model
		s.mu.Unlock()

		s.log.Info("rebound generative model after overload", zap.String("model", model))
		s.engine.RecordExchange(utterance, text)
		return Reply{Text: text, Source: SourceGenerative, Model: model}, true
	}
	return Reply{}, false
}

func (s *Selector) generate(ctx context.Context, model string, history []llm.Message, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.client.Generate(callCtx, model, history, prompt)
}

// history maps the last few memory turns onto provider chat roles.
func (s *Selector) history() []llm.Message {
	turns := s.engine.Memory().Recent(6)
	msgs := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Speaker == assistant.SpeakerBot {
			role = "model"
		}
		msgs = append(msgs, llm.Message{Role: role, Text: turn.Text})
	}
	return msgs
}

func (s *Selector) ruleReply(utterance string) Reply {
	return Reply{Text: s.engine.Reply(utterance), Source: SourceRule}
}
