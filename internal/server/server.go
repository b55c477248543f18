package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/content"
	"github.com/jonathan/portfolio-assistant/internal/generation"
	"github.com/jonathan/portfolio-assistant/internal/llm"
	"github.com/jonathan/portfolio-assistant/internal/server/ratelimit"
	"github.com/jonathan/portfolio-assistant/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port               int
	RefreshSchedule    string
	JWTSecret          string
	JWTExpirationHours int
}

// Server is the HTTP front end: it owns the shared content snapshot, the
// session registry, and the one-time generative model discovery.
type Server struct {
	httpServer *http.Server
	cfg        Config
	log        *zap.Logger

	source    content.Source
	client    llm.Client
	discovery *generation.Discovery
	registry  *sessionRegistry

	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	store       *store.Store
	cron        *cron.Cron
	validate    *validator.Validate

	snapMu sync.RWMutex
	snap   *content.Snapshot
}

// New creates a server. The store may be nil for transcript-less
// deployments, and the llm client may be nil to run rule-based only.
func New(cfg Config, source content.Source, client llm.Client, st *store.Store, log *zap.Logger) (*Server, error) {
	snap, err := source.Snapshot(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load initial content snapshot: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		log:         log,
		source:      source,
		client:      client,
		snap:        snap,
		store:       st,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:  NewJWTService(cfg.JWTSecret, cfg.JWTExpirationHours),
		validate:    validator.New(),
	}

	s.discovery = generation.NewDiscovery(client, log.Named("discovery"))
	s.registry = newSessionRegistry(client, s.discovery, s.currentSnapshot, log.Named("sessions"))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/stream", s.handleChatStream)
	mux.HandleFunc("GET /sessions/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("GET /content", s.handleContent)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /admin/refresh", s.handleAdminRefresh)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	s.cron = cron.New()
	if cfg.RefreshSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshSchedule, s.scheduledRefresh); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSchedule, err)
		}
	}
	if _, err := s.cron.AddFunc("@every 10m", s.evictIdle); err != nil {
		return nil, fmt.Errorf("failed to schedule eviction: %w", err)
	}

	return s, nil
}

// Start begins listening for requests and blocks until an interrupt or
// termination signal, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go s.discovery.Run(context.Background())
	s.cron.Start()

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	cronCtx := s.cron.Stop()
	<-cronCtx.Done()

	if s.client != nil {
		s.client.Close() //nolint:errcheck
	}
	if s.store != nil {
		s.store.Close()
	}
	s.log.Info("server stopped")
	return nil
}

// currentSnapshot returns the snapshot shared by new sessions.
func (s *Server) currentSnapshot() *content.Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// refresh re-fetches content and points every live session at the new
// snapshot. On failure the previous snapshot stays in place.
func (s *Server) refresh(ctx context.Context) (*content.Snapshot, error) {
	snap, err := s.source.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("content refresh failed: %w", err)
	}

	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()

	s.registry.refreshSnapshots(snap)
	return snap, nil
}

// scheduledRefresh is the cron entry for periodic content refresh.
func (s *Server) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.refresh(ctx); err != nil {
		s.log.Warn("scheduled content refresh failed", zap.Error(err))
		return
	}
	s.log.Info("content refreshed on schedule")
}

// evictIdle is the cron entry for dropping idle sessions and stale rate
// limit buckets.
func (s *Server) evictIdle() {
	s.registry.evictIdle()
	s.rateLimiter.Evict()
}

// withCORS adds CORS headers so the site widget can call from the browser.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces the per-client token bucket.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(clientID(r)) {
			s.errorResponse(w, &ErrRateLimited{})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// clientID identifies a client for rate limiting by remote IP.
func clientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
