package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source supplies read-only content snapshots.
type Source interface {
	// Snapshot returns the current snapshot, served from cache when fresh.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Refresh fetches a new snapshot, bypassing the cache.
	Refresh(ctx context.Context) (*Snapshot, error)
}

// ClientConfig holds the headless CMS connection settings.
type ClientConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	// BaseURL overrides the derived CDN endpoint, used by tests.
	BaseURL string
	// CacheTTL bounds how long a fetched snapshot is served before the next
	// Snapshot call re-fetches. Zero disables caching.
	CacheTTL time.Duration
	// HTTPTimeout bounds each query request.
	HTTPTimeout time.Duration
}

const snapshotCacheKey = "snapshot"

// Client fetches portfolio records from the Sanity content API using GROQ
// queries against the CDN endpoint.
type Client struct {
	cfg   ClientConfig
	http  *http.Client
	cache *gocache.Cache
	log   *zap.Logger
}

// NewClient creates a content client. The logger may not be nil.
func NewClient(cfg ClientConfig, log *zap.Logger) (*Client, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("content: project ID is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}

	var cache *gocache.Cache
	if cfg.CacheTTL > 0 {
		cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.HTTPTimeout},
		cache: cache,
		log:   log,
	}, nil
}

func (c *Client) baseURL() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	return fmt.Sprintf("https://%s.apicdn.sanity.io/v%s/data/query/%s",
		c.cfg.ProjectID, c.cfg.APIVersion, c.cfg.Dataset)
}

// GROQ queries per collection, ordered the same way the site renders them.
const (
	queryProfile      = `*[_type == "profile"][0]{name, headline, bio, email, github, linkedin}`
	queryExperience   = `*[_type == "experience"] | order(order asc){_id, company, role, startDate, endDate, description, techStack, order}`
	queryProjects     = `*[_type == "project"] | order(order asc){_id, title, description, techStack, githubLink, liveLink, featured, order}`
	queryEducation    = `*[_type == "education"] | order(order asc){_id, institution, degree, field, startYear, endYear, description, location, order}`
	queryCertificates = `*[_type == "certificate"] | order(order asc){_id, title, issuer, issueDate, expiryDate, credentialUrl, skills, order}`
)

// Snapshot returns the cached snapshot when fresh, fetching otherwise.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(snapshotCacheKey); ok {
			return cached.(*Snapshot), nil
		}
	}
	return c.Refresh(ctx)
}

// Refresh fetches all five collections concurrently and assembles a
// normalized, sanitized snapshot. Malformed records are logged, not dropped.
func (c *Client) Refresh(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.query(gctx, queryProfile, &snap.Profile) })
	g.Go(func() error { return c.query(gctx, queryExperience, &snap.Experience) })
	g.Go(func() error { return c.query(gctx, queryProjects, &snap.Projects) })
	g.Go(func() error { return c.query(gctx, queryEducation, &snap.Education) })
	g.Go(func() error { return c.query(gctx, queryCertificates, &snap.Certificates) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	snap.Normalize()
	sanitizeSnapshot(snap)

	for _, issue := range snap.Validate() {
		c.log.Warn("malformed content record",
			zap.String("collection", issue.Collection),
			zap.Int("index", issue.Index),
			zap.String("issue", issue.Message))
	}

	if c.cache != nil {
		c.cache.Set(snapshotCacheKey, snap, gocache.DefaultExpiration)
	}

	c.log.Info("content snapshot fetched",
		zap.Int("experience", len(snap.Experience)),
		zap.Int("projects", len(snap.Projects)),
		zap.Int("education", len(snap.Education)),
		zap.Int("certificates", len(snap.Certificates)))

	return snap, nil
}

// query runs one GROQ query and decodes the result envelope into out.
func (c *Client) query(ctx context.Context, groq string, out any) error {
	u := c.baseURL() + "?query=" + url.QueryEscape(groq)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content API returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode query response: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}
