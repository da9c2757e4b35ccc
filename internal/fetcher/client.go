package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Another-Red-Fox/repodoc/internal/cache"
	"github.com/Another-Red-Fox/repodoc/internal/domain"
	"github.com/Another-Red-Fox/repodoc/internal/repo"
	"github.com/Another-Red-Fox/repodoc/internal/utils"
)

// Branch references tried during a fetch, in order.
const (
	BranchPrimary  = "main"
	BranchFallback = "master"
)

// Client downloads repository branch archives over HTTP.
type Client struct {
	httpClient   *http.Client
	maxSize      int64
	retrier      *Retrier
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
	refreshCache bool
	logger       *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout      time.Duration
	MaxSize      int64
	Retries      int
	Cache        domain.Cache
	EnableCache  bool
	CacheTTL     time.Duration
	RefreshCache bool
	Logger       *utils.Logger
}

// Ensure Client implements domain.Fetcher
var _ domain.Fetcher = (*Client)(nil)

// NewClient creates a new archive fetcher
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100 * 1024 * 1024
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.Retries,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		maxSize:      opts.MaxSize,
		retrier:      retrier,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache && opts.Cache != nil,
		cacheTTL:     opts.CacheTTL,
		refreshCache: opts.RefreshCache,
		logger:       opts.Logger.WithComponent("fetcher"),
	}
}

// Fetch retrieves the branch zip archive for ref. The primary branch is
// tried first; a 404 triggers exactly one attempt against the fallback
// branch. Any other failure is terminal for the fetch.
func (c *Client) Fetch(ctx context.Context, ref domain.RepoRef) (*domain.FetchResult, error) {
	primaryURL := repo.ArchiveURL(ref, BranchPrimary)
	fallbackURL := repo.ArchiveURL(ref, BranchFallback)

	if c.cacheEnabled && !c.refreshCache {
		if result := c.fromCache(ctx, primaryURL, BranchPrimary); result != nil {
			return result, nil
		}
		if result := c.fromCache(ctx, fallbackURL, BranchFallback); result != nil {
			return result, nil
		}
	}

	body, err := c.download(ctx, primaryURL)
	branch := BranchPrimary
	archiveURL := primaryURL
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}

		c.logger.Debug().Str("url", fallbackURL).Msg("Primary branch not found, trying fallback")
		body, err = c.download(ctx, fallbackURL)
		if err != nil {
			if isNotFound(err) {
				return nil, domain.NewFetchError(fallbackURL, http.StatusNotFound, domain.ErrNotFound)
			}
			return nil, err
		}
		branch = BranchFallback
		archiveURL = fallbackURL
	}

	if c.cacheEnabled {
		if err := c.cache.Set(ctx, cache.ArchiveKey(archiveURL), body, c.cacheTTL); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache archive")
		}
	}

	return &domain.FetchResult{
		Body:      body,
		Branch:    branch,
		URL:       archiveURL,
		FetchedAt: time.Now(),
	}, nil
}

// download performs a bounded retrieval of a single archive URL.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	return RetryWithValue(ctx, c.retrier, func() ([]byte, error) {
		return c.doRequest(ctx, url)
	})
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewFetchError(url, 0, err)
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(url, 0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchErr := domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{Err: fetchErr}
		}
		return nil, fetchErr
	}

	// Content-Length is advisory; the limited read below is authoritative.
	if resp.ContentLength > c.maxSize {
		return nil, domain.NewFetchError(url, resp.StatusCode, domain.ErrArchiveTooLarge)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}
	if int64(len(body)) > c.maxSize {
		return nil, domain.NewFetchError(url, resp.StatusCode, domain.ErrArchiveTooLarge)
	}

	return body, nil
}

// fromCache returns a cached archive for url, or nil on miss.
func (c *Client) fromCache(ctx context.Context, url, branch string) *domain.FetchResult {
	data, err := c.cache.Get(ctx, cache.ArchiveKey(url))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("Cache lookup failed")
		}
		return nil
	}

	c.logger.Debug().Str("url", url).Msg("Archive served from cache")
	return &domain.FetchResult{
		Body:      data,
		Branch:    branch,
		URL:       url,
		FromCache: true,
		FetchedAt: time.Now(),
	}
}

// Close releases client resources
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// isNotFound reports whether err is an HTTP 404 fetch error.
func isNotFound(err error) bool {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound
	}
	return false
}
