package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/cache"
)

const userAgent = "depwatch (+https://github.com/rios0rios0/depwatch)"

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Cache      cache.Cache
	CacheTTL   time.Duration
	Headers    map[string]string
}

// Client is the registry transport shared by every fetch of one command run.
// It is safe for concurrent use; Close releases idle connections and the cache.
type Client struct {
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	retries    int
	retryDelay time.Duration
	headers    map[string]string
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(opts Options) *Client {
	responseCache := opts.Cache
	if responseCache == nil {
		responseCache = cache.NewNullCache()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		cache:      responseCache,
		cacheTTL:   opts.CacheTTL,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		headers:    opts.Headers,
	}
}

// GetBytes returns the body of a successful GET, served from cache when fresh.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if data, ok, err := c.cache.Get(ctx, url); err == nil && ok {
		logger.Debugf("Cache hit for %s", url)
		return data, nil
	} else if err != nil {
		logger.Debugf("Cache read failed for %s: %v", url, err)
	}

	var body []byte
	err := Retry(ctx, c.retries, c.retryDelay, func() error {
		var fetchErr error
		body, fetchErr = c.doRequest(ctx, url)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if len(body) > 0 {
		if setErr := c.cache.Set(ctx, url, body, c.cacheTTL); setErr != nil {
			logger.Debugf("Cache write failed for %s: %v", url, setErr)
		}
	}
	return body, nil
}

// GetJSON performs a GET and decodes the JSON body into v.
// A body that does not decode is evicted from the cache.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if unmarshalErr := json.Unmarshal(body, v); unmarshalErr != nil {
		if deleteErr := c.cache.Delete(ctx, url); deleteErr != nil {
			logger.Debugf("Cache eviction failed for %s: %v", url, deleteErr)
		}
		return fmt.Errorf("failed to decode response from %s: %w", url, unmarshalErr)
	}
	return nil
}

// Close releases idle connections and the cache.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return c.cache.Close()
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if statusErr := checkStatus(resp.StatusCode); statusErr != nil {
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: failed to read body: %w", ErrNetwork, err)}
	}
	return body, nil
}
