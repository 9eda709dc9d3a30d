// Package contentapi fetches navigation data from the content API, falling
// back to local content files.
package contentapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docnav/internal/navtree"
	"go.uber.org/zap"
)

// ErrNotFound is returned when neither the API nor local content has the
// requested nav data.
var ErrNotFound = errors.New("contentapi: nav data not found")

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	ContentDir string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client communicates with the content API.
type Client struct {
	baseURL    string
	apiKey     string
	contentDir string
	httpClient *http.Client
	logger     *zap.Logger
	latency    *LatencyStats
	sleep      func(context.Context, time.Duration) error

	requests  atomic.Int64
	retries   atomic.Int64
	failures  atomic.Int64
	fallbacks atomic.Int64
}

// Stats reports client activity since start.
type Stats struct {
	Requests  int64           `json:"requests"`
	Retries   int64           `json:"retries"`
	Failures  int64           `json:"failures"`
	Fallbacks int64           `json:"fallbacks"`
	Latency   LatencySnapshot `json:"latency"`
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		contentDir: opts.ContentDir,
		httpClient: httpClient,
		logger:     logger,
		latency:    NewLatencyStats(time.Hour),
		sleep:      sleepCtx,
	}
}

// NavData returns the nav tree for product/section at version. The remote
// API is consulted first when configured; a 404 or missing API falls back
// to {ContentDir}/{product}/{section}-nav-data.{json,yaml}.
func (c *Client) NavData(ctx context.Context, product, section, version string) ([]navtree.NavNode, error) {
	if c.baseURL != "" {
		nav, err := c.fetchRemote(ctx, product, section, version)
		if err == nil {
			return nav, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.failures.Add(1)
			return nil, err
		}
		c.logger.Info("nav data not on content api, trying local content",
			zap.String("product", product),
			zap.String("section", section),
		)
	}
	return c.loadLocal(product, section)
}

func (c *Client) fetchRemote(ctx context.Context, product, section, version string) ([]navtree.NavNode, error) {
	if version == "" {
		version = "latest"
	}
	u := fmt.Sprintf("%s/api/content/%s/nav-data/%s/%s",
		c.baseURL, url.PathEscape(product), url.PathEscape(version), url.PathEscape(section))

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			c.retries.Add(1)
			wait := Backoff(attempt - 1)
			c.logger.Warn("retrying content api request",
				zap.String("url", u),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
		nav, err := c.get(ctx, u)
		if err == nil || !IsRetryable(err) {
			return nav, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("content api %s: giving up after %d retries: %w", u, MaxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, u string) ([]navtree.NavNode, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.requests.Add(1)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.latency.Record(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get nav data %s: status %d: %s", u, resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Result struct {
			NavData json.RawMessage `json:"navData"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode nav data: %w", err)
	}
	if len(envelope.Result.NavData) == 0 {
		return nil, fmt.Errorf("decode nav data %s: missing result.navData", u)
	}
	return navtree.DecodeJSON(envelope.Result.NavData)
}

func (c *Client) loadLocal(product, section string) ([]navtree.NavNode, error) {
	if c.contentDir == "" {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, product, section)
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := filepath.Join(c.contentDir, product, section+"-nav-data"+ext)
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		c.fallbacks.Add(1)
		return navtree.Decode(data, p)
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, product, section)
}

// Stats returns request counters and the latency snapshot.
func (c *Client) Stats() Stats {
	return Stats{
		Requests:  c.requests.Load(),
		Retries:   c.retries.Load(),
		Failures:  c.failures.Load(),
		Fallbacks: c.fallbacks.Load(),
		Latency:   c.latency.Snapshot(),
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
