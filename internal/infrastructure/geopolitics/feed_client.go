package geopolitics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// ErrUnknownLocation is returned when the feed has no rating for a location.
var ErrUnknownLocation = errors.New("location not rated by political risk feed")

// feedResponse is the JSON document served by the political risk feed.
type feedResponse struct {
	Location string  `json:"location"`
	Risk     float64 `json:"risk"`
}

// FeedClient queries an HTTP political risk feed at GET <base>/political-risk?location=<name>.
// Transient failures (connection errors, 5xx, 429) are retried with backoff.
type FeedClient struct {
	baseURL string
	client  *retryablehttp.Client
	logger  logger.Logger
}

var _ service.PoliticalRiskProvider = (*FeedClient)(nil)

// FeedOption configures a FeedClient.
type FeedOption func(*retryablehttp.Client)

// WithRetries sets the retry budget and backoff bounds.
func WithRetries(max int, waitMin, waitMax time.Duration) FeedOption {
	return func(c *retryablehttp.Client) {
		c.RetryMax = max
		c.RetryWaitMin = waitMin
		c.RetryWaitMax = waitMax
	}
}

// NewFeedClient creates a client for the feed rooted at baseURL.
func NewFeedClient(baseURL string, log logger.Logger, opts ...FeedOption) *FeedClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 50 * time.Millisecond
	rc.RetryWaitMax = 200 * time.Millisecond
	rc.Logger = nil
	rc.HTTPClient.Timeout = 5 * time.Second
	for _, opt := range opts {
		opt(rc)
	}

	return &FeedClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  rc,
		logger:  log.WithComponent("PoliticalRiskFeed"),
	}
}

// PoliticalRisk fetches the rating of a location. The context deadline bounds all retries.
func (c *FeedClient) PoliticalRisk(ctx context.Context, location string) (float64, error) {
	endpoint := fmt.Sprintf("%s/political-risk?location=%s", c.baseURL, url.QueryEscape(location))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "political risk feed request failed", logger.String("location", location), logger.Err(err))
		return 0, fmt.Errorf("political risk feed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, ErrUnknownLocation
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("political risk feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode political risk feed response: %w", err)
	}
	if body.Risk < 0 || body.Risk > 100 {
		return 0, fmt.Errorf("political risk feed returned out-of-range value %v", body.Risk)
	}
	return body.Risk, nil
}
