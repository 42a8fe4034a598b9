package pathfinder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"pathways-sync/internal/httpx"
)

const topicsPath = "/api/cached/topics"

// Client talks to the Path Finder API. The topics export needs a bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
	Logger  *log.Logger
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Retry:  httpx.DefaultRetryConfig(),
		Logger: log.Default(),
	}
}

var ErrMissingToken = errors.New("pathfinder: missing token (set PATHFINDER_TOKEN)")

// FetchTopics downloads the raw topics export, decompressed.
func (c *Client) FetchTopics(ctx context.Context) ([]byte, error) {
	if c.Token == "" {
		return nil, ErrMissingToken
	}

	url := c.BaseURL + topicsPath
	start := time.Now()

	_, body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("pathfinder: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", httpx.AcceptEncoding)
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return req, nil
	}, c.Retry)
	if err != nil {
		return nil, fmt.Errorf("pathfinder: fetch topics: %w", err)
	}

	c.logger().Debug("fetched topics", "url", url, "bytes", len(body), "took", time.Since(start))
	return body, nil
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}
