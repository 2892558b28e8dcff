package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/holon-run/pullreq/pkg/log"
)

const (
	// DefaultBaseURL is the default GitHub API base URL
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies requests made by pullreq
	DefaultUserAgent = "pullreq"

	// MediaType is the Accept header sent with every request
	MediaType = "application/vnd.github+json"
)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for go-github calls (GitHub Enterprise, tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets a custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client whose transport carries requests.
// The token is still attached by the client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.baseClient = client
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// Client sends authenticated requests to the GitHub REST API.
//
// The client provides:
// - Raw HTTP access via Send, one attempt per call
// - Lazy-loaded go-github client via GitHubClient() for typed endpoints
//
// Authorization is a bearer token attached by an oauth2 transport.
type Client struct {
	token        string
	baseURL      string
	userAgent    string
	timeout      time.Duration
	baseClient   *http.Client
	httpClient   *http.Client
	githubClient *github.Client // Lazy-loaded go-github client
}

// NewClient creates a new GitHub API client with the given token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:     token,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	var base http.RoundTripper = http.DefaultTransport
	if c.baseClient != nil && c.baseClient.Transport != nil {
		base = c.baseClient.Transport
	}
	if c.token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token}),
			Base:   base,
		}
	}
	c.httpClient = &http.Client{
		Transport: base,
		Timeout:   c.timeout,
	}

	return c
}

// GitHubClient returns the underlying go-github client (lazy-loaded)
func (c *Client) GitHubClient() *github.Client {
	if c.githubClient == nil {
		c.githubClient = github.NewClient(c.httpClient)
		c.githubClient.UserAgent = c.userAgent

		if c.baseURL != DefaultBaseURL && c.baseURL != "" {
			baseURL := c.baseURL
			// go-github requires a trailing slash
			if !strings.HasSuffix(baseURL, "/") {
				baseURL += "/"
			}
			if parsedURL, err := url.Parse(baseURL); err == nil {
				c.githubClient.BaseURL = parsedURL
			} else {
				log.Warn("ignoring invalid API base URL", "url", c.baseURL, "error", err)
			}
		}
	}
	return c.githubClient
}

// Send issues one HTTP request and returns the status code and raw response
// body. Non-2xx statuses are not errors at this level; see CheckResponse.
func (c *Client) Send(ctx context.Context, method, url string, headers http.Header, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, body != nil)
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	log.Debug("sending request", "method", method, "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: request failed: %w", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s %s: failed to read response: %w", method, url, err)
	}
	log.Debug("received response", "method", method, "url", url, "status", resp.StatusCode, "bytes", len(respBody))

	return resp.StatusCode, respBody, nil
}

// setHeaders sets common headers for GitHub API requests
func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", MediaType)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}
