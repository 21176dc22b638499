// Package github proxies the public GitHub API for profile repo listings.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

const defaultBaseURL = "https://api.github.com"

// Repo is the subset of a GitHub repository the profile page renders.
type Repo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
}

// Client fetches a user's latest repositories, with responses cached to stay
// under the unauthenticated rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the GitHub API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a GitHub client. An empty token means unauthenticated
// requests.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repos returns the user's five most recently created repositories.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	var repos []Repo

	err := cache.Aside(ctx, cache.GithubKey(username), &repos, cache.GithubTTL, func() error {
		fetched, err := c.fetchRepos(ctx, username)
		if err != nil {
			return err
		}
		repos = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) fetchRepos(ctx context.Context, username string) ([]Repo, error) {
	ctx, span := observability.TraceUpstreamCall(ctx, "github", "list_repos")
	defer span.End()

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "devconnector-api")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.GithubProxyRequests.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, models.NewUpstreamError("No Github profile found", err)
	}
	defer resp.Body.Close()

	middleware.GithubProxyRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return nil, models.NewUpstreamError("No Github profile found", fmt.Errorf("github responded %s", resp.Status))
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, models.NewUpstreamError("No Github profile found", err)
	}
	return repos, nil
}
