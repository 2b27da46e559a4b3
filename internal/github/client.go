// Package github is a small read-only client for the GitHub REST API.
package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/structures"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"
	maxBodyBytes   = 8 << 20
)

// API is what the services need from GitHub.
type API interface {
	SearchUsers(ctx context.Context, query string, page, perPage int) (*SearchResult, error)
	GetUser(ctx context.Context, login string) (*User, error)
	ListRepos(ctx context.Context, login string, opts RepoListOptions, page, perPage int) ([]Repository, error)
	ListFollowers(ctx context.Context, login string, page, perPage int) ([]User, error)
	ListFollowing(ctx context.Context, login string, page, perPage int) ([]User, error)
	ListEvents(ctx context.Context, login string, page, perPage int) ([]Event, error)
	ListOrgs(ctx context.Context, login string) ([]Org, error)
}

// Client caches successful response bodies by URL and collapses identical
// concurrent GETs into one upstream request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	group   singleflight.Group
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *Client {
	base := strings.TrimRight(conf.GitHub.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := conf.GitHub.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		token:   conf.GitHub.Token,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Client) SearchUsers(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	setPage(q, page, perPage)
	var out SearchResult
	if err := c.get(ctx, "/search/users", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	var out User
	if err := c.get(ctx, "/users/"+url.PathEscape(login), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRepos(ctx context.Context, login string, opts RepoListOptions, page, perPage int) ([]Repository, error) {
	q := url.Values{}
	setPage(q, page, perPage)
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Direction != "" {
		q.Set("direction", opts.Direction)
	}
	var out []Repository
	if err := c.get(ctx, "/users/"+url.PathEscape(login)+"/repos", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListFollowers(ctx context.Context, login string, page, perPage int) ([]User, error) {
	return c.listUsers(ctx, "/users/"+url.PathEscape(login)+"/followers", page, perPage)
}

func (c *Client) ListFollowing(ctx context.Context, login string, page, perPage int) ([]User, error) {
	return c.listUsers(ctx, "/users/"+url.PathEscape(login)+"/following", page, perPage)
}

func (c *Client) listUsers(ctx context.Context, path string, page, perPage int) ([]User, error) {
	q := url.Values{}
	setPage(q, page, perPage)
	var out []User
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEvents(ctx context.Context, login string, page, perPage int) ([]Event, error) {
	q := url.Values{}
	setPage(q, page, perPage)
	var out []Event
	if err := c.get(ctx, "/users/"+url.PathEscape(login)+"/events", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrgs(ctx context.Context, login string) ([]Org, error) {
	var out []Org
	if err := c.get(ctx, "/users/"+url.PathEscape(login)+"/orgs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPage(q url.Values, page, perPage int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body, err := c.fetch(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(apperrors.CodeFetchUnknown, err, "decode "+path)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	cached := !bypassCache(ctx)
	if cached {
		if body, ok := c.cache.Get(u); ok {
			return body, nil
		}
	}

	key := u
	if !cached {
		key = "fresh " + u
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.do(context.WithoutCancel(ctx), u, cached)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debugf(providers.TypeGitHub, "Shared upstream response for %s", u)
	}
	return v.([]byte), nil
}

func (c *Client) do(ctx context.Context, u string, cache bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetchUnknown, err, "build request")
	}
	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveUpstreamDuration(time.Since(start))
	if err != nil {
		c.logger.Warnf(providers.TypeGitHub, "GET %s failed: %s", u, err)
		return nil, apperrors.Wrap(apperrors.CodeFetchNetwork, err, "GET "+u)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetchNetwork, err, "read "+u)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := classify(resp.StatusCode, resp.Header, body)
		c.logger.Warnf(providers.TypeGitHub, "GET %s: %d %s", u, resp.StatusCode, e.Code)
		return nil, e
	}

	c.logger.Debugf(providers.TypeGitHub, "GET %s: %d (%d bytes)", u, resp.StatusCode, len(body))
	if cache {
		c.cache.Set(u, body)
	}
	return body, nil
}

type bypassCacheKey struct{}

// WithoutResponseCache marks ctx so GETs always reach GitHub and their bodies
// are not cached. Paginated lists keep their own freshness and must not mix
// pages cached at different times.
func WithoutResponseCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func bypassCache(ctx context.Context) bool {
	v, _ := ctx.Value(bypassCacheKey{}).(bool)
	return v
}

var _ API = (*Client)(nil)
