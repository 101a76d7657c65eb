// Package apiclient talks to the church site JSON API on behalf of an editor.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"churchsite/internal/application/orchestrators"
	"churchsite/internal/application/projections"
	"churchsite/internal/domain/account"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/menu"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultCacheTTL  = 30 * time.Second
	DefaultCacheSize = 128
	maxErrorBody     = 4 << 10
)

// APIError is a non-2xx response. Message is the server's plain-text body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options tunes a Client.
type Options struct {
	Timeout    time.Duration // per request, including reading the body
	CacheTTL   time.Duration // how long a GET response may be served stale
	CacheSize  int
	HTTPClient *http.Client
}

// Client is a session-aware API client with a read-through GET cache.
// Requests are never retried; a failed mutation leaves the cache untouched.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	token   string
	cache   *expirable.LRU[string, []byte]
}

// New creates a client for the API mounted at baseURL + "/api".
// PRE: baseURL is an absolute http(s) URL
func New(baseURL string, session Session, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/") + "/api",
		http:    opts.HTTPClient,
		timeout: opts.Timeout,
		token:   session.Token,
		cache:   expirable.NewLRU[string, []byte](opts.CacheSize, nil, opts.CacheTTL),
	}
}

// Get decodes the resource at path into out, serving it from cache while fresh.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	if data, ok := c.cache.Get(path); ok {
		log.Debug().Str("path", path).Msg("api_cache_hit")
		return decode(data, out)
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.cache.Add(path, data)
	return decode(data, out)
}

// Post sends body as JSON. out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.mutate(ctx, http.MethodPost, path, body, out)
}

// Put replaces the resource at path.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.mutate(ctx, http.MethodPut, path, body, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, nil)
}

// Invalidate drops every cached entry under the resource root of path, so
// "/events/e1/registrations" also clears "/events", "/events/cards" and their
// query variants.
func (c *Client) Invalidate(path string) {
	root := resourceRoot(path)
	if root == "" {
		return
	}
	for _, key := range c.cache.Keys() {
		k := trimQuery(key)
		if k == root || strings.HasPrefix(k, root+"/") {
			c.cache.Remove(key)
		}
	}
}

func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	data, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	c.Invalidate(path)
	if out == nil || len(data) == 0 {
		return nil
	}
	return decode(data, out)
}

// do performs one request under the per-request timeout.
// POST: 2xx returns the body; anything else returns *APIError
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api_request_failed")
		return nil, &APIError{Status: resp.StatusCode, Message: text}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Msg("api_request")
	return data, nil
}

func decode(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func trimQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// resourceRoot returns "/events" for "/events/abc/registrations?x=1",
// "" for the site root.
func resourceRoot(path string) string {
	p := strings.Trim(trimQuery(path), "/")
	if p == "" {
		return ""
	}
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}

// --- typed helpers ---

// Login exchanges credentials for a session and starts using its token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var res orchestrators.LoginResult
	err := c.Post(ctx, "/auth/login", map[string]string{"username": username, "password": password}, &res)
	if err != nil {
		return Session{}, err
	}
	c.token = res.Token
	c.cache.Purge()
	return Session{Token: res.Token, User: res.User, ExpiresAt: res.ExpiresAt}, nil
}

// Logout ends the server session and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Post(ctx, "/auth/logout", nil, nil)
	c.token = ""
	c.cache.Purge()
	return err
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (account.User, error) {
	var u account.User
	err := c.Get(ctx, "/auth/me", &u)
	return u, err
}

// Events lists events, optionally filtered by category.
func (c *Client) Events(ctx context.Context, category string) ([]event.Event, error) {
	path := "/events"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []event.Event
	err := c.Get(ctx, path, &out)
	return out, err
}

// DeleteEvent removes an event and its registrations.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.Delete(ctx, "/events/"+url.PathEscape(id))
}

// Campaigns lists raw campaign records.
func (c *Client) Campaigns(ctx context.Context) ([]campaign.Campaign, error) {
	var out []campaign.Campaign
	err := c.Get(ctx, "/campaigns", &out)
	return out, err
}

// CampaignCards lists campaigns with their progress computed by the server.
func (c *Client) CampaignCards(ctx context.Context) ([]projections.CampaignCard, error) {
	var out []projections.CampaignCard
	err := c.Get(ctx, "/campaigns/cards", &out)
	return out, err
}

// Navigation returns the composed menu tree.
func (c *Client) Navigation(ctx context.Context) ([]menu.Node, error) {
	var out []menu.Node
	err := c.Get(ctx, "/navigation", &out)
	return out, err
}
