// Package client is the console's data access layer: a caching fetch adapter
// that converts every transport and API failure into a uniform result, plus
// export download support.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/tidwall/gjson"
)

// FetchOptions steers cache behavior for one request.
type FetchOptions struct {
	// Force bypasses the cache entirely for this request.
	Force bool
	// Validate revalidates a cached entry with its stored validators.
	Validate bool
}

// Result is the adapter's only output shape. Fetch never returns a Go error;
// failures are carried in the result so callers render them uniformly.
type Result struct {
	Success    bool
	Message    string
	Data       json.RawMessage
	Pagination *models.Pagination
	// LogOut signals an expired or invalid session; the caller must tear down.
	LogOut    bool
	Err       error
	Status    *int // nil when the request never reached the server
	FromCache bool
}

type cacheEntry struct {
	body         []byte
	etag         string
	lastModified string
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// New builds a Client for the given API base URL. The client keeps a cookie
// jar so the auth cookies set by login flow back on subsequent requests.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      make(map[string]*cacheEntry),
	}
}

// resolve joins a relative path onto the base URL; absolute URLs pass through.
func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return c.baseURL + "/" + strings.TrimLeft(url, "/")
}

// Fetch performs a GET with the adapter's cache and failure semantics.
func (c *Client) Fetch(ctx context.Context, url string, opts FetchOptions) Result {
	target := c.resolve(url)

	var cached *cacheEntry
	if !opts.Force {
		c.mu.Lock()
		cached = c.cache[target]
		c.mu.Unlock()
	}

	// Cached body served straight when no revalidation was requested.
	if cached != nil && !opts.Validate {
		result := parseBody(cached.body, http.StatusOK)
		result.FromCache = true
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return networkFailure(err)
	}
	req.Header.Set("Accept", "application/json")
	if cached != nil && opts.Validate {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Fetch: network error for %s: %v", target, err)
		return networkFailure(err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode

	if status == http.StatusNotModified && cached != nil {
		result := parseBody(cached.body, http.StatusOK)
		result.FromCache = true
		return result
	}

	if status == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return Result{Success: false, Message: "Session expired", LogOut: true, Status: &status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFailure(err)
	}

	if status < 200 || status > 299 {
		return Result{Success: false, Message: errorMessage(body, status), Status: &status}
	}

	result := parseBody(body, status)
	if result.Success && !opts.Force {
		c.mu.Lock()
		c.cache[target] = &cacheEntry{
			body:         body,
			etag:         resp.Header.Get("ETag"),
			lastModified: resp.Header.Get("Last-Modified"),
		}
		c.mu.Unlock()
	}
	return result
}

// InvalidateCache drops every cached entry, e.g. after logout.
func (c *Client) InvalidateCache() {
	c.mu.Lock()
	c.cache = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// parseBody enforces the response envelope: a 2xx body must carry a boolean
// "success" and a "data" key, otherwise the response counts as a failure.
func parseBody(body []byte, status int) Result {
	if !gjson.ValidBytes(body) {
		return Result{Success: false, Message: "Malformed response from server", Status: &status}
	}
	success := gjson.GetBytes(body, "success")
	data := gjson.GetBytes(body, "data")
	if !success.IsBool() || !data.Exists() {
		return Result{Success: false, Message: "Malformed response from server", Status: &status}
	}
	if !success.Bool() {
		return Result{Success: false, Message: errorMessage(body, status), Status: &status}
	}

	result := Result{Success: true, Status: &status, Data: json.RawMessage(data.Raw)}
	if p := gjson.GetBytes(body, "pagination"); p.Exists() {
		var pagination models.Pagination
		if err := json.Unmarshal([]byte(p.Raw), &pagination); err == nil {
			result.Pagination = &pagination
		}
	}
	return result
}

func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
		if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 300 {
		return text
	}
	return fmt.Sprintf("Request failed (%d)", status)
}

func networkFailure(err error) Result {
	return Result{Success: false, Message: "Network error: " + err.Error(), Err: err}
}
