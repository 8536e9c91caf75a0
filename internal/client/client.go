// Package client provides an HTTP client for the Simple Analytics API with
// authentication headers, typed error classification, and endpoint wrappers
// for the Stats, Export, and Admin APIs.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Version is the client library version, reported in the default User-Agent.
const Version = "0.1.0"

const (
	// APIVersion is the Simple Analytics API version sent with every
	// Stats and Export request.
	APIVersion = 5

	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://simpleanalytics.com"

	// DefaultTimeout bounds every request when no custom timeout is set.
	DefaultTimeout = 30 * time.Second
)

// DefaultUserAgent identifies this client to the API.
var DefaultUserAgent = "sa-go/" + Version

// transport is the capability the endpoint wrappers need from the client.
// They hold this interface rather than *Client so the wrapper files depend
// only on the request surface.
type transport interface {
	Get(endpoint string, params url.Values, requireAuth bool) (any, error)
	Post(endpoint string, body any, requireAuth bool) (any, error)
}

// Client is an HTTP client for the Simple Analytics API. Both credentials
// are optional: public website stats can be queried without them, while
// Export and Admin calls require both. Credentials, when configured, are
// attached to every request so the API can return private-website data on
// otherwise public endpoints.
//
// The zero value is not usable; construct with New. A Client is safe for
// concurrent use: it holds no mutable cross-call state beyond the shared
// http.Client connection pool.
type Client struct {
	apiKey     string
	userID     string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	debugW     io.Writer
	closeOnce  sync.Once

	// Stats, Export, and Admin expose the three endpoint families.
	Stats  *StatsAPI
	Export *ExportAPI
	Admin  *AdminAPI
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. A trailing slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the default request timeout. It has no effect when
// WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying http.Client entirely. The caller
// is responsible for its timeout configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDebug enables request/response logging to w.
func WithDebug(w io.Writer) Option {
	return func(c *Client) { c.debugW = w }
}

// New creates a Client. apiKey and userID may be empty for public-only use.
func New(apiKey, userID string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		userID:    userID,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	c.Stats = &StatsAPI{t: c}
	c.Export = &ExportAPI{t: c}
	c.Admin = &AdminAPI{t: c}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request makes an HTTP request against the API. endpoint must begin with
// a slash. When requireAuth is true and either credential is missing, it
// fails with an authentication error before any network call.
//
// A 200 response with an application/json content type is parsed and
// returned as a generic JSON value; text/csv and any other content type
// is returned as the raw body string. Any non-200 status is classified
// into an *Error. Requests are never retried; retry policy belongs to
// the caller.
func (c *Client) Request(method, endpoint string, params url.Values, jsonBody any, requireAuth bool) (any, error) {
	if requireAuth {
		if c.apiKey == "" {
			return nil, &Error{Kind: KindAuthentication, Message: "API key is required for this operation"}
		}
		if c.userID == "" {
			return nil, &Error{Kind: KindAuthentication, Message: "User ID is required for this operation"}
		}
	}

	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var body io.Reader
	if jsonBody != nil {
		encoded, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	// Credentials are always attached when configured, even when
	// requireAuth is false. The API returns private-website data to
	// authenticated callers on the public stats endpoint.
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}
	if c.userID != "" {
		req.Header.Set("User-Id", c.userID)
	}

	c.debugf("--> %s %s\n", method, fullURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	c.debugf("<-- %d %s\n", resp.StatusCode, resp.Status)

	return c.handleResponse(resp)
}

// Get makes a GET request.
func (c *Client) Get(endpoint string, params url.Values, requireAuth bool) (any, error) {
	return c.Request(http.MethodGet, endpoint, params, nil, requireAuth)
}

// Post makes a POST request with a JSON body.
func (c *Client) Post(endpoint string, body any, requireAuth bool) (any, error) {
	return c.Request(http.MethodPost, endpoint, nil, body, requireAuth)
}

// Close releases the client's idle connections. It is safe to call more
// than once. The client remains technically usable afterwards (net/http
// opens fresh connections on demand), but callers should treat it as done.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
}

// handleResponse interprets the response by status and content type.
func (c *Client) handleResponse(resp *http.Response) (any, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode == http.StatusOK {
		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, "application/json") {
			var parsed any
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, &Error{Kind: KindGeneric, Message: fmt.Sprintf("invalid JSON in response: %v", err)}
			}
			return parsed, nil
		}
		// text/csv and anything else is returned as opaque text.
		return string(body), nil
	}

	return nil, errorFromResponse(resp.StatusCode, body)
}

// errorFromResponse builds the classified error for a non-200 response.
// The message comes from the body's "error" field, then "message", then
// "Unknown error"; a non-JSON body is used verbatim, with an
// "HTTP <code>" fallback when empty.
func errorFromResponse(status int, body []byte) *Error {
	var errorData map[string]any
	var message string

	if err := json.Unmarshal(body, &errorData); err == nil {
		message = "Unknown error"
		if s, ok := errorData["error"].(string); ok {
			message = s
		} else if s, ok := errorData["message"].(string); ok {
			message = s
		}
	} else {
		errorData = nil
		message = string(body)
		if message == "" {
			message = fmt.Sprintf("HTTP %d", status)
		}
	}

	return &Error{
		Kind:       classify(status),
		Message:    message,
		StatusCode: status,
		Response:   errorData,
	}
}

// networkError wraps a transport-level failure.
func networkError(err error) *Error {
	msg := fmt.Sprintf("request failed: %v", err)

	var uerr *url.Error
	var operr *net.OpError
	switch {
	case errors.As(err, &uerr) && uerr.Timeout():
		msg = fmt.Sprintf("request timed out: %v", err)
	case errors.As(err, &operr):
		msg = fmt.Sprintf("connection error: %v", err)
	}

	return &Error{Kind: KindNetwork, Message: msg}
}

func (c *Client) debugf(format string, a ...any) {
	if c.debugW != nil {
		fmt.Fprintf(c.debugW, "[sa debug] "+format, a...)
	}
}
