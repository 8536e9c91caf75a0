package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at a test server serving handler.
func newTestClient(t *testing.T, apiKey, userID string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(apiKey, userID, WithBaseURL(srv.URL))
}

func TestNewDefaults(t *testing.T) {
	c := New("", "")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.NotNil(t, c.Stats)
	assert.NotNil(t, c.Export)
	assert.NotNil(t, c.Admin)
}

func TestWithBaseURLStripsTrailingSlash(t *testing.T) {
	c := New("", "", WithBaseURL("https://custom.api.com/"))
	assert.Equal(t, "https://custom.api.com", c.BaseURL())
}

func TestRequestStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		kind     Kind
		sentinel error
	}{
		{401, KindAuthentication, ErrAuthentication},
		{403, KindAuthentication, ErrAuthentication},
		{404, KindNotFound, ErrNotFound},
		{422, KindValidation, ErrValidation},
		{429, KindRateLimit, ErrRateLimit},
		{500, KindServer, ErrServer},
		{502, KindServer, ErrServer},
		{418, KindGeneric, ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, "key", "user", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			})

			_, err := c.Get("/api/websites", nil, true)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "boom", apiErr.Message)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"error field", "application/json", `{"error":"X"}`, "X"},
		{"message fallback", "application/json", `{"message":"Y"}`, "Y"},
		{"error wins over message", "application/json", `{"error":"X","message":"Y"}`, "X"},
		{"neither field", "application/json", `{"detail":"Z"}`, "Unknown error"},
		{"non-JSON body verbatim", "text/plain", "something went wrong", "something went wrong"},
		{"empty body fallback", "text/plain", "", "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Get("/x.json", nil, false)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		})
	}
}

func TestErrorResponseBodyRetained(t *testing.T) {
	c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad start date","field":"start"}`))
	})

	_, err := c.Get("/x.json", nil, false)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad start date", apiErr.Message)
	assert.Equal(t, map[string]any{"error": "bad start date", "field": "start"}, apiErr.Response)
}

func TestRequestJSONRoundTrip(t *testing.T) {
	payload := map[string]any{
		"pageviews": float64(1234),
		"visitors":  float64(567),
		"pages":     []any{map[string]any{"value": "/", "pageviews": float64(900)}},
	}

	c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})

	got, err := c.Get("/example.com.json", nil, false)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRequestCSVReturnedVerbatim(t *testing.T) {
	const body = "added_iso,path\n2024-01-01T00:00:00Z,/\n"

	c := newTestClient(t, "key", "user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	})

	got, err := c.Get("/api/export/datapoints", nil, true)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestRequestUnknownContentTypeReturnedAsText(t *testing.T) {
	c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("opaque"))
	})

	got, err := c.Get("/x.json", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "opaque", got)
}

// spyTransport counts round trips and idle-connection closes.
type spyTransport struct {
	roundTrips int32
	closes     int32
}

func (s *spyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&s.roundTrips, 1)
	return nil, errors.New("spy transport: no network")
}

func (s *spyTransport) CloseIdleConnections() {
	atomic.AddInt32(&s.closes, 1)
}

func TestRequireAuthFailsBeforeNetworkCall(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		userID  string
		message string
	}{
		{"missing api key", "", "sa_user_id_test", "API key is required for this operation"},
		{"missing user id", "sa_api_key_test", "", "User ID is required for this operation"},
		{"missing both", "", "", "API key is required for this operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyTransport{}
			c := New(tt.apiKey, tt.userID, WithHTTPClient(&http.Client{Transport: spy}))

			_, err := c.Get("/api/websites", nil, true)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, KindAuthentication, apiErr.Kind)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Zero(t, apiErr.StatusCode, "pre-flight errors carry no status code")
			assert.Zero(t, atomic.LoadInt32(&spy.roundTrips), "no network call should be made")
		})
	}
}

func TestCredentialHeadersAlwaysSentWhenConfigured(t *testing.T) {
	var got http.Header
	c := newTestClient(t, "sa_api_key_test", "sa_user_id_test", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	// requireAuth is false, credentials must still be attached.
	_, err := c.Get("/example.com.json", nil, false)
	require.NoError(t, err)

	assert.Equal(t, "sa_api_key_test", got.Get("Api-Key"))
	assert.Equal(t, "sa_user_id_test", got.Get("User-Id"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
}

func TestCredentialHeadersOmittedWhenUnset(t *testing.T) {
	var got http.Header
	c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Get("/example.com.json", nil, false)
	require.NoError(t, err)

	assert.Empty(t, got.Get("Api-Key"))
	assert.Empty(t, got.Get("User-Id"))
}

func TestCustomUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := New("", "", WithBaseURL(srv.URL), WithUserAgent("custom-agent/9.9"))

	_, err := c.Get("/example.com.json", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent/9.9", got)
}

func TestPostSendsJSONBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, "key", "user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Post("/api/websites/add", map[string]any{"hostname": "example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hostname": "example.com"}, got)
}

func TestQueryParamsEncoded(t *testing.T) {
	var got url.Values
	c := newTestClient(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	params := url.Values{}
	params.Set("version", "5")
	params.Set("fields", "pageviews,visitors")

	_, err := c.Get("/example.com.json", params, false)
	require.NoError(t, err)
	assert.Equal(t, "5", got.Get("version"))
	assert.Equal(t, "pageviews,visitors", got.Get("fields"))
}

func TestTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c := New("", "", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))

	_, err := c.Get("/example.com.json", nil, false)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "timed out")
	assert.Zero(t, apiErr.StatusCode)
}

func TestConnectionFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close() // nothing listens here anymore

	c := New("", "", WithBaseURL(addr))

	_, err := c.Get("/example.com.json", nil, false)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestCloseReleasesConnectionsExactlyOnce(t *testing.T) {
	spy := &spyTransport{}
	c := New("", "", WithHTTPClient(&http.Client{Transport: spy}))

	c.Close()
	c.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.closes))
}

func TestCloseOnEveryExitPath(t *testing.T) {
	spy := &spyTransport{}

	func() {
		defer func() { _ = recover() }()
		c := New("", "", WithHTTPClient(&http.Client{Transport: spy}))
		defer c.Close()
		panic("inside scope")
	}()

	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.closes),
		"deferred Close must run when the scope unwinds via panic")
}
