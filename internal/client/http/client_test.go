package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCollector struct {
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (r *recordingCollector) RecordRequest(client, method string, statusCode int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, statusCode)
}

func (r *recordingCollector) RecordRequestError(client, method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

func fastRetries() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      time.Millisecond,
		MaxInterval:          5 * time.Millisecond,
		Multiplier:           2,
		MaxElapsedTime:       time.Second,
		RetryableStatusCodes: []int{http.StatusServiceUnavailable},
	}
}

func TestHTTPClient_GetWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "main st", r.URL.Query().Get("q"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	collector := &recordingCollector{}
	client := NewHTTPClient(
		WithName("test"),
		WithBaseURL(server.URL+"/"),
		WithDefaultHeader("User-Agent", "test-agent"),
		WithMetricsCollector(collector),
		WithMiddleware(LoggingMiddleware()),
	)

	resp, err := client.Get(context.Background(), "search", WithQuery(url.Values{"q": {"main st"}}))
	require.NoError(t, err)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.ProcessJSONResponse(resp, &body))
	assert.True(t, body.OK)
	assert.Equal(t, []int{http.StatusOK}, collector.statuses)
	assert.Zero(t, collector.errors)
}

func TestHTTPClient_RetriesTransientStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL), WithRetryConfig(fastRetries()))

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPClient_NoRetryWhenDisabled(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	collector := &recordingCollector{}
	client := NewHTTPClient(WithBaseURL(server.URL), WithRetryConfig(nil), WithMetricsCollector(collector))

	resp, err := client.Get(context.Background(), "/")
	assert.Nil(t, resp)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, collector.errors)
}

func TestHTTPClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL), WithRetryConfig(fastRetries()))

	_, err := client.Get(context.Background(), "/missing")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "nope")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPClient_InvalidPathWithoutBaseURL(t *testing.T) {
	client := NewHTTPClient()
	_, err := client.Get(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestHTTPClient_EmptyPathKeepsBaseURL(t *testing.T) {
	paths := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL + "/hooks/abc/"))
	resp, err := client.Get(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "/hooks/abc/", <-paths)

	resolved, err := client.resolve("")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/hooks/abc/", resolved)

	resolved, err = client.resolve("status")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/hooks/abc/status", resolved)
}
