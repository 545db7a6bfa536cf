package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "claimroute-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "POLICY NUMBER: A-1")
	}))
	defer server.Close()

	result, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "POLICY NUMBER: A-1", string(result.Body))
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	result, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(result.Body))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, "unexpected status: 404 Not Found", err.Error())
	assert.Equal(t, int32(1), attempts.Load(), "404 is not retryable")
}

func TestFetchWithRetry_ExhaustsRetries(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, int32(fetchMaxRetries), attempts.Load())
}

func TestFetch_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 4

	_, err := NewFetcher(cfg).FetchWithRetry(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetchWithRetry_CancelledContext(t *testing.T) {
	noSleep(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "docs.internal")

	req, _ := http.NewRequest(http.MethodGet, "https://claims.example.com/fnol.txt", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.internal:3128", u.Host, "https falls back to the http proxy")

	req, _ = http.NewRequest(http.MethodGet, "http://docs.internal/fnol.txt", nil)
	u, err = proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u, "no_proxy hosts go direct")
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "claimroute", NormalizeUserAgent("claimroute/0.1 (+https://github.com/ppiankov/claimroute)"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	r := NewRobotsChecker("claimroute/1.0", nil, 500*time.Millisecond)

	allowed, delay, err := r.CanFetch(context.Background(), "http://127.0.0.1:1/fnol.txt")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, delay)
}
