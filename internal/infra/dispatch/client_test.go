package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citygram-orlando/internal/resilience/circuitbreaker"
	"citygram-orlando/internal/resilience/retry"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.RatePerSecond = 1000
	cfg.Burst = 10
	cfg.Retry = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
	cfg.Breaker = circuitbreaker.DefaultConfig("dispatch-test")
	return cfg
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "citygram-orlando/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, `when > "2016-04-17T01:00:00"`, r.URL.Query().Get("$where"))
		_, _ = w.Write([]byte(`[{"reason":"ALARM"}]`))
	}))
	defer srv.Close()

	body, err := New(testConfig()).Fetch(context.Background(),
		srv.URL+"/resource/sm4t-sjt5.json?%24where=when+%3E+%222016-04-17T01%3A00%3A00%22")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"reason":"ALARM"}]`, string(body))
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := New(testConfig()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(testConfig()).Fetch(context.Background(), srv.URL)
	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxBodyBytes = 32
	_, err := New(cfg).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetch_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Retry.MaxAttempts = 1
	cfg.Breaker.Timeout = time.Hour
	client := New(cfg)

	for i := 0; i < 5; i++ {
		_, _ = client.Fetch(context.Background(), srv.URL)
	}
	require.Equal(t, int32(5), calls.Load())

	_, err := client.Fetch(context.Background(), srv.URL)
	assert.True(t, circuitbreaker.IsRejected(err))
	assert.True(t, client.IsOpen())
	assert.Equal(t, "dispatch-test", client.Name())
	assert.Equal(t, int32(5), calls.Load())
}

func TestFetch_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig()).Fetch(ctx, "http://127.0.0.1:1/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
