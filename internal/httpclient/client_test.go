//go:build unit

package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/httpclient"
)

func TestClientGetBytes(t *testing.T) {
	t.Parallel()

	t.Run("should retry a server error until it succeeds", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()
		client := httpclient.NewClient(httpclient.Options{Retries: 3, RetryDelay: time.Millisecond})

		// when
		body, err := client.GetBytes(context.Background(), server.URL)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("should not retry a missing resource", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := httpclient.NewClient(httpclient.Options{Retries: 3, RetryDelay: time.Millisecond})

		// when
		_, err := client.GetBytes(context.Background(), server.URL)

		// then
		require.ErrorIs(t, err, httpclient.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, httpclient.StatusCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should give up after the last attempt", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		client := httpclient.NewClient(httpclient.Options{Retries: 2, RetryDelay: time.Millisecond})

		// when
		_, err := client.GetBytes(context.Background(), server.URL)

		// then
		require.ErrorIs(t, err, httpclient.ErrNetwork)
		assert.Equal(t, http.StatusServiceUnavailable, httpclient.StatusCode(err))
	})

	t.Run("should serve a repeated request from the cache", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"name":"react"}`))
		}))
		defer server.Close()
		fileCache, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		client := httpclient.NewClient(httpclient.Options{Retries: 1, Cache: fileCache, CacheTTL: time.Hour})

		// when
		var first, second struct{ Name string }
		firstErr := client.GetJSON(context.Background(), server.URL, &first)
		secondErr := client.GetJSON(context.Background(), server.URL, &second)

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Equal(t, "react", second.Name)
		assert.Equal(t, int32(1), calls.Load())
		assert.NoError(t, client.Close())
	})

	t.Run("should evict a cached body that does not decode", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				_, _ = w.Write([]byte(`{"name":`))
				return
			}
			_, _ = w.Write([]byte(`{"name":"vue"}`))
		}))
		defer server.Close()
		fileCache, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		client := httpclient.NewClient(httpclient.Options{Retries: 1, Cache: fileCache, CacheTTL: time.Hour})

		// when
		var first, second struct{ Name string }
		firstErr := client.GetJSON(context.Background(), server.URL, &first)
		secondErr := client.GetJSON(context.Background(), server.URL, &second)

		// then
		require.Error(t, firstErr)
		require.NoError(t, secondErr)
		assert.Equal(t, "vue", second.Name)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should send the configured headers", func(t *testing.T) {
		t.Parallel()

		// given
		received := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received <- r.Header.Get("Authorization")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()
		client := httpclient.NewClient(httpclient.Options{
			Retries: 1,
			Headers: map[string]string{"Authorization": "Bearer token"},
		})

		// when
		_, err := client.GetBytes(context.Background(), server.URL)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer token", <-received)
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("should stop waiting when the context ends", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		fn := func() error {
			attempts++
			cancel()
			return &httpclient.RetryableError{Err: httpclient.ErrNetwork}
		}

		// when
		err := httpclient.Retry(ctx, 5, time.Hour, fn)

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("should run at least once", func(t *testing.T) {
		t.Parallel()

		// given
		attempts := 0

		// when
		err := httpclient.Retry(context.Background(), 0, time.Millisecond, func() error {
			attempts++
			return nil
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})
}
