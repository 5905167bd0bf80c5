//go:build unit

package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/cache"
)

func TestFileCache(t *testing.T) {
	t.Parallel()

	t.Run("should return what was stored", func(t *testing.T) {
		t.Parallel()

		// given
		c, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "https://registry.npmjs.org/react", []byte(`{"name":"react"}`), time.Hour))

		// when
		data, ok, getErr := c.Get(ctx, "https://registry.npmjs.org/react")

		// then
		require.NoError(t, getErr)
		assert.True(t, ok)
		assert.JSONEq(t, `{"name":"react"}`, string(data))
	})

	t.Run("should miss an unknown key", func(t *testing.T) {
		t.Parallel()

		// given
		c, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)

		// when
		_, ok, getErr := c.Get(context.Background(), "missing")

		// then
		require.NoError(t, getErr)
		assert.False(t, ok)
	})

	t.Run("should drop an expired entry", func(t *testing.T) {
		t.Parallel()

		// given
		c, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		// when
		_, ok, getErr := c.Get(ctx, "key")

		// then
		require.NoError(t, getErr)
		assert.False(t, ok)
	})

	t.Run("should forget a deleted entry", func(t *testing.T) {
		t.Parallel()

		// given
		c, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))

		// when
		deleteErr := c.Delete(ctx, "key")

		// then
		require.NoError(t, deleteErr)
		_, ok, _ := c.Get(ctx, "key")
		assert.False(t, ok)
		require.NoError(t, c.Delete(ctx, "key"))
	})

	t.Run("should shard entries by hash prefix", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		c, err := cache.NewFileCache(dir)
		require.NoError(t, err)

		// when
		setErr := c.Set(context.Background(), "key", []byte("value"), 0)

		// then
		require.NoError(t, setErr)
		hash := cache.Hash([]byte("key"))
		_, statErr := os.Stat(filepath.Join(dir, hash[:2], hash))
		assert.NoError(t, statErr)
		assert.Equal(t, dir, c.Dir())
	})
}

func TestNullCache(t *testing.T) {
	t.Parallel()

	t.Run("should never return anything", func(t *testing.T) {
		t.Parallel()

		// given
		c := cache.NewNullCache()
		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))

		// when
		data, ok, err := c.Get(ctx, "key")

		// then
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
		assert.NoError(t, c.Close())
	})
}

func TestNewRedisCache(t *testing.T) {
	t.Parallel()

	t.Run("should reject a malformed url", func(t *testing.T) {
		t.Parallel()

		// given
		url := "http://not-redis"

		// when
		_, err := cache.NewRedisCache(context.Background(), url)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid redis url")
	})
}
