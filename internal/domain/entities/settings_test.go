//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Run("should read a YAML config file", func(t *testing.T) {
		// given
		path := writeConfig(t, "depwatch.yaml", `
path: ./web
minor: true
major: 17
pre_release: true
sources: [npm]
ignore: ["@types"]
concurrency: 4
compat_marker: ""
registry:
  timeout: 10s
  retries: 2
cache:
  disabled: true
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "./web", settings.Path)
		assert.True(t, settings.KeepMajor)
		assert.Equal(t, 17, settings.RequestedMajor)
		assert.True(t, settings.IncludePreRelease)
		assert.Equal(t, []string{"@types"}, settings.Ignore)
		assert.Equal(t, 4, settings.Concurrency)
		assert.Equal(t, 10*time.Second, settings.Registry.Timeout)
		assert.Equal(t, 2, settings.Registry.Retries)
		assert.Equal(t, entities.DefaultRetryDelay, settings.Registry.RetryDelay)
		assert.True(t, settings.Cache.Disabled)
		assert.Empty(t, settings.CompatPolicy().Marker)
		assert.True(t, settings.SourceEnabled(entities.SourceNpm))
		assert.False(t, settings.SourceEnabled(entities.SourceNuGet))
	})

	t.Run("should read a TOML config file", func(t *testing.T) {
		// given
		path := writeConfig(t, "depwatch.toml", `
path = "./api"
minor = true
sources = ["nuget"]

[cache]
ttl = "2h"
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "./api", settings.Path)
		assert.True(t, settings.KeepMajor)
		assert.Equal(t, 2*time.Hour, settings.Cache.TTL)
		assert.Equal(t, entities.DefaultConcurrency, settings.Concurrency)
		assert.Equal(t, entities.DefaultCompatMarker, settings.CompatPolicy().Marker)
	})

	t.Run("should expand environment variables", func(t *testing.T) {
		// given
		t.Setenv("DEPWATCH_TEST_REDIS", "redis://localhost:6379/0")
		path := writeConfig(t, "depwatch.yaml", "cache:\n  redis_url: ${DEPWATCH_TEST_REDIS}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "redis://localhost:6379/0", settings.Cache.RedisURL)
	})

	t.Run("should reject an unknown source", func(t *testing.T) {
		// given
		path := writeConfig(t, "depwatch.yaml", "sources: [pip]\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown source")
	})

	t.Run("should reject a negative major", func(t *testing.T) {
		// given
		path := writeConfig(t, "depwatch.yaml", "major: -1\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})
}

func TestNewDefaultSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fill every default", func(t *testing.T) {
		t.Parallel()

		// when
		settings := entities.NewDefaultSettings()

		// then
		assert.Equal(t, ".", settings.Path)
		assert.Equal(t, entities.DefaultConcurrency, settings.Concurrency)
		assert.Equal(t, entities.DefaultRegistryTimeout, settings.Registry.Timeout)
		assert.Equal(t, entities.DefaultRetries, settings.Registry.Retries)
		assert.Equal(t, entities.DefaultCacheTTL, settings.Cache.TTL)
		assert.True(t, settings.SourceEnabled(entities.SourceNuGet))
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	t.Run("should split and trim a comma separated value", func(t *testing.T) {
		t.Parallel()

		// given
		value := " react, ,@angular/core ,"

		// when
		items := entities.SplitList(value)

		// then
		assert.Equal(t, []string{"react", "@angular/core"}, items)
	})
}
