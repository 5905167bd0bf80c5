//go:build unit

package upgrader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/upgrader"
)

func TestAnalyzeVersionDiff(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		current  string
		target   string
		expected upgrader.Bump
	}{
		{"should detect a major bump", "^1.4.2", "2.0.0", upgrader.BumpMajor},
		{"should detect a minor bump", "1.4.2", "1.5.0", upgrader.BumpMinor},
		{"should detect a patch bump", "~1.4.2", "1.4.3", upgrader.BumpPatch},
		{"should report nothing for equal versions", "1.4.2", "1.4.2", upgrader.BumpNone},
		{"should compare four segment versions on the first three", "4.7.2.1", "4.8.0.0", upgrader.BumpMinor},
		{"should compare pre-releases", "2.0.0-beta.1", "2.0.0", upgrader.BumpPatch},
		{"should not classify a wildcard", "*", "3.0.0", upgrader.BumpUnknown},
		{"should flag a target older than the declared version", "^5.1.0", "4.9.2", upgrader.BumpDowngrade},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// given
			current := entities.ParseVersion(tc.current)
			target := entities.ParseVersion(tc.target)

			// when
			bump := upgrader.AnalyzeVersionDiff(current, target)

			// then
			assert.Equal(t, tc.expected, bump)
		})
	}

	t.Run("should report nothing without a target", func(t *testing.T) {
		t.Parallel()

		// given
		current := entities.ParseVersion("1.0.0")

		// when
		bump := upgrader.AnalyzeVersionDiff(current, nil)

		// then
		assert.Equal(t, upgrader.BumpNone, bump)
	})
}

func TestIsNewerVersion(t *testing.T) {
	t.Parallel()

	t.Run("should detect a newer target", func(t *testing.T) {
		t.Parallel()

		// given
		current := entities.ParseVersion("1.9.0")
		target := entities.ParseVersion("1.10.0")

		// when
		newer := upgrader.IsNewerVersion(current, target)

		// then
		assert.True(t, newer)
		assert.False(t, upgrader.IsNewerVersion(target, current))
	})
}
