//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/npm"
	"github.com/rios0rios0/depwatch/test/domain/entitybuilders"
)

type failingPatcher struct{}

func (failingPatcher) PatchLine(string, string, *entities.Version) (string, error) {
	return "", errors.New("patch exploded")
}

// panickingPatcher panics for one name and delegates every other line to the npm patcher.
type panickingPatcher struct {
	name string
}

func (it panickingPatcher) PatchLine(line, name string, target *entities.Version) (string, error) {
	if name == it.name {
		var index map[string]int
		index[name] = 1
	}
	return npm.NewManifestRepository().PatchLine(line, name, target)
}

func updateItem(name, declared, target string) entities.PlanItem {
	dep := entitybuilders.NewDependencyBuilder().WithName(name).WithDeclared(declared).BuildDependency()
	return entities.PlanItem{Dependency: dep, Action: entities.PlanUpdate, Target: entities.ParseVersion(target)}
}

func TestApplyPlan(t *testing.T) {
	t.Parallel()

	t.Run("should keep the range operator when bumping a version", func(t *testing.T) {
		t.Parallel()

		// given
		text := "{\n  \"dependencies\": {\n    \"@pkg\": \"^23.1.0\",\n    \"other\": \"1.0.0\"\n  }\n}\n"
		items := []entities.PlanItem{updateItem("@pkg", "^23.1.0", "23.1.1")}

		// when
		result, outcomes := entities.ApplyPlan(items, text, npm.NewManifestRepository())

		// then
		assert.Equal(t, "{\n  \"dependencies\": {\n    \"@pkg\": \"^23.1.1\",\n    \"other\": \"1.0.0\"\n  }\n}\n", result)
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Updated)
		assert.Equal(t, "^23.1.0 -> 23.1.1", outcomes[0].Message)
	})

	t.Run("should fail a dependency missing from the file and still patch its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		text := "{\n  \"dependencies\": {\n    \"react\": \"~17.0.1\"\n  }\n}\n"
		items := []entities.PlanItem{
			updateItem("raect", "17.0.1", "17.0.2"),
			updateItem("react", "~17.0.1", "17.0.2"),
		}

		// when
		result, outcomes := entities.ApplyPlan(items, text, npm.NewManifestRepository())

		// then
		require.Len(t, outcomes, 2)
		assert.True(t, outcomes[0].Failed)
		assert.Equal(t, "could not find package in file", outcomes[0].Message)
		assert.True(t, outcomes[1].Updated)
		assert.Contains(t, result, `"react": "~17.0.2"`)
	})

	t.Run("should preserve windows line endings", func(t *testing.T) {
		t.Parallel()

		// given
		text := "{\r\n  \"dependencies\": {\r\n    \"vue\": \"3.2.0\"\r\n  }\r\n}"
		items := []entities.PlanItem{updateItem("vue", "3.2.0", "3.4.21")}

		// when
		result, _ := entities.ApplyPlan(items, text, npm.NewManifestRepository())

		// then
		assert.Equal(t, "{\r\n  \"dependencies\": {\r\n    \"vue\": \"3.4.21\"\r\n  }\r\n}", result)
	})

	t.Run("should record a patcher error and continue", func(t *testing.T) {
		t.Parallel()

		// given
		text := "\"a\": \"1.0.0\"\n\"b\": \"1.0.0\"\n"
		items := []entities.PlanItem{updateItem("a", "1.0.0", "2.0.0"), updateItem("b", "1.0.0", "2.0.0")}

		// when
		result, outcomes := entities.ApplyPlan(items, text, failingPatcher{})

		// then
		assert.Equal(t, text, result)
		require.Len(t, outcomes, 2)
		assert.True(t, outcomes[0].Failed)
		assert.Equal(t, "patch exploded", outcomes[1].Message)
	})

	t.Run("should turn a patcher panic into a failed outcome and continue", func(t *testing.T) {
		t.Parallel()

		// given
		text := "\"a\": \"1.0.0\"\n\"b\": \"1.0.0\"\n"
		items := []entities.PlanItem{updateItem("a", "1.0.0", "2.0.0"), updateItem("b", "1.0.0", "2.0.0")}

		// when
		result, outcomes := entities.ApplyPlan(items, text, panickingPatcher{name: "a"})

		// then
		require.Len(t, outcomes, 2)
		assert.True(t, outcomes[0].Failed)
		assert.False(t, outcomes[0].Updated)
		assert.Contains(t, outcomes[0].Message, "nil map")
		assert.True(t, outcomes[1].Updated)
		assert.Equal(t, "\"a\": \"1.0.0\"\n\"b\": \"2.0.0\"\n", result)
	})

	t.Run("should carry plan failures and skips into the outcomes", func(t *testing.T) {
		t.Parallel()

		// given
		dep := entitybuilders.NewDependencyBuilder().BuildDependency()
		items := []entities.PlanItem{
			{Dependency: dep, Action: entities.PlanSkip},
			{Dependency: dep, Action: entities.PlanFail, Reason: "no version available to update to"},
		}

		// when
		_, outcomes := entities.ApplyPlan(items, "", failingPatcher{})

		// then
		assert.False(t, outcomes[0].Updated || outcomes[0].Failed)
		assert.True(t, outcomes[1].Failed)
		assert.Equal(t, "no version available to update to", outcomes[1].Message)
	})

	t.Run("should parse the patched line back to the target version", func(t *testing.T) {
		t.Parallel()

		// given
		line := "    \"typescript\": \">=4.9.5\",\n"
		items := []entities.PlanItem{updateItem("typescript", ">=4.9.5", "5.4.2")}

		// when
		result, _ := entities.ApplyPlan(items, line, npm.NewManifestRepository())

		// then
		assert.Equal(t, "    \"typescript\": \">=5.4.2\",\n", result)
		assert.True(t, entities.VersionsEqual(entities.ParseVersion(">=5.4.2"), entities.ParseVersion("5.4.2")))
	})
}

func TestFindDeclarationLine(t *testing.T) {
	t.Parallel()

	t.Run("should require both the quoted name and the version", func(t *testing.T) {
		t.Parallel()

		// given
		lines := []string{
			`"react-dom": "17.0.1",`,
			`"react": "16.0.0",`,
			`"react": "17.0.1",`,
		}

		// when
		index := entities.FindDeclarationLine(lines, "react", "17.0.1")

		// then
		assert.Equal(t, 2, index)
		assert.Equal(t, -1, entities.FindDeclarationLine(lines, "vue", "17.0.1"))
	})
}
