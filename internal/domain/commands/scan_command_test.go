//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/depwatch/test/domain/entitybuilders"
	"github.com/rios0rios0/depwatch/test/infrastructure/repositorydoubles"
)

func TestScanCommand(t *testing.T) {
	t.Parallel()

	t.Run("should return the projects of every enabled source", func(t *testing.T) {
		t.Parallel()

		// given
		web := npmProject("web", npmDependency("react", "18.0.0", 0))
		api := entitybuilders.NewProjectBuilder().
			WithName("Api").
			WithFilePath("Api.csproj").
			WithSource(entities.SourceNuGet).
			WithDependency(entitybuilders.NewDependencyBuilder().WithName("Serilog").WithSource(entities.SourceNuGet).BuildDependency()).
			BuildProject()
		registry := infraRepos.NewManifestRegistry()
		registry.Register(&repositorydoubles.StubManifestRepository{
			RepoSource: entities.SourceNpm,
			Paths:      []string{"web/package.json"},
			Projects:   map[string]*entities.Project{"web/package.json": web},
		})
		registry.Register(&repositorydoubles.StubManifestRepository{
			RepoSource: entities.SourceNuGet,
			Paths:      []string{"Api.csproj"},
			Projects:   map[string]*entities.Project{"Api.csproj": api},
		})
		settings := entities.NewDefaultSettings()

		// when
		projects, err := commands.NewScanCommand(registry).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "web", projects[0].Name)
		assert.Equal(t, "Api", projects[1].Name)
	})

	t.Run("should skip disabled sources", func(t *testing.T) {
		t.Parallel()

		// given
		nuget := &repositorydoubles.StubManifestRepository{RepoSource: entities.SourceNuGet}
		registry := infraRepos.NewManifestRegistry()
		registry.Register(nuget)
		settings := entities.NewDefaultSettings()
		settings.Sources = []string{"npm"}

		// when
		projects, err := commands.NewScanCommand(registry).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Empty(t, projects)
		assert.Empty(t, nuget.FoundRoots)
	})

	t.Run("should drop projects left without dependencies after filtering", func(t *testing.T) {
		t.Parallel()

		// given
		web := npmProject("web", npmDependency("@types/node", "20.0.0", 0))
		registry := infraRepos.NewManifestRegistry()
		registry.Register(&repositorydoubles.StubManifestRepository{
			RepoSource: entities.SourceNpm,
			Paths:      []string{"package.json"},
			Projects:   map[string]*entities.Project{"package.json": web},
		})
		settings := entities.NewDefaultSettings()
		settings.Ignore = []string{"@types"}

		// when
		projects, err := commands.NewScanCommand(registry).Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Empty(t, projects)
	})

	t.Run("should report unreadable manifests and keep the others", func(t *testing.T) {
		t.Parallel()

		// given
		web := npmProject("web", npmDependency("react", "18.0.0", 0))
		registry := infraRepos.NewManifestRegistry()
		registry.Register(&repositorydoubles.StubManifestRepository{
			RepoSource: entities.SourceNpm,
			Paths:      []string{"gone/package.json", "bad/package.json", "web/package.json"},
			Projects:   map[string]*entities.Project{"web/package.json": web},
			ReadErrs: map[string]error{
				"gone/package.json": fmt.Errorf("%w: permission denied", entities.ErrManifestNotFound),
				"bad/package.json":  errors.New("invalid character"),
			},
		})

		// when
		projects, err := commands.NewScanCommand(registry).Execute(context.Background(), entities.NewDefaultSettings())

		// then
		require.ErrorIs(t, err, entities.ErrManifestNotFound)
		require.Len(t, projects, 1)
		assert.Equal(t, "web", projects[0].Name)
	})

	t.Run("should return the find error", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewManifestRegistry()
		registry.Register(&repositorydoubles.StubManifestRepository{
			RepoSource: entities.SourceNpm,
			FindErr:    entities.ErrManifestNotFound,
		})

		// when
		projects, err := commands.NewScanCommand(registry).Execute(context.Background(), entities.NewDefaultSettings())

		// then
		require.ErrorIs(t, err, entities.ErrManifestNotFound)
		assert.Nil(t, projects)
	})
}
