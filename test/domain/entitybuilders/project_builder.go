//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ProjectBuilder helps create test projects with a fluent interface.
type ProjectBuilder struct {
	*testkit.BaseBuilder
	name         string
	filePath     string
	source       entities.Source
	dependencies []*entities.Dependency
}

// NewProjectBuilder creates a new project builder with sensible defaults.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-project",
		filePath:    "package.json",
		source:      entities.SourceNpm,
	}
}

// WithName sets the project name.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.name = name
	return b
}

// WithFilePath sets the manifest path.
func (b *ProjectBuilder) WithFilePath(path string) *ProjectBuilder {
	b.filePath = path
	return b
}

// WithSource sets the registry family.
func (b *ProjectBuilder) WithSource(source entities.Source) *ProjectBuilder {
	b.source = source
	return b
}

// WithDependency appends a dependency.
func (b *ProjectBuilder) WithDependency(dep *entities.Dependency) *ProjectBuilder {
	b.dependencies = append(b.dependencies, dep)
	return b
}

// Build creates the project (satisfies testkit.Builder interface).
func (b *ProjectBuilder) Build() interface{} {
	return b.BuildProject()
}

// BuildProject creates the project with a concrete return type.
func (b *ProjectBuilder) BuildProject() *entities.Project {
	deps := make([]*entities.Dependency, len(b.dependencies))
	copy(deps, b.dependencies)
	return &entities.Project{
		Name:         b.name,
		FilePath:     b.filePath,
		Source:       b.source,
		Dependencies: deps,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProjectBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-project"
	b.filePath = "package.json"
	b.source = entities.SourceNpm
	b.dependencies = nil
	return b
}

// Clone creates a deep copy of the ProjectBuilder.
func (b *ProjectBuilder) Clone() testkit.Builder {
	deps := make([]*entities.Dependency, len(b.dependencies))
	copy(deps, b.dependencies)
	return &ProjectBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		filePath:     b.filePath,
		source:       b.source,
		dependencies: deps,
	}
}
