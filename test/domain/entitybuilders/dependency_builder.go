//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name           string
	declared       string
	order          int
	source         entities.Source
	devDependency  bool
	latest         string
	latestMinor    string
	requested      string
	failureMessage string
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-dependency",
		declared:    "1.0.0",
		source:      entities.SourceNpm,
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithDeclared sets the version text found in the manifest.
func (b *DependencyBuilder) WithDeclared(version string) *DependencyBuilder {
	b.declared = version
	return b
}

// WithOrder sets the declaration order.
func (b *DependencyBuilder) WithOrder(order int) *DependencyBuilder {
	b.order = order
	return b
}

// WithSource sets the registry family.
func (b *DependencyBuilder) WithSource(source entities.Source) *DependencyBuilder {
	b.source = source
	return b
}

// WithDevDependency flags the dependency as a development one.
func (b *DependencyBuilder) WithDevDependency() *DependencyBuilder {
	b.devDependency = true
	return b
}

// WithLatest sets the resolved latest version.
func (b *DependencyBuilder) WithLatest(version string) *DependencyBuilder {
	b.latest = version
	return b
}

// WithLatestMinor sets the resolved latest version of the current major.
func (b *DependencyBuilder) WithLatestMinor(version string) *DependencyBuilder {
	b.latestMinor = version
	return b
}

// WithRequested sets the resolved version of the requested major.
func (b *DependencyBuilder) WithRequested(version string) *DependencyBuilder {
	b.requested = version
	return b
}

// WithFailure marks the dependency as failed.
func (b *DependencyBuilder) WithFailure(message string) *DependencyBuilder {
	b.failureMessage = message
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() *entities.Dependency {
	dep := entities.NewDependency(b.name, b.declared, b.order, b.source)
	dep.DevDependency = b.devDependency
	dep.LatestVersion = optionalVersion(b.latest)
	dep.LatestMinorVersion = optionalVersion(b.latestMinor)
	dep.RequestedVersion = optionalVersion(b.requested)
	if b.failureMessage != "" {
		dep.SetFailure(b.failureMessage)
	}
	return dep
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-dependency"
	b.declared = "1.0.0"
	b.order = 0
	b.source = entities.SourceNpm
	b.devDependency = false
	b.latest = ""
	b.latestMinor = ""
	b.requested = ""
	b.failureMessage = ""
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder:    b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:           b.name,
		declared:       b.declared,
		order:          b.order,
		source:         b.source,
		devDependency:  b.devDependency,
		latest:         b.latest,
		latestMinor:    b.latestMinor,
		requested:      b.requested,
		failureMessage: b.failureMessage,
	}
}

func optionalVersion(raw string) *entities.Version {
	if raw == "" {
		return nil
	}
	return entities.ParseVersion(raw)
}
