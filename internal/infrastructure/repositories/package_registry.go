package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/httpclient"
)

// PackageFactory creates a registry reader on the client of the current run.
type PackageFactory func(client *httpclient.Client) domainRepos.PackageRepository

// PackageRegistry manages the registry readers of every supported source.
type PackageRegistry struct {
	factories map[entities.Source]PackageFactory
}

// NewPackageRegistry creates an empty package registry.
func NewPackageRegistry() *PackageRegistry {
	return &PackageRegistry{
		factories: make(map[entities.Source]PackageFactory),
	}
}

// Register adds a factory for source.
func (r *PackageRegistry) Register(source entities.Source, factory PackageFactory) {
	r.factories[source] = factory
}

// Open returns a registry reader for source bound to client.
func (r *PackageRegistry) Open(
	source entities.Source,
	client *httpclient.Client,
) (domainRepos.PackageRepository, error) {
	factory, ok := r.factories[source]
	if !ok {
		return nil, fmt.Errorf("no registry registered for source %q (registered: %v)", source, r.Sources())
	}
	return factory(client), nil
}

// Sources returns the registered sources in a stable order.
func (r *PackageRegistry) Sources() []entities.Source {
	sources := make([]entities.Source, 0, len(r.factories))
	for source := range r.factories {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
