package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// PackageRepository queries one remote package registry.
// Implementations must be safe for concurrent use.
type PackageRepository interface {
	// Source returns the registry family served (npm, NuGet).
	Source() entities.Source

	// FetchVersions returns every known version of the package, dropping
	// pre-releases unless includePreRelease is set.
	FetchVersions(ctx context.Context, name string, includePreRelease bool) (*entities.RegistryPackage, error)
}
