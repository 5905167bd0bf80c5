package repositories

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/httpclient"
	npmRepo "github.com/rios0rios0/depwatch/internal/infrastructure/repositories/npm"
	nugetRepo "github.com/rios0rios0/depwatch/internal/infrastructure/repositories/nuget"
	"go.uber.org/dig"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register package registry with the registry reader of every source
	if err := container.Provide(func() *PackageRegistry {
		reg := NewPackageRegistry()
		reg.Register(entities.SourceNpm, func(client *httpclient.Client) domainRepos.PackageRepository {
			return npmRepo.NewPackageRepository(client)
		})
		reg.Register(entities.SourceNuGet, func(client *httpclient.Client) domainRepos.PackageRepository {
			return nugetRepo.NewPackageRepository(client)
		})
		return reg
	}); err != nil {
		return err
	}

	// Register manifest registry with all manifest formats and auditors
	if err := container.Provide(func() *ManifestRegistry {
		reg := NewManifestRegistry()
		reg.Register(npmRepo.NewManifestRepository())
		reg.Register(nugetRepo.NewManifestRepository())
		reg.RegisterAuditor(npmRepo.NewAuditRepository())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewClientFactory); err != nil {
		return err
	}

	return nil
}
